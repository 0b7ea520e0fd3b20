// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingAdmittedEvent is published when a booking wins its slot.  It
// carries enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingAdmittedEvent struct {
	BookingID    uint64 `json:"booking_id"`
	CourtID      uint64 `json:"court_id"`
	ComplexName  string `json:"complex_name"`
	CourtName    string `json:"court_name"`
	Date         string `json:"date"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Status       string `json:"status"`
	PriceCents   uint32 `json:"price_cents"`
	PlayerID     uint64 `json:"player_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	AdmittedAt   string `json:"admitted_at"`
}
