package model

import "time"

// Court represents a bookable court within a complex.  Operating
// times are stored as "HH:MM" strings and converted to minute
// offsets by the schedule engine.  The configuration is read-mostly:
// availability computations treat it as immutable for the duration of
// a single call, and only facility management mutates it.
//
// Fields:
//  ID          – primary key identifier.
//  ComplexID   – ID of the containing complex.
//  Name        – court label unique within the complex.
//  Sport       – sport played on the court (PADEL, TENNIS, ...).
//  OpenTime    – daily opening time, "HH:MM".
//  CloseTime   – daily closing time, "HH:MM"; must be after OpenTime.
//  SlotMinutes – fixed booking slot duration; must divide the window.
//  PriceCents  – base price per slot in cents.
//  IsActive    – whether the court accepts bookings.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Court struct {
	ID          uint64    // courts.id
	ComplexID   uint64    // courts.complex_id
	Name        string    // courts.name
	Sport       string    // courts.sport
	OpenTime    string    // courts.open_time
	CloseTime   string    // courts.close_time
	SlotMinutes int       // courts.slot_minutes
	PriceCents  uint32    // courts.price_cents
	IsActive    bool      // courts.is_active
	CreatedAt   time.Time // courts.created_at
	UpdatedAt   time.Time // courts.updated_at
}
