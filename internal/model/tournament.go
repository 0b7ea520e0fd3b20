package model

import "time"

// Tournament statuses.
const (
	TournamentScheduled = "SCHEDULED"
	TournamentRunning   = "RUNNING"
	TournamentFinished  = "FINISHED"
	TournamentCancelled = "CANCELLED"
)

// Tournament is an owner-organized event spanning a date range within
// one complex.  Scheduling a tournament bulk-creates blackout rows;
// cancelling it removes them.
//
// Fields:
//  ID        – primary key identifier.
//  ComplexID – complex hosting the tournament.
//  Name      – tournament name.
//  StartsOn  – first tournament date.
//  EndsOn    – last tournament date.
//  Status    – one of the Tournament* constants.
//  Category  – optional level description (e.g. "Intermediate").
//  CreatedBy – owner user ID.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Tournament struct {
	ID        uint64    // tournaments.id
	ComplexID uint64    // tournaments.complex_id
	Name      string    // tournaments.name
	StartsOn  time.Time // tournaments.starts_on
	EndsOn    time.Time // tournaments.ends_on
	Status    string    // tournaments.status
	Category  string    // tournaments.category
	CreatedBy uint64    // tournaments.created_by
	CreatedAt time.Time // tournaments.created_at
	UpdatedAt time.Time // tournaments.updated_at
}

// TournamentBlackout blocks one court for one date/time range on
// behalf of a tournament, independent of any other occupancy source.
//
// Fields:
//  ID           – primary key identifier.
//  TournamentID – owning tournament.
//  CourtID      – court being blocked.
//  Date         – blocked date.
//  StartMin     – range start, minutes since midnight.
//  EndMin       – range end, minutes since midnight.
//  CreatedAt    – creation timestamp.
type TournamentBlackout struct {
	ID           uint64    // tournament_blackouts.id
	TournamentID uint64    // tournament_blackouts.tournament_id
	CourtID      uint64    // tournament_blackouts.court_id
	Date         time.Time // tournament_blackouts.date
	StartMin     int       // tournament_blackouts.start_min
	EndMin       int       // tournament_blackouts.end_min
	CreatedAt    time.Time // tournament_blackouts.created_at
}
