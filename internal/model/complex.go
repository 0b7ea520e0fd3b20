package model

import "time"

// Complex represents a sports facility owned by a user.  A complex
// contains multiple courts.  This struct corresponds to a row in the
// `complexes` table.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user ID of the facility owner.
//  Name      – display name of the complex.
//  Address   – street address.
//  City      – city or locality.
//  Phone     – optional contact phone.
//  Slug      – unique URL-friendly identifier.
//  IsActive  – whether the complex is open for booking.
//  CreatedAt – timestamp when the complex was created.
//  UpdatedAt – timestamp of last update.
type Complex struct {
	ID        uint64    // complexes.id
	OwnerID   uint64    // complexes.owner_id
	Name      string    // complexes.name
	Address   string    // complexes.address
	City      string    // complexes.city
	Phone     string    // complexes.phone
	Slug      string    // complexes.slug
	IsActive  bool      // complexes.is_active
	CreatedAt time.Time // complexes.created_at
	UpdatedAt time.Time // complexes.updated_at
}
