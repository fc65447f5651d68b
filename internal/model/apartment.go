package model

import "time"

// ApartmentClass groups interchangeable physical units that share a
// capacity limit (for example "Suite" or "Standard").  Reservations are
// made against a class; a concrete apartment is chosen on approval.
//
// Fields:
//  ID          – primary key identifier.
//  Type        – unique class label.
//  MaxCapacity – maximum number of occupants per apartment of this class.
type ApartmentClass struct {
	ID          uint64    // apartment_classes.id
	Type        string    // apartment_classes.type
	MaxCapacity int       // apartment_classes.max_capacity
	CreatedAt   time.Time // apartment_classes.created_at
}

// Apartment is one physical unit.  Apartments reference their class by
// id.  Inactive apartments are never offered or bound to a reservation.
//
// Fields:
//  ID       – primary key identifier.
//  Number   – door number as printed, e.g. "101" or "12B".
//  Floor    – floor the apartment is on.
//  ClassID  – owning apartment class.
//  IsActive – whether the apartment can be assigned.
type Apartment struct {
	ID        uint64    // apartments.id
	Number    string    // apartments.number
	Floor     int       // apartments.floor
	ClassID   uint64    // apartments.class_id
	IsActive  bool      // apartments.is_active
	CreatedAt time.Time // apartments.created_at
	UpdatedAt time.Time // apartments.updated_at
}
