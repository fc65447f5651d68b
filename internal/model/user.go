package model

import "time"

// Role names stored in users.role and carried in the JWT role claim.
const (
	RoleGuest = "GUEST"
	RoleStaff = "STAFF"
)

// User is an account that can own reservations (guests) or decide on
// them (staff).  Credentials live outside this service.
//
// Fields:
//  ID        – primary key identifier of the user.
//  Email     – unique email address.
//  FirstName – given name.
//  LastName  – family name.
//  Phone     – contact phone number (may be empty).
//  Role      – GUEST or STAFF.
//  IsActive  – false for blocked accounts.
type User struct {
	ID        uint64    // users.id
	Email     string    // users.email
	FirstName string    // users.first_name
	LastName  string    // users.last_name
	Phone     string    // users.phone
	Role      string    // users.role
	IsActive  bool      // users.is_active
	CreatedAt time.Time // users.created_at
	UpdatedAt time.Time // users.updated_at
}
