package domain

import "time"

// Template defines the default trips for one weekday (Monday-Friday).
// Admins edit it once; materialization expands it for any matching date.
type Template struct {
	ID        int64
	CompanyID int64
	Name      string
	Weekday   time.Weekday
	Active    bool
	Notes     string
	Entries   []*TemplateEntry
}

// TemplateEntry is one recurring trip line. Entries may reference records
// directly or carry free-text names; materialization resolves whichever is
// present and leaves the rest unassigned.
type TemplateEntry struct {
	ID         int64
	TemplateID int64
	Position   int

	ClientID  *int64
	DriverID  *int64
	VehicleID *int64

	ClientName  string
	DriverName  string
	VehicleName string

	StartTime *TimeOfDay

	PickupAddress  string
	PickupCity     string
	DropoffAddress string
	DropoffCity    string

	Notes string
}
