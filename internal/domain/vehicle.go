package domain

// Vehicle capacity is persisted but not consulted by the insertion search
// today; it is the anchor for a future seat-capacity constraint.
type Vehicle struct {
	ID        int64
	CompanyID int64
	Slug      string
	Name      string
	Plate     string
	Capacity  int
	Deleted   bool
}
