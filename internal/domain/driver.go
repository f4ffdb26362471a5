package domain

// Driver is a routing resource. Inactive drivers are excluded from
// assignment; HomeBase, when present, anchors an otherwise empty route.
type Driver struct {
	ID              int64
	CompanyID       int64
	Slug            string
	Name            string
	Phone           string
	Active          bool
	HomeBaseAddress string
	HomeBase        *Coordinates
	Deleted         bool
}
