package domain

// Location is one endpoint of a client's standing trip. Coords is nil until
// the address has been geocoded by the upstream import tooling.
type Location struct {
	Address string
	City    string
	Coords  *Coordinates
}

// Client is a rider with canonical pickup/dropoff endpoints. Clients are the
// fallback source for address resolution and are treated as immutable during
// a single generation run.
type Client struct {
	ID        int64
	CompanyID int64
	Slug      string
	Name      string
	Pickup    Location
	Dropoff   Location
	Notes     string
	Deleted   bool
}
