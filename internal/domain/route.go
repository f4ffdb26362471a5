package domain

import "time"

// Stop is one job placed within a route. Start never exceeds Depart; Depart
// records the arrival at the dropoff, i.e. when the vehicle is free again.
type Stop struct {
	Job         *Job
	Arrive      time.Time
	Start       time.Time
	Depart      time.Time
	StartCoords Coordinates
	EndCoords   Coordinates
}

// Route is one driver's ordered stop sequence for a day. It exists only
// during generation; the final stop list is what gets persisted as schedule
// entries. Candidate insertions always build a full replacement stop slice,
// so a rejected candidate is discarded without touching the route.
type Route struct {
	Driver *Driver
	Stops  []Stop
}
