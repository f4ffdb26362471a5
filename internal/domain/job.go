package domain

import "time"

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobScheduled JobStatus = "scheduled"
	JobCancelled JobStatus = "cancelled"
)

// Job is a single pickup-to-dropoff demand for one client on one date.
// Either window bound may be absent; a job with no window at all is never
// late but still consumes travel time.
type Job struct {
	ID              int64
	CompanyID       int64
	ClientID        int64
	Client          *Client
	Date            time.Time
	WindowStart     *TimeOfDay
	WindowEnd       *TimeOfDay
	DurationMinutes int
	Priority        int
	Status          JobStatus
}

// Routable reports whether the job carries usable pickup and dropoff
// coordinates. Jobs that fail this check are reported unscheduled rather
// than aborting a generation run.
func (j *Job) Routable() bool {
	if j.Client == nil {
		return false
	}
	p, d := j.Client.Pickup.Coords, j.Client.Dropoff.Coords
	return p != nil && p.Valid() && d != nil && d.Valid()
}
