package domain

import (
	"fmt"
	"strings"
	"time"
)

// Schedule is the one logical plan per (company, date).
type Schedule struct {
	ID        int64
	CompanyID int64
	Date      time.Time
}

type EntryStatus string

const (
	EntryPlanned   EntryStatus = "planned"
	EntryScheduled EntryStatus = "scheduled"
	EntryEnRoute   EntryStatus = "en_route"
	EntryArrived   EntryStatus = "arrived"
	EntryCompleted EntryStatus = "completed"
	EntryCancelled EntryStatus = "cancelled"
)

// ScheduleEntry is one committed trip on a day's schedule. Client name and
// addresses are frozen at creation time so the day view survives later edits
// to the client record.
type ScheduleEntry struct {
	ID         int64
	ScheduleID int64
	CompanyID  int64
	JobID      *int64
	DriverID   *int64
	VehicleID  *int64
	ClientID   *int64

	ClientName string
	StartTime  *TimeOfDay
	EndTime    *TimeOfDay

	PickupAddress  string
	PickupCity     string
	PickupCoords   *Coordinates
	DropoffAddress string
	DropoffCity    string
	DropoffCoords  *Coordinates

	Status  EntryStatus
	Notes   string
	Deleted bool
}

// templateTagPrefix marks entries produced by template materialization, so a
// sync pass can replace generated rows without touching manual additions.
const templateTagPrefix = "auto:template:"

// TemplateNoteTag returns the notes marker for entries generated from the
// given template.
func TemplateNoteTag(templateID int64) string {
	return fmt.Sprintf("%s%d", templateTagPrefix, templateID)
}

// TemplateGenerated reports whether an entry's notes carry a template tag.
func TemplateGenerated(notes string) bool {
	for _, line := range strings.Split(notes, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), templateTagPrefix) {
			return true
		}
	}
	return false
}
