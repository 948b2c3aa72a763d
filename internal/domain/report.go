package domain

import "time"

// Report is the aggregate for a crowd-sourced pollution observation.
// OwnerID is set from the authenticated identity at creation time and is
// immutable afterwards.
type Report struct {
	ID          int64
	OwnerID     int64
	Title       string
	Place       string
	ObservedAt  *time.Time
	Category    string
	Description string
	Latitude    *float64
	Longitude   *float64
	PhotoURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
