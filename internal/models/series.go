package models

import (
	"time"

	"regioevents.dev/internal/recurrence"
)

type SeriesStatus string

const (
	SeriesStatusPending  SeriesStatus = "pending"
	SeriesStatusApproved SeriesStatus = "approved"
	SeriesStatusRejected SeriesStatus = "rejected"
)

// Series is a recurring-event definition submitted by a committee. It is
// never shown on the map or calendar directly; approved series are expanded
// into [Occurrence] rows by the materializer.
type Series struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	EventType string       `json:"eventType"`
	Committee string       `json:"committee"`
	Location  string       `json:"location"`
	Status    SeriesStatus `json:"status"`

	// Timezone is the IANA zone the wall-clock fields are expressed in.
	Timezone        string          `json:"timezone"`
	StartTimeLocal  string          `json:"startTimeLocal"`
	DurationMinutes int             `json:"durationMinutes"`
	Rule            recurrence.Rule `json:"rule"`
	// ExceptionDates are local calendar dates the series skips.
	ExceptionDates []time.Time `json:"exceptionDates"`

	CreatedAt time.Time `json:"createdAt"`
}
