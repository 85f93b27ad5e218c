package models

import "time"

// LocalTimeLayout is the offset-less layout the wall-clock pair of an
// occurrence is stored in.
const LocalTimeLayout = "2006-01-02T15:04:05"

// Occurrence is one concrete dated instance of a series, written only by the
// materializer. Display fields are denormalized from the series at
// generation time. For a given series there is at most one occurrence per
// starts-at-UTC instant; that pair is the idempotence key for regeneration.
type Occurrence struct {
	ID        string `json:"id"`
	SeriesID  string `json:"seriesId"`
	Name      string `json:"name"`
	EventType string `json:"eventType"`
	Committee string `json:"committee"`
	Location  string `json:"location"`

	// StartsAtLocal and EndsAtLocal are wall-clock ISO strings without an
	// offset, in the series' zone.
	StartsAtLocal string    `json:"startsAtLocal"`
	EndsAtLocal   string    `json:"endsAtLocal"`
	StartsAtUTC   time.Time `json:"startsAtUtc"`
	EndsAtUTC     time.Time `json:"endsAtUtc"`

	Status string `json:"status"`
}
