package dtos

import (
	"time"

	"regioevents.dev/internal/recurrence"
)

// CreateSeriesDto is a committee's submission of a recurring event. Weekday
// codes follow time.Weekday: 0 = Sunday through 6 = Saturday. Dates are
// YYYY-MM-DD.
type CreateSeriesDto struct {
	Name            string   `json:"name"`
	EventType       string   `json:"eventType"`
	Committee       string   `json:"committee"`
	Location        string   `json:"location"`
	Timezone        string   `json:"timezone"`
	StartTimeLocal  string   `json:"startTimeLocal"`
	DurationMinutes int      `json:"durationMinutes"`
	Frequency       string   `json:"frequency"`
	Interval        int      `json:"interval"`
	Weekdays        []int    `json:"weekdays"`
	SetPositions    []int    `json:"setPositions"`
	Until           *string  `json:"until"`
	Count           *int     `json:"count"`
	ExceptionDates  []string `json:"exceptionDates"`
}

func (dto *CreateSeriesDto) Validate() (bool, map[string]string) {
	errs := make(map[string]string)

	if dto.Name == "" {
		errs["name"] = "must be provided"
	}

	if dto.Committee == "" {
		errs["committee"] = "must be provided"
	}

	if _, err := time.LoadLocation(dto.Timezone); dto.Timezone == "" ||
		err != nil {
		errs["timezone"] = "must be a valid IANA timezone"
	}

	if _, err := time.Parse(
		recurrence.TimeOfDayLayout,
		dto.StartTimeLocal,
	); err != nil {
		errs["startTimeLocal"] = "must be a HH:MM wall-clock time"
	}

	if dto.DurationMinutes < 0 {
		errs["durationMinutes"] = "must be zero or positive"
	}

	if dto.Interval < 1 {
		errs["interval"] = "must be at least 1"
	}

	frequency := recurrence.Frequency(dto.Frequency)
	if frequency != recurrence.FrequencyWeekly &&
		frequency != recurrence.FrequencyMonthly {
		errs["frequency"] = "must be weekly or monthly"
	}

	if len(dto.Weekdays) == 0 {
		errs["weekdays"] = "must contain at least one weekday"
	}
	for _, weekday := range dto.Weekdays {
		if weekday < 0 || weekday > 6 {
			errs["weekdays"] = "weekday codes run from 0 (Sunday) to 6 (Saturday)"
			break
		}
	}

	if frequency == recurrence.FrequencyMonthly {
		if len(dto.SetPositions) == 0 {
			errs["setPositions"] = "must contain at least one position"
		}
		for _, pos := range dto.SetPositions {
			if pos == 0 {
				errs["setPositions"] = "positions must be non-zero"
				break
			}
		}
	}

	if dto.Until != nil {
		if _, err := time.Parse(time.DateOnly, *dto.Until); err != nil {
			errs["until"] = "must be a YYYY-MM-DD date"
		}
	}

	if dto.Count != nil && *dto.Count < 1 {
		errs["count"] = "must be at least 1"
	}

	for _, raw := range dto.ExceptionDates {
		if _, err := time.Parse(time.DateOnly, raw); err != nil {
			errs["exceptionDates"] = "dates must be YYYY-MM-DD"
			break
		}
	}

	return len(errs) == 0, errs
}
