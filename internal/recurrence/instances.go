package recurrence

import (
	"fmt"
	"time"
)

// TimeOfDayLayout is the wall-clock layout used for series start times.
const TimeOfDayLayout = "15:04"

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// Instance is one concrete occurrence of a series: the local wall-clock pair
// alongside the absolute UTC pair.
type Instance struct {
	StartsAtLocal time.Time
	EndsAtLocal   time.Time
	StartsAtUTC   time.Time
	EndsAtUTC     time.Time
}

// BuildInstances combines candidate calendar dates with a wall-clock start
// time and a duration in the given IANA zone. Dates listed in exceptions are
// skipped; the match is on the local calendar date. Conversion to UTC is
// zone-rule aware: a wall-clock time that does not exist during a
// spring-forward transition resolves to the first valid instant after the
// gap (time.Date alone lands before the transition, so the gap is rolled
// across explicitly), a repeated one to the first of the two offsets. The
// result is ascending when dates is ascending.
func BuildInstances(
	dates []time.Time,
	startTimeLocal string,
	durationMinutes int,
	timezone string,
	exceptions []time.Time,
) ([]Instance, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}

	startOfDay, err := time.Parse(TimeOfDayLayout, startTimeLocal)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", startTimeLocal, err)
	}

	excepted := make(map[time.Time]struct{}, len(exceptions))
	for _, d := range exceptions {
		excepted[DateOf(d)] = struct{}{}
	}

	duration := time.Duration(durationMinutes) * time.Minute
	wantMinutes := startOfDay.Hour()*minutesPerHour + startOfDay.Minute()

	instances := make([]Instance, 0, len(dates))
	for _, d := range dates {
		if _, ok := excepted[DateOf(d)]; ok {
			continue
		}

		start := time.Date(
			d.Year(), d.Month(), d.Day(),
			startOfDay.Hour(), startOfDay.Minute(), 0, 0,
			loc,
		)
		if haveMinutes := start.Hour()*minutesPerHour + start.Minute(); haveMinutes != wantMinutes {
			// the wall clock fell in a DST gap and time.Date resolved it to
			// the offset before the transition; roll forward to the first
			// valid instant past the gap
			delta := wantMinutes - haveMinutes
			switch {
			case delta > minutesPerDay/2:
				delta -= minutesPerDay
			case delta < -minutesPerDay/2:
				// a gap straddling midnight normalizes to the previous day
				delta += minutesPerDay
			}
			start = start.Add(time.Duration(delta) * time.Minute)
		}
		end := start.Add(duration)

		instances = append(instances, Instance{
			StartsAtLocal: start,
			EndsAtLocal:   end,
			StartsAtUTC:   start.UTC(),
			EndsAtUTC:     end.UTC(),
		})
	}

	return instances, nil
}
