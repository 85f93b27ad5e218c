package recurrence

import "time"

const daysPerWeek = 7

// expandWeekly walks every day of [from, to] and keeps the ones whose weekday
// is in the rule's set and whose week is in phase with the anchor week.
// Weeks start on Monday: the phase of a date is the number of whole weeks
// between its Monday and from's Monday, and a week is included only when that
// number divides evenly by Interval.
func (r Rule) expandWeekly(from, to time.Time) []time.Time {
	anchorWeek := startOfWeek(from)

	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !containsWeekday(r.Weekdays, d.Weekday()) {
			continue
		}

		// both dates are midnight UTC, so Sub is an exact number of days
		days := int(startOfWeek(d).Sub(anchorWeek).Hours()) / 24
		if (days/daysPerWeek)%r.Interval != 0 {
			continue
		}

		dates = append(dates, d)
	}

	return dates
}

// startOfWeek returns the Monday of the week containing d.
func startOfWeek(d time.Time) time.Time {
	return d.AddDate(0, 0, -((int(d.Weekday()) + 6) % daysPerWeek))
}

func containsWeekday(weekdays []time.Weekday, weekday time.Weekday) bool {
	for _, wd := range weekdays {
		if wd == weekday {
			return true
		}
	}
	return false
}
