package recurrence

import "time"

// expandMonthly iterates months from from's month in steps of Interval. For
// every weekday in the rule it lists that weekday's dates within the month in
// order, then picks the ones selected by SetPositions: position N picks index
// N-1, negative positions count from the end (LastPosition picks the final
// one). A position with no matching date in a month, such as a fifth Monday
// in a four-Monday month, simply contributes nothing.
func (r Rule) expandMonthly(from, to time.Time) []time.Time {
	var dates []time.Time

	firstMonth := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	for month := firstMonth; !month.After(to); month = month.AddDate(0, r.Interval, 0) {
		for _, weekday := range r.Weekdays {
			matches := weekdayDatesInMonth(month, weekday)

			for _, pos := range r.SetPositions {
				idx := pos - 1
				if pos < 0 {
					idx = len(matches) + pos
				}

				if idx < 0 || idx >= len(matches) {
					continue
				}

				d := matches[idx]
				if d.Before(from) || d.After(to) {
					continue
				}

				dates = append(dates, d)
			}
		}
	}

	return dates
}

// weekdayDatesInMonth lists every date of the month starting at firstOfMonth
// that falls on the given weekday, in ascending order.
func weekdayDatesInMonth(
	firstOfMonth time.Time,
	weekday time.Weekday,
) []time.Time {
	first := firstOfMonth.AddDate(
		0, 0,
		(int(weekday)-int(firstOfMonth.Weekday())+daysPerWeek)%daysPerWeek,
	)

	var dates []time.Time
	for d := first; d.Month() == firstOfMonth.Month(); d = d.AddDate(0, 0, daysPerWeek) {
		dates = append(dates, d)
	}

	return dates
}
