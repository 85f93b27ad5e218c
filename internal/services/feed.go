package services

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"regioevents.dev/internal/recurrence"
	"regioevents.dev/internal/repositories"
)

// feedHorizonMonths bounds how far a series export looks for its first
// upcoming occurrence.
const feedHorizonMonths = 12

//nolint:gochecknoglobals //lookup table
var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// FeedService renders occurrences and series as iCalendar documents so the
// platform's events can be subscribed to from regular calendar clients.
type FeedService struct {
	webURL      string
	series      *repositories.SeriesRepository
	occurrences *repositories.OccurrenceRepository
	now         func() time.Time
}

// UpcomingCalendar returns the materialized occurrences between from and to
// as single events.
func (service *FeedService) UpcomingCalendar(
	ctx context.Context,
	from time.Time,
	to time.Time,
) (*ics.Calendar, error) {
	occurrences, err := service.occurrences.GetAllInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//regioevents//calendar feed//EN")

	now := service.now()
	for _, occurrence := range occurrences {
		event := cal.AddEvent(
			fmt.Sprintf("%s@%s", occurrence.ID, service.webURL),
		)
		event.SetDtStampTime(now)
		event.SetStartAt(occurrence.StartsAtUTC)
		event.SetEndAt(occurrence.EndsAtUTC)
		event.SetSummary(occurrence.Name)
		event.SetLocation(occurrence.Location)
		event.SetDescription(occurrence.Committee)
	}

	return cal, nil
}

// SeriesCalendar exports one series as a master event carrying the RRULE,
// anchored on its first upcoming occurrence, so clients expand the
// recurrence themselves.
func (service *FeedService) SeriesCalendar(
	ctx context.Context,
	id string,
) (*ics.Calendar, error) {
	series, err := service.series.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//regioevents//series export//EN")

	now := service.now()
	from := recurrence.DateOf(now)
	to := recurrence.DateOf(now.AddDate(0, feedHorizonMonths, 0))

	instances, err := recurrence.BuildInstances(
		series.Rule.Expand(from, to),
		series.StartTimeLocal,
		series.DurationMinutes,
		series.Timezone,
		series.ExceptionDates,
	)
	if err != nil {
		return nil, err
	}

	// a fully excepted or expired series exports an empty calendar
	if len(instances) == 0 {
		return cal, nil
	}

	rruleValue, err := serializeRule(series.Rule)
	if err != nil {
		return nil, err
	}

	first := instances[0]
	event := cal.AddEvent(fmt.Sprintf("%s@%s", series.ID, service.webURL))
	event.SetDtStampTime(now)
	event.SetStartAt(first.StartsAtUTC)
	event.SetEndAt(first.EndsAtUTC)
	event.SetSummary(series.Name)
	event.SetLocation(series.Location)
	event.SetDescription(series.Committee)
	event.AddRrule(rruleValue)

	// EXDATE values must match the DTSTART form, so the excepted dates are
	// run through the same wall-clock conversion
	exdates, err := recurrence.BuildInstances(
		series.ExceptionDates,
		series.StartTimeLocal,
		0,
		series.Timezone,
		nil,
	)
	if err != nil {
		return nil, err
	}
	for _, exdate := range exdates {
		event.AddExdate(exdate.StartsAtUTC.Format("20060102T150405Z"))
	}

	return cal, nil
}

// serializeRule renders the rule as an iCalendar RRULE value via rrule-go.
func serializeRule(rule recurrence.Rule) (string, error) {
	//nolint:exhaustruct //other options are unused by this rule subset
	option := rrule.ROption{
		Interval: rule.Interval,
	}

	switch rule.Frequency {
	case recurrence.FrequencyWeekly:
		option.Freq = rrule.WEEKLY
		for _, weekday := range rule.Weekdays {
			option.Byweekday = append(option.Byweekday, rruleWeekdays[weekday])
		}
	case recurrence.FrequencyMonthly:
		// positions select per weekday, so render ordinal BYDAY terms.
		// BYSETPOS would select from the pooled matches of all weekdays
		// and drop dates the expansion does produce.
		option.Freq = rrule.MONTHLY
		for _, weekday := range rule.Weekdays {
			for _, position := range rule.SetPositions {
				ordinal := rruleWeekdays[weekday]
				option.Byweekday = append(
					option.Byweekday,
					ordinal.Nth(position),
				)
			}
		}
	}

	switch {
	case rule.Until != nil:
		option.Until = *rule.Until
	case rule.Count != nil:
		option.Count = *rule.Count
	}

	r, err := rrule.NewRRule(option)
	if err != nil {
		return "", fmt.Errorf("failed to serialize rule: %w", err)
	}

	return r.String(), nil
}
