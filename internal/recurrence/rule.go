package recurrence

import (
	"errors"
	"sort"
	"time"
)

// Frequency selects which expansion strategy applies to a rule.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// LastPosition selects the final matching weekday of a month.
const LastPosition = -1

var (
	ErrBadFrequency   = errors.New("frequency must be weekly or monthly")
	ErrBadInterval    = errors.New("interval must be at least 1")
	ErrNoWeekdays     = errors.New("at least one weekday is required")
	ErrNoSetPositions = errors.New(
		"at least one set position is required for monthly rules",
	)
	ErrZeroSetPosition = errors.New("set positions must be non-zero")
)

// Rule is a recurrence pattern, a restricted subset of iCalendar RRULE
// semantics. Use NewWeeklyRule or NewMonthlyRule so invalid combinations
// (a weekly rule with set positions, a monthly rule without any) cannot be
// constructed. Treat values as immutable; WithUntil and WithCount return
// modified copies.
type Rule struct {
	Frequency Frequency `json:"frequency"`
	// Interval is every N weeks for weekly rules, every N months for
	// monthly ones.
	Interval int            `json:"interval"`
	Weekdays []time.Weekday `json:"weekdays"`
	// SetPositions is only meaningful for monthly rules: positive values
	// select the Nth matching weekday of the month, LastPosition the final
	// one.
	SetPositions []int `json:"setPositions,omitempty"`

	// Until is an inclusive end date. When both Until and Count are set,
	// Until is authoritative.
	Until *time.Time `json:"until,omitempty"`
	Count *int       `json:"count,omitempty"`
}

// NewWeeklyRule builds a rule matching the given weekdays every interval
// weeks.
func NewWeeklyRule(interval int, weekdays []time.Weekday) (Rule, error) {
	rule := Rule{
		Frequency:    FrequencyWeekly,
		Interval:     interval,
		Weekdays:     normalizeWeekdays(weekdays),
		SetPositions: nil,
		Until:        nil,
		Count:        nil,
	}

	return rule, rule.Validate()
}

// NewMonthlyRule builds a rule matching, every interval months, the
// setPositions-th occurrence of each given weekday within the month.
func NewMonthlyRule(
	interval int,
	weekdays []time.Weekday,
	setPositions []int,
) (Rule, error) {
	rule := Rule{
		Frequency:    FrequencyMonthly,
		Interval:     interval,
		Weekdays:     normalizeWeekdays(weekdays),
		SetPositions: normalizePositions(setPositions),
		Until:        nil,
		Count:        nil,
	}

	return rule, rule.Validate()
}

// WithUntil returns a copy of the rule bounded by an inclusive end date.
func (r Rule) WithUntil(until time.Time) Rule {
	date := DateOf(until)
	r.Until = &date
	return r
}

// WithCount returns a copy of the rule capped at count occurrences.
func (r Rule) WithCount(count int) Rule {
	r.Count = &count
	return r
}

// Validate reports the first malformation of the rule. Rules built through
// the constructors are always valid; this also guards values read back from
// the store.
func (r Rule) Validate() error {
	if r.Frequency != FrequencyWeekly && r.Frequency != FrequencyMonthly {
		return ErrBadFrequency
	}

	if r.Interval < 1 {
		return ErrBadInterval
	}

	if len(r.Weekdays) == 0 {
		return ErrNoWeekdays
	}

	if r.Frequency == FrequencyMonthly {
		if len(r.SetPositions) == 0 {
			return ErrNoSetPositions
		}

		for _, pos := range r.SetPositions {
			if pos == 0 {
				return ErrZeroSetPosition
			}
		}
	}

	return nil
}

// Expand returns every calendar date in the closed range [from, to] matched
// by the rule, ascending and deduplicated. Inputs are truncated to dates;
// from also anchors the interval phase. An Until bound clamps the range, a
// Count bound caps the result within it.
func (r Rule) Expand(from, to time.Time) []time.Time {
	from = DateOf(from)
	to = DateOf(to)

	if r.Until != nil && r.Until.Before(to) {
		to = DateOf(*r.Until)
	}

	if to.Before(from) {
		return nil
	}

	var dates []time.Time
	switch r.Frequency {
	case FrequencyWeekly:
		dates = r.expandWeekly(from, to)
	case FrequencyMonthly:
		dates = r.expandMonthly(from, to)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	dates = dedupeDates(dates)

	if r.Until == nil && r.Count != nil &&
		*r.Count >= 0 && len(dates) > *r.Count {
		dates = dates[:*r.Count]
	}

	return dates
}

// DateOf strips the time of day, leaving the calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizeWeekdays(weekdays []time.Weekday) []time.Weekday {
	seen := map[time.Weekday]bool{}
	normalized := make([]time.Weekday, 0, len(weekdays))
	for _, weekday := range weekdays {
		if seen[weekday] {
			continue
		}
		seen[weekday] = true
		normalized = append(normalized, weekday)
	}

	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i] < normalized[j]
	})

	return normalized
}

func normalizePositions(positions []int) []int {
	seen := map[int]bool{}
	normalized := make([]int, 0, len(positions))
	for _, pos := range positions {
		if seen[pos] {
			continue
		}
		seen[pos] = true
		normalized = append(normalized, pos)
	}

	sort.Ints(normalized)

	return normalized
}

func dedupeDates(dates []time.Time) []time.Time {
	deduped := dates[:0]
	for i, d := range dates {
		if i > 0 && d.Equal(dates[i-1]) {
			continue
		}
		deduped = append(deduped, d)
	}
	return deduped
}
