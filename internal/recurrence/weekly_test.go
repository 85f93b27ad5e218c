package recurrence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"regioevents.dev/internal/recurrence"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestWeeklyEveryMonday(t *testing.T) {
	rule, err := recurrence.NewWeeklyRule(1, []time.Weekday{time.Monday})
	require.NoError(t, err)

	// 2024-01-01 is a Monday
	dates := rule.Expand(date(2024, time.January, 1), date(2024, time.January, 28))

	require.Len(t, dates, 4)
	for i, d := range dates {
		assert.Equal(t, time.Monday, d.Weekday())
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, d.Sub(dates[i-1]))
		}
	}
}

func TestWeeklyIntervalSkipsWeeks(t *testing.T) {
	rule, err := recurrence.NewWeeklyRule(2, []time.Weekday{time.Monday})
	require.NoError(t, err)

	dates := rule.Expand(date(2024, time.January, 1), date(2024, time.February, 11))

	assert.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 15),
		date(2024, time.January, 29),
	}, dates)
}

func TestWeeklyPhaseIsMondayAligned(t *testing.T) {
	rule, err := recurrence.NewWeeklyRule(
		2,
		[]time.Weekday{time.Sunday, time.Monday},
	)
	require.NoError(t, err)

	// the anchor 2024-01-07 is a Sunday, so its Monday-start week began on
	// 2024-01-01; the Monday right after it already belongs to the next week
	dates := rule.Expand(date(2024, time.January, 7), date(2024, time.January, 21))

	assert.Equal(t, []time.Time{
		date(2024, time.January, 7),
		date(2024, time.January, 15),
		date(2024, time.January, 21),
	}, dates)
}

func TestWeeklyMultipleWeekdaysSortedAndDeduped(t *testing.T) {
	rule, err := recurrence.NewWeeklyRule(
		1,
		[]time.Weekday{time.Friday, time.Tuesday, time.Tuesday},
	)
	require.NoError(t, err)

	dates := rule.Expand(date(2024, time.January, 1), date(2024, time.January, 14))

	assert.Equal(t, []time.Time{
		date(2024, time.January, 2),
		date(2024, time.January, 5),
		date(2024, time.January, 9),
		date(2024, time.January, 12),
	}, dates)
}

func TestWeeklyUntilClampsRange(t *testing.T) {
	rule, err := recurrence.NewWeeklyRule(1, []time.Weekday{time.Monday})
	require.NoError(t, err)
	rule = rule.WithUntil(date(2024, time.January, 15))

	dates := rule.Expand(date(2024, time.January, 1), date(2024, time.March, 1))

	assert.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 8),
		date(2024, time.January, 15),
	}, dates)
}

func TestWeeklyUntilBeforeRangeYieldsNothing(t *testing.T) {
	rule, err := recurrence.NewWeeklyRule(1, []time.Weekday{time.Monday})
	require.NoError(t, err)
	rule = rule.WithUntil(date(2023, time.December, 1))

	dates := rule.Expand(date(2024, time.January, 1), date(2024, time.March, 1))

	assert.Empty(t, dates)
}

func TestWeeklyCountCapsOccurrences(t *testing.T) {
	rule, err := recurrence.NewWeeklyRule(1, []time.Weekday{time.Monday})
	require.NoError(t, err)
	rule = rule.WithCount(2)

	dates := rule.Expand(date(2024, time.January, 1), date(2024, time.March, 1))

	assert.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 8),
	}, dates)
}

func TestWeeklyUntilOverridesCount(t *testing.T) {
	rule, err := recurrence.NewWeeklyRule(1, []time.Weekday{time.Monday})
	require.NoError(t, err)
	rule = rule.WithUntil(date(2024, time.January, 22)).WithCount(1)

	dates := rule.Expand(date(2024, time.January, 1), date(2024, time.March, 1))

	assert.Len(t, dates, 4)
}

func TestWeeklyExpandTruncatesTimeOfDay(t *testing.T) {
	rule, err := recurrence.NewWeeklyRule(1, []time.Weekday{time.Monday})
	require.NoError(t, err)

	dates := rule.Expand(
		time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2024, time.January, 8, 0, 1, 0, 0, time.UTC),
	)

	assert.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 8),
	}, dates)
}
