package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
	"regioevents.dev/internal/recurrence"
)

func TestSerializeRuleWeekly(t *testing.T) {
	rule, err := recurrence.NewWeeklyRule(
		2,
		[]time.Weekday{time.Monday, time.Thursday},
	)
	require.NoError(t, err)

	value, err := serializeRule(rule)
	require.NoError(t, err)

	assert.Contains(t, value, "FREQ=WEEKLY")
	assert.Contains(t, value, "INTERVAL=2")
	assert.Contains(t, value, "MO")
	assert.Contains(t, value, "TH")
}

func TestSerializeRuleMonthlyKeepsPerWeekdayPositions(t *testing.T) {
	// first Saturday and first Sunday each month are two dates; pooled
	// BYSETPOS selection would keep only the earlier of the two
	rule, err := recurrence.NewMonthlyRule(
		1,
		[]time.Weekday{time.Saturday, time.Sunday},
		[]int{1},
	)
	require.NoError(t, err)

	value, err := serializeRule(rule)
	require.NoError(t, err)
	assert.NotContains(t, value, "BYSETPOS")

	parsed, err := rrule.StrToRRule(value)
	require.NoError(t, err)
	parsed.DTStart(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC))

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	expanded := rule.Expand(from, to)
	require.Len(t, expanded, 2)

	between := parsed.Between(from, to, true)
	require.Len(t, between, len(expanded))
	for i, d := range expanded {
		assert.Equal(t, d, recurrence.DateOf(between[i]))
	}
}

func TestSerializeRuleMonthlyLastWeekday(t *testing.T) {
	rule, err := recurrence.NewMonthlyRule(
		1,
		[]time.Weekday{time.Friday},
		[]int{recurrence.LastPosition},
	)
	require.NoError(t, err)

	value, err := serializeRule(rule)
	require.NoError(t, err)

	parsed, err := rrule.StrToRRule(value)
	require.NoError(t, err)
	parsed.DTStart(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))

	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	between := parsed.Between(from, to, true)
	require.Len(t, between, 1)
	assert.Equal(
		t,
		time.Date(2024, time.March, 29, 0, 0, 0, 0, time.UTC),
		recurrence.DateOf(between[0]),
	)
}
