package recurrence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"regioevents.dev/internal/recurrence"
)

func TestBuildInstancesConvertsToUTC(t *testing.T) {
	instances, err := recurrence.BuildInstances(
		[]time.Time{date(2024, time.January, 1)},
		"19:00",
		60,
		"America/New_York",
		nil,
	)
	require.NoError(t, err)
	require.Len(t, instances, 1)

	instance := instances[0]
	assert.Equal(
		t,
		"2024-01-01T19:00:00",
		instance.StartsAtLocal.Format("2006-01-02T15:04:05"),
	)
	assert.Equal(
		t,
		"2024-01-01T20:00:00",
		instance.EndsAtLocal.Format("2006-01-02T15:04:05"),
	)
	// New York is UTC-5 in January
	assert.Equal(
		t,
		time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
		instance.StartsAtUTC,
	)
	assert.Equal(
		t,
		time.Date(2024, time.January, 2, 1, 0, 0, 0, time.UTC),
		instance.EndsAtUTC,
	)
}

func TestBuildInstancesFiltersExceptions(t *testing.T) {
	instances, err := recurrence.BuildInstances(
		[]time.Time{
			date(2024, time.January, 1),
			date(2024, time.January, 8),
			date(2024, time.January, 15),
		},
		"10:00",
		30,
		"Europe/Brussels",
		[]time.Time{date(2024, time.January, 8)},
	)
	require.NoError(t, err)

	require.Len(t, instances, 2)
	assert.Equal(t, 1, instances[0].StartsAtLocal.Day())
	assert.Equal(t, 15, instances[1].StartsAtLocal.Day())
}

func TestBuildInstancesAllExcepted(t *testing.T) {
	instances, err := recurrence.BuildInstances(
		[]time.Time{date(2024, time.January, 1)},
		"10:00",
		30,
		"Europe/Brussels",
		[]time.Time{date(2024, time.January, 1)},
	)
	require.NoError(t, err)

	assert.Empty(t, instances)
}

func TestBuildInstancesSpringForwardGap(t *testing.T) {
	// 02:30 does not exist on 2024-03-10 in New York; the gap resolves to
	// the first valid instant after the transition, 03:30 EDT
	instances, err := recurrence.BuildInstances(
		[]time.Time{
			date(2024, time.March, 3),
			date(2024, time.March, 10),
			date(2024, time.March, 17),
		},
		"02:30",
		60,
		"America/New_York",
		nil,
	)
	require.NoError(t, err)
	require.Len(t, instances, 3)

	assert.Equal(
		t,
		time.Date(2024, time.March, 10, 7, 30, 0, 0, time.UTC),
		instances[1].StartsAtUTC,
	)

	// the sequence stays strictly monotonic across the transition
	for i := 1; i < len(instances); i++ {
		assert.True(
			t,
			instances[i].StartsAtUTC.After(instances[i-1].StartsAtUTC),
		)
	}

	// no instance drifts onto a neighboring day
	for _, instance := range instances {
		assert.Equal(t, time.Sunday, instance.StartsAtLocal.Weekday())
	}
}

func TestBuildInstancesFallBackStaysOrdered(t *testing.T) {
	// 01:30 happens twice on 2024-11-03 in New York; whichever offset is
	// chosen, the result must remain a valid ordered instant
	instances, err := recurrence.BuildInstances(
		[]time.Time{
			date(2024, time.October, 27),
			date(2024, time.November, 3),
			date(2024, time.November, 10),
		},
		"01:30",
		60,
		"America/New_York",
		nil,
	)
	require.NoError(t, err)
	require.Len(t, instances, 3)

	for i := 1; i < len(instances); i++ {
		assert.True(
			t,
			instances[i].StartsAtUTC.After(instances[i-1].StartsAtUTC),
		)
	}
	for _, instance := range instances {
		assert.Equal(t, "01:30", instance.StartsAtLocal.Format("15:04"))
	}
}

func TestBuildInstancesUnknownTimezone(t *testing.T) {
	_, err := recurrence.BuildInstances(
		[]time.Time{date(2024, time.January, 1)},
		"10:00",
		30,
		"Mars/Olympus_Mons",
		nil,
	)

	assert.Error(t, err)
}

func TestBuildInstancesInvalidStartTime(t *testing.T) {
	_, err := recurrence.BuildInstances(
		[]time.Time{date(2024, time.January, 1)},
		"25:70",
		30,
		"Europe/Brussels",
		nil,
	)

	assert.Error(t, err)
}

func TestBuildInstancesZeroDuration(t *testing.T) {
	instances, err := recurrence.BuildInstances(
		[]time.Time{date(2024, time.January, 1)},
		"12:00",
		0,
		"Europe/Brussels",
		nil,
	)
	require.NoError(t, err)
	require.Len(t, instances, 1)

	assert.True(t, instances[0].StartsAtUTC.Equal(instances[0].EndsAtUTC))
}
