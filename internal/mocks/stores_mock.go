package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"regioevents.dev/internal/models"
)

// ErrStoreFailure is returned once InsertIfAbsent reaches the configured
// failure point of a MockedOccurrenceStore.
var ErrStoreFailure = errors.New("store failure")

func NewMockedSeriesStore(series ...models.Series) *MockedSeriesStore {
	return &MockedSeriesStore{series: series}
}

type MockedSeriesStore struct {
	series []models.Series
}

func (m *MockedSeriesStore) GetAllApproved(
	_ context.Context,
) ([]models.Series, error) {
	approved := []models.Series{}
	for _, series := range m.series {
		if series.Status == models.SeriesStatusApproved {
			approved = append(approved, series)
		}
	}
	return approved, nil
}

func NewMockedOccurrenceStore() *MockedOccurrenceStore {
	return &MockedOccurrenceStore{
		byKey:     map[occurrenceKey]models.Occurrence{},
		FailAfter: -1,
	}
}

type occurrenceKey struct {
	seriesID    string
	startsAtUTC time.Time
}

// MockedOccurrenceStore mimics the conflict-ignore unique constraint of the
// occurrences table in memory.
type MockedOccurrenceStore struct {
	mu      sync.Mutex
	byKey   map[occurrenceKey]models.Occurrence
	inserts int

	// FailAfter makes InsertIfAbsent return ErrStoreFailure after that many
	// successful inserts; negative means never fail.
	FailAfter int
}

func (m *MockedOccurrenceStore) InsertIfAbsent(
	_ context.Context,
	occurrence models.Occurrence,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAfter >= 0 && m.inserts >= m.FailAfter {
		return false, ErrStoreFailure
	}

	key := occurrenceKey{
		seriesID:    occurrence.SeriesID,
		startsAtUTC: occurrence.StartsAtUTC.UTC(),
	}
	if _, ok := m.byKey[key]; ok {
		return false, nil
	}

	m.byKey[key] = occurrence
	m.inserts++

	return true, nil
}

// All returns the stored occurrences ordered by series and UTC start.
func (m *MockedOccurrenceStore) All() []models.Occurrence {
	m.mu.Lock()
	defer m.mu.Unlock()

	occurrences := make([]models.Occurrence, 0, len(m.byKey))
	for _, occurrence := range m.byKey {
		occurrences = append(occurrences, occurrence)
	}

	sort.Slice(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if a.SeriesID != b.SeriesID {
			return a.SeriesID < b.SeriesID
		}
		return a.StartsAtUTC.Before(b.StartsAtUTC)
	})

	return occurrences
}
