package repositories

import (
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
)

type Repositories struct {
	Series      *SeriesRepository
	Occurrences *OccurrenceRepository
}

func New(db postgres.DB) *Repositories {
	series := &SeriesRepository{db: db}
	occurrences := &OccurrenceRepository{db: db}

	return &Repositories{
		Series:      series,
		Occurrences: occurrences,
	}
}
