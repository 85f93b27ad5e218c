package services

import (
	"log/slog"
	"time"

	"regioevents.dev/internal/config"
	"regioevents.dev/internal/repositories"
)

type Services struct {
	Series       *SeriesService
	Occurrences  *OccurrenceService
	Materializer *MaterializerService
	Feed         *FeedService
}

func New(
	logger *slog.Logger,
	cfg config.Config,
	repositories *repositories.Repositories,
) *Services {
	materializer := NewMaterializerService(
		logger,
		repositories.Series,
		repositories.Occurrences,
		time.Now,
	)
	series := &SeriesService{
		series:       repositories.Series,
		materializer: materializer,
		monthsAhead:  cfg.MonthsAhead,
	}
	occurrences := &OccurrenceService{
		occurrences: repositories.Occurrences,
	}
	feed := &FeedService{
		webURL:      cfg.WebURL,
		series:      repositories.Series,
		occurrences: repositories.Occurrences,
		now:         time.Now,
	}

	return &Services{
		Series:       series,
		Occurrences:  occurrences,
		Materializer: materializer,
		Feed:         feed,
	}
}
