package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"regioevents.dev/internal/models"
	"regioevents.dev/internal/recurrence"
)

// SeriesStore is the slice of the series repository the materializer reads.
type SeriesStore interface {
	GetAllApproved(ctx context.Context) ([]models.Series, error)
}

// OccurrenceStore persists occurrences with conflict-ignore semantics keyed
// on (series_id, starts_at_utc).
type OccurrenceStore interface {
	InsertIfAbsent(
		ctx context.Context,
		occurrence models.Occurrence,
	) (bool, error)
}

// Result counts the occurrence rows a materialization pass actually inserted
// versus the ones that were already present.
type Result struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

func (result *Result) add(other Result) {
	result.Inserted += other.Inserted
	result.Skipped += other.Skipped
}

// MaterializerService expands recurring series over a forward-looking window
// and persists the resulting occurrences idempotently: rerunning a pass for
// the same series and window inserts nothing new.
type MaterializerService struct {
	logger      *slog.Logger
	series      SeriesStore
	occurrences OccurrenceStore
	now         func() time.Time
}

func NewMaterializerService(
	logger *slog.Logger,
	series SeriesStore,
	occurrences OccurrenceStore,
	now func() time.Time,
) *MaterializerService {
	return &MaterializerService{
		logger:      logger,
		series:      series,
		occurrences: occurrences,
		now:         now,
	}
}

// MaterializeSeries expands one series from the start of today in the
// series' zone through the end of the day monthsAhead months out, and
// upserts every resulting occurrence. A persistence error aborts the
// remaining inserts for the series; rows already written stay valid because
// each row carries its full local and UTC pair.
func (service *MaterializerService) MaterializeSeries(
	ctx context.Context,
	series models.Series,
	monthsAhead int,
) (Result, error) {
	var result Result

	loc, err := time.LoadLocation(series.Timezone)
	if err != nil {
		return result, fmt.Errorf(
			"series %s has unknown timezone %q: %w",
			series.ID,
			series.Timezone,
			err,
		)
	}

	now := service.now().In(loc)
	from := recurrence.DateOf(now)
	to := recurrence.DateOf(now.AddDate(0, monthsAhead, 0))

	dates := series.Rule.Expand(from, to)

	instances, err := recurrence.BuildInstances(
		dates,
		series.StartTimeLocal,
		series.DurationMinutes,
		series.Timezone,
		series.ExceptionDates,
	)
	if err != nil {
		return result, fmt.Errorf("series %s: %w", series.ID, err)
	}

	for _, instance := range instances {
		inserted, err := service.occurrences.InsertIfAbsent(
			ctx,
			occurrenceFromInstance(series, instance),
		)
		if err != nil {
			return result, fmt.Errorf(
				"failed to persist occurrence of series %s: %w",
				series.ID,
				err,
			)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

// MaterializeRollingWindow runs MaterializeSeries for every approved series.
// A failing series is logged and recorded but does not stop the remaining
// ones; the aggregate counts are returned alongside the joined per-series
// errors.
func (service *MaterializerService) MaterializeRollingWindow(
	ctx context.Context,
	monthsAhead int,
) (Result, error) {
	var result Result

	seriesList, err := service.series.GetAllApproved(ctx)
	if err != nil {
		return result, err
	}

	var errs []error
	for _, series := range seriesList {
		seriesResult, err := service.MaterializeSeries(ctx, series, monthsAhead)
		result.add(seriesResult)

		if err != nil {
			service.logger.Error(
				"failed to materialize series",
				slog.String("series_id", series.ID),
				logging.ErrAttr(err),
			)
			errs = append(errs, err)
		}
	}

	service.logger.Debug(fmt.Sprintf(
		"materialized %d series: %d inserted, %d already present",
		len(seriesList),
		result.Inserted,
		result.Skipped,
	))

	return result, errors.Join(errs...)
}

func occurrenceFromInstance(
	series models.Series,
	instance recurrence.Instance,
) models.Occurrence {
	return models.Occurrence{
		ID:            uuid.NewString(),
		SeriesID:      series.ID,
		Name:          series.Name,
		EventType:     series.EventType,
		Committee:     series.Committee,
		Location:      series.Location,
		StartsAtLocal: instance.StartsAtLocal.Format(models.LocalTimeLayout),
		EndsAtLocal:   instance.EndsAtLocal.Format(models.LocalTimeLayout),
		StartsAtUTC:   instance.StartsAtUTC,
		EndsAtUTC:     instance.EndsAtUTC,
		Status:        string(series.Status),
	}
}
