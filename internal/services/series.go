package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"regioevents.dev/internal/dtos"
	"regioevents.dev/internal/models"
	"regioevents.dev/internal/recurrence"
	"regioevents.dev/internal/repositories"
)

// SeriesService owns the submission workflow around series: new submissions
// start out pending, approval flips the status and immediately materializes
// the default horizon so the event shows up on the calendar right away.
type SeriesService struct {
	series       *repositories.SeriesRepository
	materializer *MaterializerService
	monthsAhead  int
}

func (service *SeriesService) Create(
	ctx context.Context,
	dto *dtos.CreateSeriesDto,
) (*models.Series, error) {
	rule, err := ruleFromDto(dto)
	if err != nil {
		return nil, err
	}

	exceptionDates := make([]time.Time, 0, len(dto.ExceptionDates))
	for _, raw := range dto.ExceptionDates {
		date, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid exception date %q: %w", raw, err)
		}
		exceptionDates = append(exceptionDates, date)
	}

	series := models.Series{
		ID:              uuid.NewString(),
		Name:            dto.Name,
		EventType:       dto.EventType,
		Committee:       dto.Committee,
		Location:        dto.Location,
		Status:          models.SeriesStatusPending,
		Timezone:        dto.Timezone,
		StartTimeLocal:  dto.StartTimeLocal,
		DurationMinutes: dto.DurationMinutes,
		Rule:            rule,
		ExceptionDates:  exceptionDates,
		CreatedAt:       time.Time{},
	}

	return service.series.Create(ctx, series)
}

func (service *SeriesService) GetByID(
	ctx context.Context,
	id string,
) (*models.Series, error) {
	return service.series.GetByID(ctx, id)
}

// Approve marks a pending series approved and materializes it over the
// configured horizon.
func (service *SeriesService) Approve(
	ctx context.Context,
	id string,
) (Result, error) {
	err := service.series.UpdateStatus(ctx, id, models.SeriesStatusApproved)
	if err != nil {
		return Result{}, err
	}

	series, err := service.series.GetByID(ctx, id)
	if err != nil {
		return Result{}, err
	}

	return service.materializer.MaterializeSeries(
		ctx,
		*series,
		service.monthsAhead,
	)
}

// Generate materializes one series over an operator-chosen horizon.
func (service *SeriesService) Generate(
	ctx context.Context,
	id string,
	monthsAhead int,
) (Result, error) {
	series, err := service.series.GetByID(ctx, id)
	if err != nil {
		return Result{}, err
	}

	return service.materializer.MaterializeSeries(ctx, *series, monthsAhead)
}

func ruleFromDto(dto *dtos.CreateSeriesDto) (recurrence.Rule, error) {
	weekdays := make([]time.Weekday, 0, len(dto.Weekdays))
	for _, wd := range dto.Weekdays {
		weekdays = append(weekdays, time.Weekday(wd))
	}

	var rule recurrence.Rule
	var err error
	switch recurrence.Frequency(dto.Frequency) {
	case recurrence.FrequencyWeekly:
		rule, err = recurrence.NewWeeklyRule(dto.Interval, weekdays)
	case recurrence.FrequencyMonthly:
		rule, err = recurrence.NewMonthlyRule(
			dto.Interval,
			weekdays,
			dto.SetPositions,
		)
	default:
		err = recurrence.ErrBadFrequency
	}
	if err != nil {
		return recurrence.Rule{}, err
	}

	if dto.Until != nil {
		until, err := time.Parse(time.DateOnly, *dto.Until)
		if err != nil {
			return recurrence.Rule{}, fmt.Errorf(
				"invalid until date %q: %w",
				*dto.Until,
				err,
			)
		}
		rule = rule.WithUntil(until)
	}
	if dto.Count != nil {
		rule = rule.WithCount(*dto.Count)
	}

	return rule, nil
}
