package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/database"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"regioevents.dev/internal/models"
	"regioevents.dev/internal/recurrence"
)

type SeriesRepository struct {
	db postgres.DB
}

func (repo *SeriesRepository) Create(
	ctx context.Context,
	series models.Series,
) (*models.Series, error) {
	query := `
		INSERT INTO regioevents.series (id, name, event_type, committee,
		location, status, timezone, start_time_local, duration_minutes,
		frequency, "interval", weekdays, set_positions, until_date, max_count,
		exception_dates)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at
	`

	err := repo.db.QueryRow(
		ctx,
		query,
		series.ID,
		series.Name,
		series.EventType,
		series.Committee,
		series.Location,
		series.Status,
		series.Timezone,
		series.StartTimeLocal,
		series.DurationMinutes,
		series.Rule.Frequency,
		series.Rule.Interval,
		weekdaysToInt32s(series.Rule.Weekdays),
		intsToInt32s(series.Rule.SetPositions),
		series.Rule.Until,
		series.Rule.Count,
		dateSlice(series.ExceptionDates),
	).Scan(&series.CreatedAt)

	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return &series, nil
}

func (repo *SeriesRepository) GetByID(
	ctx context.Context,
	id string,
) (*models.Series, error) {
	query := `
		SELECT name, event_type, committee, location, status, timezone,
		start_time_local, duration_minutes, frequency, "interval", weekdays,
		set_positions, until_date, max_count, exception_dates, created_at
		FROM regioevents.series
		WHERE id = $1
	`

	//nolint:exhaustruct //other fields are assigned below
	series := models.Series{
		ID: id,
	}

	var frequency string
	var interval int32
	var weekdays, setPositions []int32
	var until *time.Time
	var maxCount *int32

	err := repo.db.QueryRow(ctx, query, id).Scan(
		&series.Name,
		&series.EventType,
		&series.Committee,
		&series.Location,
		&series.Status,
		&series.Timezone,
		&series.StartTimeLocal,
		&series.DurationMinutes,
		&frequency,
		&interval,
		&weekdays,
		&setPositions,
		&until,
		&maxCount,
		&series.ExceptionDates,
		&series.CreatedAt,
	)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	series.Rule, err = scanRule(
		frequency,
		interval,
		weekdays,
		setPositions,
		until,
		maxCount,
	)
	if err != nil {
		return nil, fmt.Errorf("series %s: %w", id, err)
	}

	return &series, nil
}

func (repo *SeriesRepository) GetAllApproved(
	ctx context.Context,
) ([]models.Series, error) {
	query := `
		SELECT id, name, event_type, committee, location, status, timezone,
		start_time_local, duration_minutes, frequency, "interval", weekdays,
		set_positions, until_date, max_count, exception_dates, created_at
		FROM regioevents.series
		WHERE status = $1
		ORDER BY created_at asc
	`

	rows, err := repo.db.Query(ctx, query, models.SeriesStatusApproved)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}
	defer rows.Close()

	seriesList := []models.Series{}
	for rows.Next() {
		//nolint:exhaustruct //other fields are assigned below
		series := models.Series{}

		var frequency string
		var interval int32
		var weekdays, setPositions []int32
		var until *time.Time
		var maxCount *int32

		err = rows.Scan(
			&series.ID,
			&series.Name,
			&series.EventType,
			&series.Committee,
			&series.Location,
			&series.Status,
			&series.Timezone,
			&series.StartTimeLocal,
			&series.DurationMinutes,
			&frequency,
			&interval,
			&weekdays,
			&setPositions,
			&until,
			&maxCount,
			&series.ExceptionDates,
			&series.CreatedAt,
		)
		if err != nil {
			return nil, postgres.PgxErrorToHTTPError(err)
		}

		series.Rule, err = scanRule(
			frequency,
			interval,
			weekdays,
			setPositions,
			until,
			maxCount,
		)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", series.ID, err)
		}

		seriesList = append(seriesList, series)
	}

	if err = rows.Err(); err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return seriesList, nil
}

func (repo *SeriesRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status models.SeriesStatus,
) error {
	query := `
		UPDATE regioevents.series
		SET status = $2
		WHERE id = $1
	`

	result, err := repo.db.Exec(ctx, query, id, status)
	if err != nil {
		return postgres.PgxErrorToHTTPError(err)
	}

	rowsAffected := result.RowsAffected()
	if rowsAffected == 0 {
		return database.ErrResourceNotFound
	}

	return nil
}

// scanRule rebuilds the rule variant from its flattened columns, rejecting
// rows that would form a malformed rule before they reach expansion.
func scanRule(
	frequency string,
	interval int32,
	weekdays []int32,
	setPositions []int32,
	until *time.Time,
	maxCount *int32,
) (recurrence.Rule, error) {
	wds := make([]time.Weekday, 0, len(weekdays))
	for _, wd := range weekdays {
		wds = append(wds, time.Weekday(wd))
	}

	var rule recurrence.Rule
	var err error
	switch recurrence.Frequency(frequency) {
	case recurrence.FrequencyWeekly:
		rule, err = recurrence.NewWeeklyRule(int(interval), wds)
	case recurrence.FrequencyMonthly:
		positions := make([]int, 0, len(setPositions))
		for _, pos := range setPositions {
			positions = append(positions, int(pos))
		}
		rule, err = recurrence.NewMonthlyRule(int(interval), wds, positions)
	default:
		err = recurrence.ErrBadFrequency
	}

	if err != nil {
		return recurrence.Rule{}, err
	}

	if until != nil {
		rule = rule.WithUntil(*until)
	}
	if maxCount != nil {
		rule = rule.WithCount(int(*maxCount))
	}

	return rule, nil
}

func weekdaysToInt32s(weekdays []time.Weekday) []int32 {
	values := make([]int32, 0, len(weekdays))
	for _, wd := range weekdays {
		values = append(values, int32(wd))
	}
	return values
}

func intsToInt32s(ints []int) []int32 {
	values := make([]int32, 0, len(ints))
	for _, i := range ints {
		values = append(values, int32(i))
	}
	return values
}

// dateSlice keeps postgres from receiving a NULL array for an empty
// exception list.
func dateSlice(dates []time.Time) []time.Time {
	if dates == nil {
		return []time.Time{}
	}
	return dates
}
