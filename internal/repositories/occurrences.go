package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"regioevents.dev/internal/models"
)

type OccurrenceRepository struct {
	db postgres.DB
}

// InsertIfAbsent writes an occurrence unless one already exists for the same
// (series_id, starts_at_utc) pair. The unique constraint plus ON CONFLICT DO
// NOTHING makes this safe under reruns and concurrent materializations; the
// store, not this code, provides the atomicity. Reports whether a row was
// actually inserted.
func (repo *OccurrenceRepository) InsertIfAbsent(
	ctx context.Context,
	occurrence models.Occurrence,
) (bool, error) {
	query := `
		INSERT INTO regioevents.occurrences (id, series_id, name, event_type,
		committee, location, starts_at_local, ends_at_local, starts_at_utc,
		ends_at_utc, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (series_id, starts_at_utc) DO NOTHING
	`

	result, err := repo.db.Exec(
		ctx,
		query,
		occurrence.ID,
		occurrence.SeriesID,
		occurrence.Name,
		occurrence.EventType,
		occurrence.Committee,
		occurrence.Location,
		occurrence.StartsAtLocal,
		occurrence.EndsAtLocal,
		occurrence.StartsAtUTC,
		occurrence.EndsAtUTC,
		occurrence.Status,
	)
	if err != nil {
		return false, postgres.PgxErrorToHTTPError(err)
	}

	return result.RowsAffected() == 1, nil
}

func (repo *OccurrenceRepository) GetAllInRange(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Occurrence, error) {
	query := `
		SELECT id, series_id, name, event_type, committee, location,
		starts_at_local, ends_at_local, starts_at_utc, ends_at_utc, status
		FROM regioevents.occurrences
		WHERE starts_at_utc >= $1 AND starts_at_utc <= $2
		ORDER BY starts_at_utc asc
	`

	rows, err := repo.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}
	defer rows.Close()

	return scanOccurrences(rows)
}

func (repo *OccurrenceRepository) GetBySeries(
	ctx context.Context,
	seriesID string,
) ([]models.Occurrence, error) {
	query := `
		SELECT id, series_id, name, event_type, committee, location,
		starts_at_local, ends_at_local, starts_at_utc, ends_at_utc, status
		FROM regioevents.occurrences
		WHERE series_id = $1
		ORDER BY starts_at_utc asc
	`

	rows, err := repo.db.Query(ctx, query, seriesID)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}
	defer rows.Close()

	return scanOccurrences(rows)
}

func scanOccurrences(rows pgx.Rows) ([]models.Occurrence, error) {
	occurrences := []models.Occurrence{}
	for rows.Next() {
		//nolint:exhaustruct //all fields are scanned below
		occurrence := models.Occurrence{}

		err := rows.Scan(
			&occurrence.ID,
			&occurrence.SeriesID,
			&occurrence.Name,
			&occurrence.EventType,
			&occurrence.Committee,
			&occurrence.Location,
			&occurrence.StartsAtLocal,
			&occurrence.EndsAtLocal,
			&occurrence.StartsAtUTC,
			&occurrence.EndsAtUTC,
			&occurrence.Status,
		)
		if err != nil {
			return nil, postgres.PgxErrorToHTTPError(err)
		}

		occurrences = append(occurrences, occurrence)
	}

	if err := rows.Err(); err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return occurrences, nil
}
