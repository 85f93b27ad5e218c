package services

import (
	"context"
	"time"

	"regioevents.dev/internal/models"
	"regioevents.dev/internal/repositories"
)

// OccurrenceService serves the read side of the map and calendar views.
type OccurrenceService struct {
	occurrences *repositories.OccurrenceRepository
}

func (service *OccurrenceService) GetAllInRange(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Occurrence, error) {
	return service.occurrences.GetAllInRange(ctx, from, to)
}

func (service *OccurrenceService) GetBySeries(
	ctx context.Context,
	seriesID string,
) ([]models.Occurrence, error) {
	return service.occurrences.GetBySeries(ctx, seriesID)
}
