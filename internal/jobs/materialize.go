package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"regioevents.dev/internal/services"
)

// MaterializeJob keeps the rolling window of future occurrences populated by
// rerunning the materializer for every approved series.
type MaterializeJob struct {
	materializer *services.MaterializerService
	monthsAhead  int
	interval     time.Duration
}

func NewMaterializeJob(
	materializer *services.MaterializerService,
	monthsAhead int,
	interval time.Duration,
) MaterializeJob {
	return MaterializeJob{
		materializer: materializer,
		monthsAhead:  monthsAhead,
		interval:     interval,
	}
}

func (j MaterializeJob) ID() string {
	return "materialize"
}

func (j MaterializeJob) RunEvery() time.Duration {
	return j.interval
}

func (j MaterializeJob) Run(ctx context.Context, logger *slog.Logger) error {
	result, err := j.materializer.MaterializeRollingWindow(ctx, j.monthsAhead)

	logger.Debug(
		fmt.Sprintf(
			"rolling window pass inserted %d occurrences, %d already present",
			result.Inserted,
			result.Skipped,
		),
	)

	return err
}
