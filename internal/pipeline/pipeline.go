package pipeline

import (
	"context"
	"time"

	"spendwise_backend/internal/logger"
	"spendwise_backend/internal/repositories"
	"spendwise_backend/pkg/apperrors"
)

// Stage is one step of the nightly settlement run. A stage pages through
// records, committing one transaction per page, and must only rely on what
// the stages before it in the slice have persisted.
type Stage interface {
	Name() string
	Run(ctx context.Context, day time.Time) error
}

type Config struct {
	PageSize     int
	MinGroupSize int
}

// Pipeline executes its stages strictly in slice order, so stage ordering
// is fixed at construction rather than left to scheduling conventions.
type Pipeline struct {
	stages []Stage
}

func New(store repositories.Store, cfg Config) *Pipeline {
	return &Pipeline{
		stages: []Stage{
			NewUserScorer(store, cfg.PageSize),
			NewGroupAggregator(store, cfg.PageSize, cfg.MinGroupSize),
			NewGroupRanking(store, cfg.PageSize),
			NewRewardSettlement(store),
		},
	}
}

// Run executes all stages for one settlement day. The first stage failure
// stops the run; committed pages stay applied and every stage overwrites its
// own output, so re-running the same day is safe.
func (p *Pipeline) Run(ctx context.Context, day time.Time) error {
	for _, stage := range p.stages {
		start := time.Now()
		if err := stage.Run(ctx, day); err != nil {
			logger.WorkerLog(stage.Name(), "run", err)
			return apperrors.StageFailed(stage.Name(), err)
		}
		logger.Info("pipeline stage completed",
			"stage", stage.Name(),
			"day", day.Format("2006-01-02"),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return nil
}

// SettlementDay returns the day the nightly run scores: yesterday, truncated
// to a date in the local timezone.
func SettlementDay(now time.Time) time.Time {
	yesterday := now.AddDate(0, 0, -1)
	return time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, now.Location())
}
