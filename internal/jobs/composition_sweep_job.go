package job

import (
	"log/slog"
	"time"

	"github.com/maheshrc27/vizora/internal/workflow"
	"github.com/robfig/cron"
)

// CompositionSweepJob drops compositions that were closed or left idle.
type CompositionSweepJob struct {
	m       *workflow.Manager
	maxIdle time.Duration
}

func NewCompositionSweepJob(m *workflow.Manager, maxIdle time.Duration) *CompositionSweepJob {
	return &CompositionSweepJob{
		m:       m,
		maxIdle: maxIdle,
	}
}

func (j *CompositionSweepJob) Sweep() {
	if n := j.m.SweepIdle(j.maxIdle); n > 0 {
		slog.Info("swept compositions", "count", n, "open", j.m.Len())
	}
}

// Schedule registers the sweep on c at the given interval.
func (j *CompositionSweepJob) Schedule(c *cron.Cron, every time.Duration) error {
	return c.AddFunc("@every "+every.String(), j.Sweep)
}
