package server

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// EventPruner deletes audit entries older than a cutoff.
type EventPruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Pruner trims the audit log on a fixed interval.
type Pruner struct {
	log       EventPruner
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger
}

// NewPruner creates a pruner keeping retention worth of events.
func NewPruner(log EventPruner, retention, interval time.Duration, logger *zap.Logger) *Pruner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Pruner{
		log:       log,
		retention: retention,
		interval:  interval,
		logger:    logger.With(zap.String("component", "pruner")),
	}
}

// Run prunes once immediately and then every interval.
func (p *Pruner) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		p.prune(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	n, err := p.log.Prune(ctx, p.retention)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("prune failed", zap.Error(err))
		}
		return
	}
	if n > 0 {
		p.logger.Info("pruned events", zap.Int64("deleted", n), zap.Duration("retention", p.retention))
	}
}
