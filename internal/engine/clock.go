package engine

import (
	"context"
	"log/slog"
	"time"
)

// Clock advances a Runner on a fixed real-time interval.
type Clock struct {
	Runner   *Runner
	Interval time.Duration
	Logger   *slog.Logger
}

// Run blocks, advancing one turn per interval until ctx is done. A
// non-positive interval returns immediately.
func (c *Clock) Run(ctx context.Context) {
	if c.Interval <= 0 {
		return
	}
	log := c.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("turn clock started", "interval", c.Interval)

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("turn clock stopped")
			return
		case <-ticker.C:
			start := time.Now()
			st, err := c.Runner.Advance(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Error("scheduled turn failed", "error", err)
				}
				continue
			}
			log.Info("scheduled turn", "turn", st.Turn, "elapsed", time.Since(start))
		}
	}
}
