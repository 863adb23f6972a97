package server

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// Reaper periodically discards tables nobody has used for a while
type Reaper struct {
	service  *GameService
	idle     time.Duration
	interval time.Duration
	logger   *log.Logger
}

// NewReaper creates a reaper that sweeps every interval. A zero idle or
// interval disables it.
func NewReaper(service *GameService, idle, interval time.Duration, logger *log.Logger) *Reaper {
	return &Reaper{
		service:  service,
		idle:     idle,
		interval: interval,
		logger:   logger.WithPrefix("reaper"),
	}
}

// Enabled reports whether Run will sweep
func (r *Reaper) Enabled() bool {
	return r.idle > 0 && r.interval > 0
}

// Run sweeps until ctx is done
func (r *Reaper) Run(ctx context.Context) error {
	if !r.Enabled() {
		r.logger.Debug("Idle table reaping disabled")
		<-ctx.Done()
		return nil
	}

	r.logger.Info("Reaping idle tables", "idle_timeout", r.idle, "interval", r.interval)
	w := r.service.Clock().TickerFunc(ctx, r.interval, func() error {
		if evicted := r.service.Sweep(r.idle); len(evicted) > 0 {
			r.logger.Debug("Sweep finished", "evicted", evicted)
		}
		return nil
	}, "reaper")

	err := w.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
