package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Config holds configuration for the refresh worker.
type Config struct {
	// WorkerInterval is the time between reloads; zero disables the worker.
	WorkerInterval time.Duration `mapstructure:"worker_interval"`
}

// Refresher is called after every successful periodic reload.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Worker reloads the snapshot on a fixed interval.
type Worker struct {
	r    Refresher
	c    *Config
	ctx  context.Context
	stop context.CancelFunc
}

// NewWorker creates a refresh worker.
func NewWorker(c *Config, r Refresher) *Worker {
	if c == nil {
		c = &Config{}
	}
	return &Worker{
		r: r,
		c: c,
	}
}

// Start starts the worker. It is a no-op when the interval is zero.
func (w *Worker) Start(ctx context.Context) error {
	if w.ctx != nil && w.stop != nil {
		return fmt.Errorf("snapshot refresh worker already started")
	}
	if w.c.WorkerInterval <= 0 {
		slog.Default().InfoContext(ctx, "snapshot refresh worker disabled")
		return nil
	}
	w.ctx, w.stop = context.WithCancel(ctx)
	go w.worker(w.ctx)
	return nil
}

// Stop stops the worker.
func (w *Worker) Stop() error {
	if w.stop == nil {
		return fmt.Errorf("snapshot refresh worker already stopped or not started")
	}
	w.stop()
	w.stop = nil
	w.ctx = nil
	return nil
}

func (w *Worker) worker(ctx context.Context) {
	ticker := time.NewTicker(w.c.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			id, err := w.r.Refresh(ctx)
			if err != nil {
				slog.Default().ErrorContext(ctx, "can't refresh tables snapshot",
					slog.String("err", err.Error()),
				)
				continue
			}
			slog.Default().DebugContext(ctx, "refreshed tables snapshot",
				slog.String("snapshot_id", id),
			)
		case <-ctx.Done():
			return
		}
	}
}
