package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jekabolt/grbpwr-dashboard/config"
	httpapi "github.com/jekabolt/grbpwr-dashboard/internal/api/http"
	"github.com/jekabolt/grbpwr-dashboard/internal/auth/jwt"
	"github.com/jekabolt/grbpwr-dashboard/internal/dashboard"
	"github.com/jekabolt/grbpwr-dashboard/internal/dependency"
	"github.com/jekabolt/grbpwr-dashboard/internal/ratelimit"
	"github.com/jekabolt/grbpwr-dashboard/internal/snapshot"
	"github.com/jekabolt/grbpwr-dashboard/internal/source"
)

// App is the main application
type App struct {
	c       *config.Config
	src     dependency.TableSource
	dash    *dashboard.Service
	worker  *snapshot.Worker
	limiter *ratelimit.Limiter
	hs      *httpapi.Server
	done    chan struct{}
	once    sync.Once
}

// New returns a new instance of App. A nil src is built from c.Source on Start.
func New(c *config.Config, src dependency.TableSource) *App {
	return &App{
		c:    c,
		src:  src,
		done: make(chan struct{}),
	}
}

// Start loads the first snapshot, then starts the refresh worker and the API.
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting dashboard")

	if a.src == nil {
		a.src, err = source.New(ctx, &a.c.Source)
		if err != nil {
			slog.Default().ErrorContext(ctx, "couldn't create table source",
				slog.String("err", err.Error()),
			)
			return err
		}
	}

	a.dash = dashboard.New(&a.c.Dashboard, snapshot.New(a.src))
	id, err := a.dash.Refresh(ctx)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't load initial snapshot",
			slog.String("source", a.src.Name()),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("initial snapshot: %w", err)
	}
	slog.Default().InfoContext(ctx, "initial snapshot loaded",
		slog.String("snapshot_id", id),
	)

	a.worker = snapshot.NewWorker(&a.c.Refresh, a.dash)
	if err := a.worker.Start(ctx); err != nil {
		return err
	}

	jwtAuth, err := jwt.New(&a.c.Auth)
	if err != nil {
		slog.Default().WarnContext(ctx, "admin api disabled",
			slog.String("err", err.Error()),
		)
	}
	if a.c.RateLimit.MaxRequests > 0 {
		a.limiter = ratelimit.NewLimiter(a.c.RateLimit.Window, a.c.RateLimit.MaxRequests)
	}

	a.hs = httpapi.New(&a.c.HTTP, a.dash, jwtAuth, a.limiter)
	if err = a.hs.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()),
		)
		return err
	}

	go func() {
		<-a.hs.Done()
		a.closeDone()
	}()
	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown",
				slog.String("err", err.Error()),
			)
		}
	}
	if a.worker != nil {
		_ = a.worker.Stop()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.src != nil {
		if err := a.src.Close(); err != nil {
			slog.Default().ErrorContext(ctx, "can't close table source",
				slog.String("err", err.Error()),
			)
		}
	}
	a.closeDone()
}

func (a *App) closeDone() {
	a.once.Do(func() { close(a.done) })
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() <-chan struct{} {
	return a.done
}
