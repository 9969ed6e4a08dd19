package dependency

import (
	"context"

	"github.com/jekabolt/grbpwr-dashboard/internal/entity"
	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
)

type (
	// TableSource loads the raw tables a snapshot is built from.
	TableSource interface {
		// Name identifies the source in logs.
		Name() string
		// LoadTables reads every table listed by tables.Names.
		LoadTables(ctx context.Context) (tables.Raw, error)
		// Close releases connections held by the source.
		Close() error
	}

	// Snapshots hands out the current immutable table snapshot.
	Snapshots interface {
		// Current returns the installed snapshot or gerr.ErrSnapshotNotLoaded.
		Current() (*tables.RawTableSet, error)
		// Refresh reloads the tables and atomically installs a new snapshot.
		Refresh(ctx context.Context) (*tables.RawTableSet, error)
	}

	// Dashboard computes reports over the current snapshot.
	Dashboard interface {
		// Report computes KPIs and chart series for a window and the same window a year earlier.
		Report(ctx context.Context, req entity.ReportRequest) (*entity.BusinessMetrics, error)
		// Facts returns the sales-fact rows for a year and status, optionally narrowed to a window.
		Facts(ctx context.Context, req entity.FactsRequest) ([]entity.SalesFactRow, error)
		// DateRange returns the earliest and latest purchase dates of the snapshot.
		DateRange(ctx context.Context) (entity.DateWindow, error)
		// Refresh reloads the snapshot and drops memoized results.
		Refresh(ctx context.Context) (string, error)
	}
)
