// Package snapshot keeps the current table snapshot and swaps in new ones.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jekabolt/grbpwr-dashboard/internal/dependency"
	gerr "github.com/jekabolt/grbpwr-dashboard/internal/errors"
	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
)

// Holder owns the current *tables.RawTableSet. Readers get whichever
// snapshot is installed when they call Current and keep using it; a refresh
// never changes a snapshot a reader already holds.
type Holder struct {
	src     dependency.TableSource
	current atomic.Pointer[tables.RawTableSet]
	// refreshMu serializes loads; readers never take it.
	refreshMu sync.Mutex
}

// New creates an empty holder over a table source.
func New(src dependency.TableSource) *Holder {
	return &Holder{src: src}
}

// Current returns the installed snapshot.
func (h *Holder) Current() (*tables.RawTableSet, error) {
	rs := h.current.Load()
	if rs == nil {
		return nil, gerr.ErrSnapshotNotLoaded
	}
	return rs, nil
}

// Install swaps in rs as the current snapshot.
func (h *Holder) Install(rs *tables.RawTableSet) {
	h.current.Store(rs)
}

// Refresh loads all tables from the source, validates them and installs the
// result. On failure the previous snapshot stays installed.
func (h *Holder) Refresh(ctx context.Context) (*tables.RawTableSet, error) {
	h.refreshMu.Lock()
	defer h.refreshMu.Unlock()

	start := time.Now()
	raw, err := h.src.LoadTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't load tables from %s: %w", h.src.Name(), err)
	}
	rs, err := tables.NewRawTableSet(raw)
	if err != nil {
		return nil, fmt.Errorf("can't build tables snapshot from %s: %w", h.src.Name(), err)
	}
	h.Install(rs)

	slog.Default().InfoContext(ctx, "installed tables snapshot",
		slog.String("snapshot_id", rs.ID),
		slog.String("source", h.src.Name()),
		slog.Int("orders", len(rs.Orders)),
		slog.Int("order_items", len(rs.OrderItems)),
		slog.Int("products", len(rs.Products)),
		slog.Int("customers", len(rs.Customers)),
		slog.Int("reviews", len(rs.Reviews)),
		slog.Duration("took", time.Since(start)),
	)
	return rs, nil
}
