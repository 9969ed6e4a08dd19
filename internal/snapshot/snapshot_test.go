package snapshot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	gerr "github.com/jekabolt/grbpwr-dashboard/internal/errors"
	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	raw tables.Raw
	err error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Close() error { return nil }

func (s *stubSource) LoadTables(ctx context.Context) (tables.Raw, error) {
	return s.raw, s.err
}

func emptyRaw() tables.Raw {
	raw := tables.Raw{}
	for _, name := range tables.Names() {
		raw[name] = tables.NewTable(name, tables.Columns(name))
	}
	return raw
}

func TestHolderRefresh(t *testing.T) {
	src := &stubSource{raw: emptyRaw()}
	h := New(src)

	_, err := h.Current()
	assert.ErrorIs(t, err, gerr.ErrSnapshotNotLoaded)

	first, err := h.Refresh(context.Background())
	require.NoError(t, err)
	cur, err := h.Current()
	require.NoError(t, err)
	assert.Same(t, first, cur)

	second, err := h.Refresh(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// a reader holding the old snapshot still sees it unchanged
	assert.Empty(t, first.Orders)
}

func TestHolderRefreshKeepsPreviousOnError(t *testing.T) {
	src := &stubSource{raw: emptyRaw()}
	h := New(src)
	first, err := h.Refresh(context.Background())
	require.NoError(t, err)

	src.err = errors.New("unreachable")
	_, err = h.Refresh(context.Background())
	require.Error(t, err)

	src.err = nil
	delete(src.raw, tables.Customers)
	_, err = h.Refresh(context.Background())
	assert.True(t, gerr.IsSchemaError(err))

	cur, err := h.Current()
	require.NoError(t, err)
	assert.Same(t, first, cur)
}

type countingRefresher struct {
	n atomic.Int32
}

func (c *countingRefresher) Refresh(ctx context.Context) (string, error) {
	c.n.Add(1)
	return "id", nil
}

func TestWorker(t *testing.T) {
	r := &countingRefresher{}
	w := NewWorker(&Config{WorkerInterval: 10 * time.Millisecond}, r)

	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()))

	assert.Eventually(t, func() bool { return r.n.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, w.Stop())
	assert.Error(t, w.Stop())
}

func TestWorkerDisabled(t *testing.T) {
	w := NewWorker(&Config{}, &countingRefresher{})
	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Stop())
}
