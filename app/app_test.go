package app

import (
	"context"
	"testing"
	"time"

	"github.com/jekabolt/grbpwr-dashboard/config"
	gerr "github.com/jekabolt/grbpwr-dashboard/internal/errors"
	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSource struct {
	raw    tables.Raw
	closed bool
}

func (m *memSource) Name() string { return "mem" }

func (m *memSource) Close() error {
	m.closed = true
	return nil
}

func (m *memSource) LoadTables(ctx context.Context) (tables.Raw, error) {
	return m.raw, nil
}

func emptyRaw() tables.Raw {
	raw := tables.Raw{}
	for _, name := range tables.Names() {
		raw[name] = tables.NewTable(name, tables.Columns(name))
	}
	return raw
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.HTTP.Address = "127.0.0.1"
	c.HTTP.Port = "0"
	c.Auth.JWTSecret = "secret"
	c.RateLimit.Window = time.Minute
	c.RateLimit.MaxRequests = 1
	return c
}

func TestStartStop(t *testing.T) {
	src := &memSource{raw: emptyRaw()}
	a := New(testConfig(), src)

	ctx := context.Background()
	require.NoError(t, a.Start(ctx))
	a.Stop(ctx)

	select {
	case <-a.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("app did not exit")
	}
	assert.True(t, src.closed)
}

func TestStartFailsOnSchemaError(t *testing.T) {
	raw := emptyRaw()
	raw[tables.Orders] = tables.NewTable(tables.Orders, []string{"order_id"})
	a := New(testConfig(), &memSource{raw: raw})

	err := a.Start(context.Background())
	require.Error(t, err)
	assert.True(t, gerr.IsSchemaError(err))
}
