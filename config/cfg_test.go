package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jekabolt/grbpwr-dashboard/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	cfg, err := LoadConfig("config.toml")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTTTL)
	assert.Equal(t, source.KindDir, cfg.Source.Kind)
	assert.Equal(t, "./data", cfg.Source.Dir.Path)
	assert.Equal(t, "olist", cfg.Source.Bucket.BaseFolder)
	assert.Equal(t, time.Hour, cfg.Refresh.WorkerInterval)
	assert.Equal(t, 10, cfg.Dashboard.TopCategories)
	assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SOURCE_KIND", "mysql")
	t.Setenv("MYSQL_DSN", "u:p@tcp(db:3306)/olist")
	t.Setenv("SOURCE__BIGQUERY__DATASET", "sales")
	t.Setenv("DASHBOARD_TOP_CATEGORIES", "5")

	cfg, err := LoadConfig("config.toml")
	require.NoError(t, err)

	assert.Equal(t, source.KindMySQL, cfg.Source.Kind)
	assert.Equal(t, "u:p@tcp(db:3306)/olist", cfg.Source.MySQL.DSN)
	assert.Equal(t, "sales", cfg.Source.BigQuery.Dataset)
	assert.Equal(t, 5, cfg.Dashboard.TopCategories)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "delivered", cfg.Dashboard.DefaultStatus)
	assert.Equal(t, time.Duration(0), cfg.Refresh.WorkerInterval)
}

func TestLoadConfigAssemblesDSN(t *testing.T) {
	for _, k := range []string{"MYSQL_DSN", "SOURCE__MYSQL__DSN"} {
		if _, ok := os.LookupEnv(k); ok {
			t.Skip(k + " is set")
		}
	}
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_USER", "u")
	t.Setenv("MYSQL_PASSWORD", "p")
	t.Setenv("MYSQL_DATABASE", "olist")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(db:3306)/olist?charset=utf8&parseTime=false", cfg.Source.MySQL.DSN)
}
