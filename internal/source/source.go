// Package source loads the raw tables from local files, an S3 bucket,
// MySQL or BigQuery.
package source

import (
	"context"
	"fmt"

	"github.com/jekabolt/grbpwr-dashboard/internal/dependency"
	gerr "github.com/jekabolt/grbpwr-dashboard/internal/errors"
	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
)

const (
	KindDir      = "dir"
	KindBucket   = "bucket"
	KindMySQL    = "mysql"
	KindBigQuery = "bigquery"
)

// Config selects and configures the table source.
type Config struct {
	Kind     string         `mapstructure:"kind"`
	Dir      DirConfig      `mapstructure:"dir"`
	Bucket   BucketConfig   `mapstructure:"bucket"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	BigQuery BigQueryConfig `mapstructure:"bigquery"`
	// Files overrides the CSV object name per table for dir and bucket sources.
	Files map[string]string `mapstructure:"files"`
}

// defaultFiles are the CSV names of the public e-commerce dataset.
var defaultFiles = map[string]string{
	tables.Orders:     "orders_dataset.csv",
	tables.OrderItems: "order_items_dataset.csv",
	tables.Products:   "products_dataset.csv",
	tables.Customers:  "customers_dataset.csv",
	tables.Reviews:    "order_reviews_dataset.csv",
}

func fileNames(overrides map[string]string) map[string]string {
	files := make(map[string]string, len(defaultFiles))
	for t, f := range defaultFiles {
		files[t] = f
	}
	for t, f := range overrides {
		if f != "" {
			files[t] = f
		}
	}
	return files
}

// New creates the source selected by c.Kind. An empty kind means dir.
func New(ctx context.Context, c *Config) (dependency.TableSource, error) {
	switch c.Kind {
	case KindDir, "":
		return NewDir(&c.Dir, c.Files), nil
	case KindBucket:
		return NewBucket(&c.Bucket, c.Files)
	case KindMySQL:
		return NewMySQL(ctx, &c.MySQL)
	case KindBigQuery:
		return NewBigQuery(ctx, &c.BigQuery)
	default:
		return nil, fmt.Errorf("%w: %q", gerr.ErrUnknownSource, c.Kind)
	}
}
