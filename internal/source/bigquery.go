package source

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// BigQueryConfig points at a dataset holding one BigQuery table per raw table.
type BigQueryConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	Dataset         string `mapstructure:"dataset"`
	CredentialsFile string `mapstructure:"credentials_file"`
	Location        string `mapstructure:"location"`
}

// BigQuery reads the tables from a BigQuery dataset.
type BigQuery struct {
	client *bigquery.Client
	c      *BigQueryConfig
}

// NewBigQuery creates a BigQuery client.
func NewBigQuery(ctx context.Context, c *BigQueryConfig) (*BigQuery, error) {
	var opts []option.ClientOption
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}
	client, err := bigquery.NewClient(ctx, c.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("can't create bigquery client: %w", err)
	}
	if c.Location != "" {
		client.Location = c.Location
	}
	return &BigQuery{client: client, c: c}, nil
}

func (bq *BigQuery) Name() string {
	return "bigquery:" + bq.c.ProjectID + "." + bq.c.Dataset
}

func (bq *BigQuery) Close() error {
	return bq.client.Close()
}

// LoadTables runs one query per table, in parallel.
func (bq *BigQuery) LoadTables(ctx context.Context) (tables.Raw, error) {
	names := make(map[string]string, len(tables.Names()))
	for _, n := range tables.Names() {
		names[n] = n
	}
	return loadParallel(ctx, names, bq.readTable)
}

func (bq *BigQuery) readTable(ctx context.Context, name, bqTable string) (*tables.Table, error) {
	q := bq.client.Query(fmt.Sprintf("SELECT * FROM `%s.%s.%s`", bq.c.ProjectID, bq.c.Dataset, bqTable))
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't query %s: %w", bqTable, err)
	}

	var t *tables.Table
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("can't read %s: %w", bqTable, err)
		}
		if t == nil {
			t = tables.NewTable(name, schemaColumns(it.Schema))
		}
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = bigqueryString(v)
		}
		t.Append(rec)
	}
	if t == nil {
		t = tables.NewTable(name, schemaColumns(it.Schema))
	}
	return t, nil
}

func schemaColumns(s bigquery.Schema) []string {
	cols := make([]string, len(s))
	for i, f := range s {
		cols[i] = f.Name
	}
	return cols
}

func bigqueryString(v bigquery.Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *big.Rat:
		return bigquery.NumericString(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case civil.DateTime:
		return v.String()
	case civil.Date:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
