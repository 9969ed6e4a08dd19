package source

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

// MySQLConfig defines configurations to connect database
type MySQLConfig struct {
	DSN                string `mapstructure:"dsn"`
	Automigrate        bool   `mapstructure:"automigrate"`
	MaxOpenConnections int    `mapstructure:"max_open_connections"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections"`
}

// MySQL reads the tables from a MySQL database.
type MySQL struct {
	db *sqlx.DB
}

// NewMySQL connects to the database and applies migrations when enabled.
func NewMySQL(ctx context.Context, c *MySQLConfig) (*MySQL, error) {
	d, err := sqlx.Open("mysql", c.DSN)
	if err != nil {
		return nil, fmt.Errorf("couldn't open database : %v", err)
	}
	if c.MaxOpenConnections > 0 {
		d.SetMaxOpenConns(c.MaxOpenConnections)
	}
	if c.MaxIdleConnections > 0 {
		d.SetMaxIdleConns(c.MaxIdleConnections)
	}
	d.SetConnMaxLifetime(2 * time.Minute)
	d.SetConnMaxIdleTime(30 * time.Second)

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := d.PingContext(pingCtx); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if c.Automigrate {
		slog.Default().InfoContext(ctx, "applying migrations")
		migrateCtx, migrateCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer migrateCancel()
		if err := MigrateWithContext(migrateCtx, d.DB); err != nil {
			d.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return &MySQL{db: d}, nil
}

//go:embed sql
var fs embed.FS

// MigrateWithContext creates the raw tables if they do not exist.
func MigrateWithContext(ctx context.Context, db *sql.DB) error {
	m := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: fs,
		Root:       "sql",
	}

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := migrate.Exec(db, "mysql", m, migrate.Up)
		done <- result{n: n, err: err}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("migration timeout: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("db migrations have failed: %w", res.err)
		}
		slog.Default().InfoContext(ctx, "applied migrations",
			slog.Int("count", res.n),
		)
		return nil
	}
}

func (ms *MySQL) Name() string {
	return "mysql"
}

func (ms *MySQL) Close() error {
	return ms.db.Close()
}

// LoadTables reads every table inside one read-only transaction so all
// tables come from the same point in time.
func (ms *MySQL) LoadTables(ctx context.Context) (tables.Raw, error) {
	tx, err := ms.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("can't begin read transaction: %w", err)
	}
	defer tx.Rollback()

	raw := make(tables.Raw, len(tables.Names()))
	for _, name := range tables.Names() {
		t, err := readTable(ctx, tx, name)
		if err != nil {
			return nil, err
		}
		raw[name] = t
	}
	return raw, nil
}

func readTable(ctx context.Context, tx *sqlx.Tx, name string) (*tables.Table, error) {
	// table names come from tables.Names, never from input
	rows, err := tx.QueryxContext(ctx, "SELECT * FROM "+name)
	if err != nil {
		return nil, fmt.Errorf("can't select from %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("can't get columns of %s: %w", name, err)
	}
	t := tables.NewTable(name, cols)

	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("can't scan row of %s: %w", name, err)
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				rec[i] = v.String
			}
		}
		t.Append(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read rows of %s: %w", name, err)
	}
	return t, nil
}
