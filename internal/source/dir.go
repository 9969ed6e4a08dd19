package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
	"golang.org/x/sync/errgroup"
)

// DirConfig points at a local directory of CSV files.
type DirConfig struct {
	Path string `mapstructure:"path"`
}

// Dir reads the tables from CSV files in a directory.
type Dir struct {
	c     *DirConfig
	files map[string]string
}

// NewDir creates a directory source.
func NewDir(c *DirConfig, files map[string]string) *Dir {
	return &Dir{c: c, files: fileNames(files)}
}

func (d *Dir) Name() string {
	return "dir:" + d.c.Path
}

func (d *Dir) Close() error {
	return nil
}

// LoadTables reads every table file in parallel.
func (d *Dir) LoadTables(ctx context.Context) (tables.Raw, error) {
	return loadParallel(ctx, d.files, func(ctx context.Context, table, file string) (*tables.Table, error) {
		path := filepath.Join(d.c.Path, file)
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("can't open %s: %w", path, err)
		}
		defer f.Close()
		return readCSV(table, f)
	})
}

type loadFunc func(ctx context.Context, table, file string) (*tables.Table, error)

func loadParallel(ctx context.Context, files map[string]string, load loadFunc) (tables.Raw, error) {
	var (
		mu  sync.Mutex
		raw = make(tables.Raw, len(files))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range tables.Names() {
		file := files[name]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := load(ctx, name, file)
			if err != nil {
				return err
			}
			slog.Default().DebugContext(ctx, "loaded table",
				slog.String("table", name),
				slog.String("file", file),
				slog.Int("rows", t.Len()),
			)
			mu.Lock()
			raw[name] = t
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raw, nil
}
