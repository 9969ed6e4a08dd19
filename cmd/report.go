package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/jekabolt/grbpwr-dashboard/internal/dashboard"
	"github.com/jekabolt/grbpwr-dashboard/internal/entity"
	"github.com/jekabolt/grbpwr-dashboard/internal/snapshot"
	"github.com/jekabolt/grbpwr-dashboard/internal/source"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var from, to, status string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Load the tables once and print the dashboard report as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			src, err := source.New(ctx, &cfg.Source)
			if err != nil {
				return err
			}
			defer src.Close()

			dash := dashboard.New(&cfg.Dashboard, snapshot.New(src))
			if _, err := dash.Refresh(ctx); err != nil {
				return err
			}

			window, err := reportWindow(from, to)
			if err != nil {
				return err
			}
			if window.From.IsZero() || window.To.IsZero() {
				full, err := dash.DateRange(ctx)
				if err != nil {
					return err
				}
				if window.From.IsZero() {
					window.From = full.From
				}
				if window.To.IsZero() {
					window.To = full.To
				}
			}

			report, err := dash.Report(ctx, entity.ReportRequest{
				Window: window,
				Status: entity.OrderStatus(status),
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "window start, YYYY-MM-DD (default: first purchase date)")
	cmd.Flags().StringVar(&to, "to", "", "window end, YYYY-MM-DD (default: last purchase date)")
	cmd.Flags().StringVar(&status, "status", "", "order status filter (default: dashboard.default_status)")
	return cmd
}

func reportWindow(from, to string) (entity.DateWindow, error) {
	var w entity.DateWindow
	for _, b := range []struct {
		name, v string
		dst     *time.Time
	}{{"from", from, &w.From}, {"to", to, &w.To}} {
		if b.v == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, b.v)
		if err != nil {
			return w, fmt.Errorf("--%s %q is not YYYY-MM-DD: %w", b.name, b.v, err)
		}
		*b.dst = t
	}
	return w, nil
}
