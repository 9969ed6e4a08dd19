package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "grbpwr-dashboard",
		Short:        "Sales dashboard over e-commerce order tables",
		RunE:         run,
		SilenceUsage: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the grbpwr-dashboard service version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	cfgFile string
	version string
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file (optional)")
	rootCmd.AddCommand(versionCmd, reportCmd(), tokenCmd())
	if err := rootCmd.Execute(); err != nil {
		slog.Default().Error("grbpwr-dashboard failed",
			slog.String("err", err.Error()),
		)
		os.Exit(1)
	}
}
