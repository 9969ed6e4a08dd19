package main

import (
	"fmt"
	"time"

	"github.com/jekabolt/grbpwr-dashboard/internal/auth/jwt"
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		ttl     time.Duration
		subject string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin token for POST /api/admin/refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if ttl == 0 {
				ttl = cfg.Auth.JWTTTL
			}
			jwtAuth, err := jwt.New(&cfg.Auth)
			if err != nil {
				return err
			}
			tok, err := jwt.NewToken(jwtAuth, ttl, subject)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: auth.jwt_ttl)")
	cmd.Flags().StringVar(&subject, "subject", "", "subject recorded in refresh logs")
	return cmd
}
