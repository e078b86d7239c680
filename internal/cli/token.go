package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/envios-ar/shipping-tracker/internal/api/middleware"
	"github.com/envios-ar/shipping-tracker/internal/infrastructure/config"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		secret  string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the status routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load(cmd.Context())
				if err != nil {
					return err
				}
				secret = cfg.JWTSecret
			}
			if secret == "" {
				return errors.New("no signing secret: set JWT_SECRET or pass --secret")
			}
			if role != middleware.RoleOperator && role != middleware.RoleAdmin {
				return fmt.Errorf("unknown role %q (want %q or %q)", role, middleware.RoleOperator, middleware.RoleAdmin)
			}

			tok, err := middleware.IssueToken(secret, subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "who the token is issued to")
	cmd.Flags().StringVar(&role, "role", middleware.RoleOperator, "operator or admin")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
