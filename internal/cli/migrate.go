package cli

import (
	"github.com/spf13/cobra"

	"github.com/envios-ar/shipping-tracker/internal/infrastructure/config"
	"github.com/envios-ar/shipping-tracker/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the shipments table or collection indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			initLogger(cfg)

			st, err := openStore(ctx, cfg, logger.Component("store"))
			if err != nil {
				return err
			}
			st.close()

			log := logger.Get()
			log.Info().Str("driver", cfg.StoreDriver).Msg("migration complete")
			return nil
		},
	}
}
