package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/envios-ar/shipping-tracker/internal/core/ports"
	"github.com/envios-ar/shipping-tracker/internal/infrastructure/config"
	mongodb "github.com/envios-ar/shipping-tracker/internal/infrastructure/db/mongo"
	"github.com/envios-ar/shipping-tracker/internal/infrastructure/db/postgres"
)

// store is the configured shipment repository plus its lifecycle hooks.
type store struct {
	repo  ports.ShipmentRepository
	ping  func(ctx context.Context) error
	close func()
}

// Ping satisfies handler.Pinger for the readiness probe.
func (s *store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// openStore connects to the backend named by STORE_DRIVER and makes sure its
// schema or indexes exist.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:             cfg.DB.DSN(),
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			MinIdleConns:    cfg.DB.MinIdleConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("host", cfg.DB.Host).Str("database", cfg.DB.Name).Msg("postgres store ready")

		repo := postgres.NewShipmentRepository(db)
		return &store{
			repo: repo,
			ping: repo.Ping,
			close: func() {
				if err := db.Close(); err != nil {
					log.Warn().Err(err).Msg("close postgres")
				}
			},
		}, nil

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
			MinPoolSize: cfg.Mongo.MinPoolSize,
		})
		if err != nil {
			return nil, err
		}
		repo := mongodb.NewShipmentRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")

		return &store{
			repo: repo,
			ping: repo.Ping,
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Warn().Err(err).Msg("disconnect mongo")
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
