package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/envios-ar/shipping-tracker/internal/api"
	"github.com/envios-ar/shipping-tracker/internal/api/handler"
	"github.com/envios-ar/shipping-tracker/internal/core/service"
	"github.com/envios-ar/shipping-tracker/internal/infrastructure/config"
	redisdb "github.com/envios-ar/shipping-tracker/internal/infrastructure/db/redis"
	"github.com/envios-ar/shipping-tracker/internal/infrastructure/queue"
	"github.com/envios-ar/shipping-tracker/internal/infrastructure/resilience"
	"github.com/envios-ar/shipping-tracker/internal/pkg/retry"
	"github.com/envios-ar/shipping-tracker/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the status command workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			initLogger(cfg)
			return serve(ctx, cfg)
		},
	}
}

func initLogger(cfg *config.Config) {
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Version: version,
	})
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg, logger.Component("store"))
	if err != nil {
		return err
	}
	defer st.close()

	repo := resilience.NewBreakerRepository(st.repo, resilience.BreakerConfig{
		Name:             cfg.StoreDriver,
		FailureThreshold: cfg.Breaker.FailureThreshold,
		OpenTimeout:      cfg.Breaker.OpenTimeout,
		HalfOpenRequests: cfg.Breaker.HalfOpenRequests,
	}, logger.Component("breaker"))

	opts := []service.Option{
		service.WithLocation(loc),
		service.WithCreateRetry(cfg.CreateMaxAttempts, retry.DefaultCollisionBackoff()),
	}
	health := map[string]handler.Pinger{cfg.StoreDriver: st}

	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:      cfg.Redis.Addr,
			DB:        cfg.Redis.DB,
			PoolSize:  cfg.Redis.PoolSize,
			IOTimeout: cfg.Redis.Timeout,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		opts = append(opts, service.WithIdempotencyStore(redisdb.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)))
		health["redis"] = handler.PingFunc(redisdb.HealthCheck(client))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency store enabled")
	} else {
		log.Info().Msg("REDIS_ADDR not set, Idempotency-Key headers are ignored")
	}

	shipments := service.NewShipmentService(repo, logger.Component("shipments"), opts...)

	// Workers outlive the signal so queued commands drain on shutdown.
	workerCtx, cancelWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWorkers()
	dispatcher := queue.NewDispatcher(
		cfg.DispatchWorkers,
		service.NewCommandService(shipments, logger.Component("commands")),
		logger.Component("dispatcher"),
	)
	dispatcher.Start(workerCtx)

	e := api.NewRouter(api.Deps{
		Shipments:  shipments,
		Dispatcher: dispatcher,
		Health:     health,
		JWTSecret:  cfg.JWTSecret,
		Logger:     logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		dispatcher.Stop()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	dispatcher.Stop()
	log.Info().Msg("server stopped")
	return nil
}
