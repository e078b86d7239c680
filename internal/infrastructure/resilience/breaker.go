package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
	"github.com/envios-ar/shipping-tracker/internal/pkg/metrics"
)

// BreakerConfig holds the circuit breaker thresholds.
type BreakerConfig struct {
	Name string
	// FailureThreshold consecutive infrastructure failures trip the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of probes allowed while half-open.
	HalfOpenRequests uint32
}

var _ ports.ShipmentRepository = (*BreakerRepository)(nil)

// BreakerRepository guards a ShipmentRepository with a circuit breaker. Only
// errors wrapping domain.ErrRepositoryUnavailable count as failures; not
// found, duplicates and the like pass through without tripping it. While
// open, calls fail fast with domain.ErrRepositoryUnavailable.
type BreakerRepository struct {
	next ports.ShipmentRepository
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerRepository(next ports.ShipmentRepository, cfg BreakerConfig, log zerolog.Logger) *BreakerRepository {
	if cfg.Name == "" {
		cfg.Name = "shipment-repository"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = 1
	}

	metrics.BreakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrRepositoryUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}

	return &BreakerRepository{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// State returns the current breaker state.
func (r *BreakerRepository) State() gobreaker.State {
	return r.cb.State()
}

func guard[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", domain.ErrRepositoryUnavailable, cb.Name(), err)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

func guardErr(cb *gobreaker.CircuitBreaker, fn func() error) error {
	_, err := guard(cb, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

func (r *BreakerRepository) Insert(ctx context.Context, s *domain.Shipment) error {
	return guardErr(r.cb, func() error { return r.next.Insert(ctx, s) })
}

func (r *BreakerRepository) FindByCode(ctx context.Context, code string) (*domain.Shipment, error) {
	return guard(r.cb, func() (*domain.Shipment, error) { return r.next.FindByCode(ctx, code) })
}

func (r *BreakerRepository) FindByNameSubstring(ctx context.Context, name string) ([]*domain.Shipment, error) {
	return guard(r.cb, func() ([]*domain.Shipment, error) { return r.next.FindByNameSubstring(ctx, name) })
}

func (r *BreakerRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Shipment, error) {
	return guard(r.cb, func() ([]*domain.Shipment, error) { return r.next.FindByDateRange(ctx, start, end) })
}

func (r *BreakerRepository) ListAll(ctx context.Context) ([]*domain.Shipment, error) {
	return guard(r.cb, func() ([]*domain.Shipment, error) { return r.next.ListAll(ctx) })
}

func (r *BreakerRepository) UpdateStatus(ctx context.Context, code string, status domain.ShipmentStatus) error {
	return guardErr(r.cb, func() error { return r.next.UpdateStatus(ctx, code, status) })
}

func (r *BreakerRepository) MaxID(ctx context.Context) (int64, error) {
	return guard(r.cb, func() (int64, error) { return r.next.MaxID(ctx) })
}

func (r *BreakerRepository) Count(ctx context.Context) (int64, error) {
	return guard(r.cb, func() (int64, error) { return r.next.Count(ctx) })
}

func (r *BreakerRepository) CountDistinctProvinces(ctx context.Context) (int64, error) {
	return guard(r.cb, func() (int64, error) { return r.next.CountDistinctProvinces(ctx) })
}
