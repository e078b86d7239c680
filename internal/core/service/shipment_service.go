package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
	"github.com/envios-ar/shipping-tracker/internal/pkg/metrics"
	"github.com/envios-ar/shipping-tracker/internal/pkg/retry"
)

const defaultCreateAttempts = 5

var _ ports.ShipmentService = (*ShipmentService)(nil)

type ShipmentService struct {
	repo        ports.ShipmentRepository
	idempotency ports.IdempotencyStore
	logger      zerolog.Logger
	location    *time.Location
	createRetry retry.Config
	now         func() time.Time
}

// Option customises a ShipmentService.
type Option func(*ShipmentService)

// WithIdempotencyStore enables Idempotency-Key replay on CreateShipment.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *ShipmentService) { s.idempotency = store }
}

// WithLocation sets the time zone date-range bounds are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *ShipmentService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithCreateRetry bounds the regenerate-and-retry loop run on tracking-code
// collisions.
func WithCreateRetry(maxAttempts int, backoff retry.Backoff) Option {
	return func(s *ShipmentService) {
		if maxAttempts > 0 {
			s.createRetry.MaxAttempts = maxAttempts
		}
		if backoff != nil {
			s.createRetry.Backoff = backoff
		}
	}
}

func NewShipmentService(repo ports.ShipmentRepository, logger zerolog.Logger, opts ...Option) *ShipmentService {
	s := &ShipmentService{
		repo:     repo,
		logger:   logger,
		location: time.UTC,
		createRetry: retry.Config{
			MaxAttempts: defaultCreateAttempts,
			Backoff:     retry.DefaultCollisionBackoff(),
			Retryable:   []error{domain.ErrDuplicateShipment},
			Logger:      logger,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateShipment validates the input, mints the next tracking code and stores
// a Pending shipment. A collision on insert means another writer took the same
// counter: the counter is re-read and a new code minted, up to the configured
// number of attempts.
func (s *ShipmentService) CreateShipment(ctx context.Context, input ports.CreateShipmentInput) ports.Result[*ports.CreateShipmentResult] {
	name, err := domain.ValidateName(input.CustomerName)
	if err != nil {
		return rejected[*ports.CreateShipmentResult](s.logger, err, "create")
	}
	address, err := domain.ValidateAddress(input.Address)
	if err != nil {
		return rejected[*ports.CreateShipmentResult](s.logger, err, "create")
	}
	province, err := domain.ValidateProvince(input.Province)
	if err != nil {
		return rejected[*ports.CreateShipmentResult](s.logger, err, "create")
	}

	reserved, replayed, err := s.reserve(ctx, input.IdempotencyKey)
	if err != nil {
		return ports.Fail[*ports.CreateShipmentResult](err)
	}
	if replayed != nil {
		metrics.IdempotentReplaysTotal.Inc()
		s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("tracking_code", replayed.TrackingCode).Msg("idempotent replay")
		return ports.OK(&ports.CreateShipmentResult{Shipment: replayed, AlreadyExisted: true},
			fmt.Sprintf("Shipment %s was already created for this request.", replayed.TrackingCode))
	}

	var created *domain.Shipment
	err = retry.Do(ctx, s.createRetry, func(attempt int) error {
		last, err := s.repo.MaxID(ctx)
		if err != nil {
			return err
		}
		code, id := domain.NextCode(last)
		shipment := domain.NewShipment(id, code, name, address, province)

		if err := s.repo.Insert(ctx, shipment); err != nil {
			if errors.Is(err, domain.ErrDuplicateShipment) {
				metrics.TrackingCodeCollisionsTotal.Inc()
				s.logger.Warn().Str("tracking_code", code).Int("attempt", attempt).Msg("tracking code collision, regenerating")
			}
			return err
		}
		created = shipment
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create shipment")
		if reserved {
			s.settle(ctx, input.IdempotencyKey, "")
		}
		return ports.Fail[*ports.CreateShipmentResult](err)
	}
	if reserved {
		s.settle(ctx, input.IdempotencyKey, created.TrackingCode)
	}

	metrics.ShipmentsCreatedTotal.WithLabelValues(created.Province).Inc()
	s.logger.Info().Str("tracking_code", created.TrackingCode).Int64("id", created.ID).Str("province", created.Province).Msg("shipment created")

	return ports.OK(&ports.CreateShipmentResult{Shipment: created},
		fmt.Sprintf("Shipment %s created successfully.", created.TrackingCode))
}

// reserve claims the Idempotency-Key before anything is inserted. It reports
// whether this request owns the key, or the shipment an earlier request with
// the same key created. A store failure only disables deduplication.
func (s *ShipmentService) reserve(ctx context.Context, key string) (owned bool, existing *domain.Shipment, err error) {
	if key == "" || s.idempotency == nil {
		return false, nil, nil
	}
	code, owned, err := s.idempotency.Reserve(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency store unavailable, creating without it")
		return false, nil, nil
	}
	if owned {
		return true, nil, nil
	}
	if code == "" {
		s.logger.Info().Str("idempotency_key", key).Msg("create with this key still in progress")
		return false, nil, domain.ErrRequestInProgress
	}
	existing, err = s.repo.FindByCode(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("idempotency_key", key).Str("tracking_code", code).Msg("idempotent replay lookup failed")
		return false, nil, err
	}
	return false, existing, nil
}

// settle completes the reservation with code, or releases it when code is
// empty so the client can retry.
func (s *ShipmentService) settle(ctx context.Context, key, code string) {
	ctx = context.WithoutCancel(ctx)
	if code == "" {
		if err := s.idempotency.Release(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
		}
		return
	}
	if err := s.idempotency.Complete(ctx, key, code); err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Str("tracking_code", code).Msg("failed to record idempotency key")
	}
}

// FindByCode validates the code syntax before looking it up, so callers can
// tell a malformed code from an unknown one.
func (s *ShipmentService) FindByCode(ctx context.Context, code string) ports.Result[*domain.Shipment] {
	code, err := domain.ValidateTrackingCode(code)
	if err != nil {
		return rejected[*domain.Shipment](s.logger, err, "find")
	}
	shipment, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return failed[*domain.Shipment](s.logger, err, "find by code", code)
	}
	return ports.OK(shipment, fmt.Sprintf("Shipment %s found.", shipment.TrackingCode))
}

// FindByClient matches customer names containing name, ignoring case and
// accents. No match is a successful empty result.
func (s *ShipmentService) FindByClient(ctx context.Context, name string) ports.Result[[]*domain.Shipment] {
	term := domain.StripAccents(strings.Join(strings.Fields(name), " "))
	if term == "" {
		return rejected[[]*domain.Shipment](s.logger, domain.NewValidationError("customer_name", "Error: a client name to search for is required."), "find")
	}

	shipments, err := s.repo.FindByNameSubstring(ctx, term)
	if err != nil {
		return failed[[]*domain.Shipment](s.logger, err, "find by client", term)
	}
	if len(shipments) == 0 {
		return ports.OK([]*domain.Shipment{}, fmt.Sprintf("No shipments found for client '%s'.", name))
	}
	return ports.OK(shipments, fmt.Sprintf("Found %d shipment(s) for client '%s'.", len(shipments), name))
}

// FindByDateRange returns shipments created between start and end, both in
// DD/MM/YYYY HH:MM. The end minute is included in full.
func (s *ShipmentService) FindByDateRange(ctx context.Context, start, end string) ports.Result[[]*domain.Shipment] {
	from, err := domain.ParseDateTime(start, s.location)
	if err != nil {
		return rejected[[]*domain.Shipment](s.logger, err, "find")
	}
	to, err := domain.ParseDateTime(end, s.location)
	if err != nil {
		return rejected[[]*domain.Shipment](s.logger, err, "find")
	}
	if from.After(to) {
		return rejected[[]*domain.Shipment](s.logger, domain.NewValidationError("datetime",
			"Error: start date %s is after end date %s.", from.Format(domain.DateTimeLayout), to.Format(domain.DateTimeLayout)), "find")
	}

	to = to.Add(time.Minute - time.Nanosecond)
	shipments, err := s.repo.FindByDateRange(ctx, from, to)
	if err != nil {
		return failed[[]*domain.Shipment](s.logger, err, "find by date range", start+" - "+end)
	}
	if len(shipments) == 0 {
		return ports.OK([]*domain.Shipment{}, "No shipments found in the given range.")
	}
	return ports.OK(shipments, fmt.Sprintf("Found %d shipment(s) in the given range.", len(shipments)))
}

// ListAll returns every shipment, newest first.
func (s *ShipmentService) ListAll(ctx context.Context) ports.Result[[]*domain.Shipment] {
	shipments, err := s.repo.ListAll(ctx)
	if err != nil {
		return failed[[]*domain.Shipment](s.logger, err, "list", "")
	}
	if shipments == nil {
		shipments = []*domain.Shipment{}
	}
	return ports.OK(shipments, fmt.Sprintf("%d shipment(s) registered.", len(shipments)))
}

// ChangeStatus sets an operator-chosen status.
func (s *ShipmentService) ChangeStatus(ctx context.Context, code, requested string) ports.Result[*domain.Shipment] {
	return s.transition(ctx, domain.ActionSet, code, func(current domain.ShipmentStatus) (domain.ShipmentStatus, error) {
		return domain.ManualSet(current, requested)
	})
}

// Advance moves the shipment one step along the forward chain.
func (s *ShipmentService) Advance(ctx context.Context, code string) ports.Result[*domain.Shipment] {
	return s.transition(ctx, domain.ActionAdvance, code, domain.Advance)
}

// ReturnShipment records the return of a delivered shipment.
func (s *ShipmentService) ReturnShipment(ctx context.Context, code, cause string) ports.Result[*domain.Shipment] {
	return s.transition(ctx, domain.ActionReturn, code, func(current domain.ShipmentStatus) (domain.ShipmentStatus, error) {
		return domain.ProcessReturn(current, cause)
	})
}

// transition reads the current status, applies a state machine operation and
// persists the result. Concurrent transitions on one code are last-write-wins.
func (s *ShipmentService) transition(
	ctx context.Context,
	action domain.StatusAction,
	code string,
	apply func(domain.ShipmentStatus) (domain.ShipmentStatus, error),
) ports.Result[*domain.Shipment] {
	res := s.applyTransition(ctx, action, code, apply)
	label := "ok"
	if !res.Succeeded {
		label = string(res.Kind)
	}
	metrics.StatusChangesTotal.WithLabelValues(string(action), label).Inc()
	return res
}

func (s *ShipmentService) applyTransition(
	ctx context.Context,
	action domain.StatusAction,
	code string,
	apply func(domain.ShipmentStatus) (domain.ShipmentStatus, error),
) ports.Result[*domain.Shipment] {
	code, err := domain.ValidateTrackingCode(code)
	if err != nil {
		return rejected[*domain.Shipment](s.logger, err, string(action))
	}

	shipment, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return failed[*domain.Shipment](s.logger, err, string(action), code)
	}

	previous := shipment.Status
	next, err := apply(previous)
	if err != nil {
		return rejected[*domain.Shipment](s.logger, err, string(action))
	}

	if err := s.repo.UpdateStatus(ctx, shipment.TrackingCode, next); err != nil {
		return failed[*domain.Shipment](s.logger, err, string(action), code)
	}

	shipment.Status = next
	shipment.UpdatedAt = s.now()
	s.logger.Info().
		Str("tracking_code", shipment.TrackingCode).
		Str("action", string(action)).
		Str("from", string(previous)).
		Str("to", string(next)).
		Msg("status changed")

	return ports.OK(shipment, fmt.Sprintf("Shipment %s status changed from '%s' to '%s'.", shipment.TrackingCode, previous, next))
}

// Statistics returns the total shipment count and the number of distinct
// destination provinces.
func (s *ShipmentService) Statistics(ctx context.Context) ports.Result[*ports.Statistics] {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return failed[*ports.Statistics](s.logger, err, "statistics", "")
	}
	provinces, err := s.repo.CountDistinctProvinces(ctx)
	if err != nil {
		return failed[*ports.Statistics](s.logger, err, "statistics", "")
	}
	return ports.OK(&ports.Statistics{TotalShipments: total, DistinctProvinces: provinces},
		fmt.Sprintf("%d shipment(s) to %d province(s).", total, provinces))
}

// CounterPreview reports the last used counter and the next code to be
// tried. Another create may take that code first.
func (s *ShipmentService) CounterPreview(ctx context.Context) ports.Result[*ports.CounterPreview] {
	last, err := s.repo.MaxID(ctx)
	if err != nil {
		return failed[*ports.CounterPreview](s.logger, err, "counter", "")
	}
	code, _ := domain.NextCode(last)
	return ports.OK(&ports.CounterPreview{Counter: last, NextCode: code}, fmt.Sprintf("Next tracking code: %s.", code))
}

// rejected reports a caller mistake (validation or state machine).
func rejected[T any](logger zerolog.Logger, err error, op string) ports.Result[T] {
	logger.Debug().Err(err).Str("op", op).Msg("request rejected")
	return ports.Fail[T](err)
}

// failed reports a repository outcome; not-found is expected, the rest is
// logged as an error.
func failed[T any](logger zerolog.Logger, err error, op, subject string) ports.Result[T] {
	if errors.Is(err, domain.ErrShipmentNotFound) {
		logger.Debug().Str("op", op).Str("subject", subject).Msg("shipment not found")
		return ports.Fail[T](fmt.Errorf("%w: %s", domain.ErrShipmentNotFound, subject))
	}
	logger.Error().Err(err).Str("op", op).Str("subject", subject).Msg("repository error")
	return ports.Fail[T](err)
}
