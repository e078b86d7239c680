package ports

import (
	"context"
	"errors"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
)

// Result is the envelope every ShipmentService operation returns. Failures
// are data: Err keeps the cause for errors.Is checks, Kind classifies it and
// Message is safe to show to the caller.
type Result[T any] struct {
	Succeeded bool
	Message   string
	Kind      domain.ErrorKind
	Payload   T
	Err       error
}

// OK builds a successful Result.
func OK[T any](payload T, message string) Result[T] {
	return Result[T]{Succeeded: true, Message: message, Payload: payload}
}

// Fail builds a failed Result. Validation and state machine messages are
// passed through verbatim; infrastructure details are not.
func Fail[T any](err error) Result[T] {
	kind := domain.KindOf(err)
	return Result[T]{Kind: kind, Message: failureMessage(kind, err), Err: err}
}

func failureMessage(kind domain.ErrorKind, err error) string {
	switch kind {
	case domain.KindValidation, domain.KindIllegalTransition, domain.KindNotFound:
		return err.Error()
	case domain.KindConflict:
		if errors.Is(err, domain.ErrRequestInProgress) {
			return "a request with this Idempotency-Key is still being processed, retry shortly"
		}
		return "could not allocate a unique tracking code, please retry"
	case domain.KindUnavailable:
		return "shipment store is temporarily unavailable"
	default:
		return "internal error"
	}
}

// CreateShipmentInput carries all data needed to create a new shipment.
type CreateShipmentInput struct {
	CustomerName   string
	Address        string
	Province       string
	IdempotencyKey string
}

// CreateShipmentResult wraps the stored shipment.
type CreateShipmentResult struct {
	Shipment *domain.Shipment
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// Statistics summarises the shipment table.
type Statistics struct {
	TotalShipments    int64
	DistinctProvinces int64
}

// CounterPreview exposes the current counter and the code the next create
// would try first.
type CounterPreview struct {
	Counter  int64
	NextCode string
}

// ShipmentService defines use-case operations for shipments.
type ShipmentService interface {
	CreateShipment(ctx context.Context, input CreateShipmentInput) Result[*CreateShipmentResult]
	FindByCode(ctx context.Context, code string) Result[*domain.Shipment]
	FindByClient(ctx context.Context, name string) Result[[]*domain.Shipment]
	FindByDateRange(ctx context.Context, start, end string) Result[[]*domain.Shipment]
	ListAll(ctx context.Context) Result[[]*domain.Shipment]
	ChangeStatus(ctx context.Context, code, requested string) Result[*domain.Shipment]
	Advance(ctx context.Context, code string) Result[*domain.Shipment]
	ReturnShipment(ctx context.Context, code, cause string) Result[*domain.Shipment]
	Statistics(ctx context.Context) Result[*Statistics]
	CounterPreview(ctx context.Context) Result[*CounterPreview]
}
