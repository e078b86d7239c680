package ports

import (
	"context"
	"time"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
)

// ShipmentRepository defines persistence operations for shipments.
//
// Implementations return domain.ErrShipmentNotFound for unknown codes,
// domain.ErrDuplicateShipment when an insert collides on id or tracking code,
// and wrap infrastructure failures with domain.ErrRepositoryUnavailable.
type ShipmentRepository interface {
	// Insert stores s with the id and code it already carries and fills in
	// the timestamps assigned by the store.
	Insert(ctx context.Context, s *domain.Shipment) error
	// FindByCode is a case-insensitive exact match on the tracking code.
	FindByCode(ctx context.Context, code string) (*domain.Shipment, error)
	// FindByNameSubstring is a case-insensitive substring match on the
	// customer name, newest first.
	FindByNameSubstring(ctx context.Context, name string) ([]*domain.Shipment, error)
	// FindByDateRange returns shipments created in [start, end], newest first.
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Shipment, error)
	ListAll(ctx context.Context) ([]*domain.Shipment, error)
	UpdateStatus(ctx context.Context, code string, status domain.ShipmentStatus) error
	// MaxID is the last used counter, 0 on an empty store.
	MaxID(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountDistinctProvinces(ctx context.Context) (int64, error)
}

// IdempotencyStore makes creates carrying the same client-supplied
// Idempotency-Key run at most once.
type IdempotencyStore interface {
	// Reserve claims key atomically. When owned is true the caller performs
	// the create and must then Complete or Release. Otherwise code is the
	// tracking code already recorded for key, or "" while its owner is
	// still running.
	Reserve(ctx context.Context, key string) (code string, owned bool, err error)
	// Complete records the code the owner created.
	Complete(ctx context.Context, key, code string) error
	// Release drops the reservation of a create that failed.
	Release(ctx context.Context, key string) error
}
