package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
)

const uniqueViolation pq.ErrorCode = "23505"

const selectShipment = `
	SELECT id, tracking_code, customer_name, address, province, status, created_at, updated_at
	FROM shipments`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

var _ ports.ShipmentRepository = (*ShipmentRepository)(nil)

type ShipmentRepository struct {
	db *sqlx.DB
}

func NewShipmentRepository(db *sqlx.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// Insert stores s with its own id and code. The store assigns the timestamps.
func (r *ShipmentRepository) Insert(ctx context.Context, s *domain.Shipment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO shipments (id, tracking_code, customer_name, address, province, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.TrackingCode, s.CustomerName, s.Address, s.Province, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *ShipmentRepository) FindByCode(ctx context.Context, code string) (*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Shipment
	if err := r.db.GetContext(ctx, &s, selectShipment+` WHERE UPPER(tracking_code) = UPPER($1)`, code); err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

func (r *ShipmentRepository) FindByNameSubstring(ctx context.Context, name string) ([]*domain.Shipment, error) {
	return r.selectMany(ctx,
		selectShipment+` WHERE customer_name ILIKE $1 ESCAPE '\' ORDER BY created_at DESC, id DESC`,
		"%"+likeEscaper.Replace(name)+"%")
}

func (r *ShipmentRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Shipment, error) {
	return r.selectMany(ctx,
		selectShipment+` WHERE created_at BETWEEN $1 AND $2 ORDER BY created_at DESC, id DESC`,
		start, end)
}

func (r *ShipmentRepository) ListAll(ctx context.Context) ([]*domain.Shipment, error) {
	return r.selectMany(ctx, selectShipment+` ORDER BY created_at DESC, id DESC`)
}

func (r *ShipmentRepository) selectMany(ctx context.Context, query string, args ...any) ([]*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	shipments := []*domain.Shipment{}
	if err := r.db.SelectContext(ctx, &shipments, query, args...); err != nil {
		return nil, mapError(err)
	}
	return shipments, nil
}

func (r *ShipmentRepository) UpdateStatus(ctx context.Context, code string, status domain.ShipmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx,
		`UPDATE shipments SET status = $1, updated_at = NOW() WHERE UPPER(tracking_code) = UPPER($2)`,
		status, code)
	if err != nil {
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if rowsAffected == 0 {
		return domain.ErrShipmentNotFound
	}
	return nil
}

func (r *ShipmentRepository) MaxID(ctx context.Context) (int64, error) {
	return r.scalar(ctx, `SELECT COALESCE(MAX(id), 0) FROM shipments`)
}

func (r *ShipmentRepository) Count(ctx context.Context) (int64, error) {
	return r.scalar(ctx, `SELECT COUNT(*) FROM shipments`)
}

func (r *ShipmentRepository) CountDistinctProvinces(ctx context.Context) (int64, error) {
	return r.scalar(ctx, `SELECT COUNT(DISTINCT province) FROM shipments`)
}

func (r *ShipmentRepository) scalar(ctx context.Context, query string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.db.GetContext(ctx, &n, query); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// Ping reports whether the database answers; used by the readiness probe.
func (r *ShipmentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// mapError translates driver errors into the repository contract.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrShipmentNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w (%s)", domain.ErrDuplicateShipment, pqErr.Constraint)
	}
	return fmt.Errorf("%w: %v", domain.ErrRepositoryUnavailable, err)
}
