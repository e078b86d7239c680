//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
)

func setupRepository(t *testing.T) *ShipmentRepository {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("shipping_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Connect(ctx, Config{DSN: dsn, MaxOpenConns: 10, MinIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Migrate(ctx, db), "migrate must be idempotent")
	return NewShipmentRepository(db)
}

func insert(t *testing.T, repo *ShipmentRepository, id int64, name, province string) *domain.Shipment {
	t.Helper()
	code, _ := domain.NextCode(id - 1)
	s := domain.NewShipment(id, code, name, "Calle 1", province)
	require.NoError(t, repo.Insert(context.Background(), s))
	return s
}

func TestShipmentRepository_Integration(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	last, err := repo.MaxID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), last)

	first := insert(t, repo, 1, "Jose Perez", "Cordoba")
	assert.False(t, first.CreatedAt.IsZero())
	insert(t, repo, 2, "Maria Jose", "Salta")
	insert(t, repo, 3, "Ana 100% Real", "Salta")

	t.Run("duplicate code", func(t *testing.T) {
		dup := domain.NewShipment(4, "ENV001", "Otro", "Calle 2", "Chaco")
		err := repo.Insert(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrDuplicateShipment)
	})

	t.Run("duplicate id", func(t *testing.T) {
		dup := domain.NewShipment(1, "ENV999", "Otro", "Calle 2", "Chaco")
		assert.ErrorIs(t, repo.Insert(ctx, dup), domain.ErrDuplicateShipment)
	})

	t.Run("find by code ignores case", func(t *testing.T) {
		s, err := repo.FindByCode(ctx, "env001")
		require.NoError(t, err)
		assert.Equal(t, "Jose Perez", s.CustomerName)

		_, err = repo.FindByCode(ctx, "ENV404")
		assert.ErrorIs(t, err, domain.ErrShipmentNotFound)
	})

	t.Run("name substring", func(t *testing.T) {
		got, err := repo.FindByNameSubstring(ctx, "JOSE")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "ENV002", got[0].TrackingCode)

		got, err = repo.FindByNameSubstring(ctx, "%")
		require.NoError(t, err)
		assert.Len(t, got, 1, "wildcards must be matched literally")
	})

	t.Run("date range", func(t *testing.T) {
		got, err := repo.FindByDateRange(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, got, 3)

		got, err = repo.FindByDateRange(ctx, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, "env002", domain.StatusInTransit))
		s, err := repo.FindByCode(ctx, "ENV002")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInTransit, s.Status)

		assert.ErrorIs(t, repo.UpdateStatus(ctx, "ENV404", domain.StatusInTransit), domain.ErrShipmentNotFound)
	})

	t.Run("aggregates", func(t *testing.T) {
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		p, err := repo.CountDistinctProvinces(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), p)

		last, err := repo.MaxID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), last)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestShipmentRepository_ConcurrentInsertsOnSameID(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	const writers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Insert(ctx, domain.NewShipment(1, "ENV001", "Ana", "Calle 1", "Salta"))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, domain.ErrDuplicateShipment) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
