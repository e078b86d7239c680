//go:build integration

package mongo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
)

type ShipmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	container *mongodb.MongoDBContainer
	client    *mongo.Client
	repo      *ShipmentRepository
	ctx       context.Context
}

func (s *ShipmentRepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := mongodb.Run(s.ctx, "mongo:6")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	client, db, err := Connect(s.ctx, Config{URI: uri, Database: "shipping_test", MaxPoolSize: 10})
	s.Require().NoError(err)
	s.client = client

	s.repo = NewShipmentRepository(db)
	s.Require().NoError(s.repo.EnsureIndexes(s.ctx))
}

func (s *ShipmentRepositoryIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Disconnect(s.ctx)
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *ShipmentRepositoryIntegrationTestSuite) SetupTest() {
	_, err := s.repo.col.DeleteMany(s.ctx, map[string]any{})
	s.Require().NoError(err)
}

func (s *ShipmentRepositoryIntegrationTestSuite) insert(id int64, name, province string) *domain.Shipment {
	code, _ := domain.NextCode(id - 1)
	sh := domain.NewShipment(id, code, name, "Calle 1", province)
	s.Require().NoError(s.repo.Insert(s.ctx, sh))
	return sh
}

func (s *ShipmentRepositoryIntegrationTestSuite) TestInsertAndFind() {
	last, err := s.repo.MaxID(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), last)

	created := s.insert(1, "Jose Perez", "Cordoba")
	s.False(created.CreatedAt.IsZero())

	found, err := s.repo.FindByCode(s.ctx, "env001")
	s.Require().NoError(err)
	s.Equal("Jose Perez", found.CustomerName)
	s.True(created.CreatedAt.Equal(found.CreatedAt))

	_, err = s.repo.FindByCode(s.ctx, "ENV404")
	s.ErrorIs(err, domain.ErrShipmentNotFound)

	last, err = s.repo.MaxID(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), last)
}

func (s *ShipmentRepositoryIntegrationTestSuite) TestDuplicates() {
	s.insert(1, "Ana", "Salta")

	err := s.repo.Insert(s.ctx, domain.NewShipment(2, "ENV001", "Bea", "Calle 2", "Chaco"))
	s.ErrorIs(err, domain.ErrDuplicateShipment)

	err = s.repo.Insert(s.ctx, domain.NewShipment(1, "ENV777", "Bea", "Calle 2", "Chaco"))
	s.ErrorIs(err, domain.ErrDuplicateShipment)
}

func (s *ShipmentRepositoryIntegrationTestSuite) TestQueries() {
	s.insert(1, "Jose Perez", "Cordoba")
	time.Sleep(5 * time.Millisecond)
	s.insert(2, "Maria Jose", "Salta")
	time.Sleep(5 * time.Millisecond)
	s.insert(3, "Ana (Test)", "Salta")

	got, err := s.repo.FindByNameSubstring(s.ctx, "JOSE")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("ENV002", got[0].TrackingCode)

	got, err = s.repo.FindByNameSubstring(s.ctx, "(")
	s.Require().NoError(err)
	s.Len(got, 1, "regex metacharacters must be matched literally")

	got, err = s.repo.FindByDateRange(s.ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	s.Require().NoError(err)
	s.Len(got, 3)

	all, err := s.repo.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Equal("ENV003", all[0].TrackingCode)

	n, err := s.repo.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	p, err := s.repo.CountDistinctProvinces(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), p)
}

func (s *ShipmentRepositoryIntegrationTestSuite) TestUpdateStatus() {
	s.insert(1, "Ana", "Salta")

	s.Require().NoError(s.repo.UpdateStatus(s.ctx, "env001", domain.StatusInTransit))
	got, err := s.repo.FindByCode(s.ctx, "ENV001")
	s.Require().NoError(err)
	s.Equal(domain.StatusInTransit, got.Status)

	s.ErrorIs(s.repo.UpdateStatus(s.ctx, "ENV404", domain.StatusDelivered), domain.ErrShipmentNotFound)
}

func (s *ShipmentRepositoryIntegrationTestSuite) TestConcurrentInsertsOnSameCode() {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.repo.Insert(s.ctx, domain.NewShipment(1, "ENV001", "Ana", "Calle 1", "Salta")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(1, succeeded)
}

func TestShipmentRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ShipmentRepositoryIntegrationTestSuite))
}
