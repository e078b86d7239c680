package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
)

const collectionShipments = "shipments"

var _ ports.ShipmentRepository = (*ShipmentRepository)(nil)

type ShipmentRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewShipmentRepository(db *mongo.Database) *ShipmentRepository {
	return &ShipmentRepository{
		col: db.Collection(collectionShipments),
		// Mongo stores milliseconds; truncate so the returned value matches.
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Insert stores s under its numeric id. The unique index on tracking_code and
// the _id key turn a lost race into ErrDuplicateShipment.
func (r *ShipmentRepository) Insert(ctx context.Context, s *domain.Shipment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ts := r.now()
	s.CreatedAt, s.UpdatedAt = ts, ts
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return mapError(err)
	}
	return nil
}

// FindByCode matches the tracking code case-insensitively. Codes are stored
// upper-cased, so the lookup upper-cases its input.
func (r *ShipmentRepository) FindByCode(ctx context.Context, code string) (*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Shipment
	err := r.col.FindOne(ctx, bson.M{"tracking_code": upper(code)}).Decode(&s)
	if err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

func (r *ShipmentRepository) FindByNameSubstring(ctx context.Context, name string) ([]*domain.Shipment, error) {
	filter := bson.M{"customer_name": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}}
	return r.findMany(ctx, filter)
}

func (r *ShipmentRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Shipment, error) {
	filter := bson.M{"created_at": bson.M{"$gte": start.UTC(), "$lte": end.UTC()}}
	return r.findMany(ctx, filter)
}

func (r *ShipmentRepository) ListAll(ctx context.Context) ([]*domain.Shipment, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *ShipmentRepository) findMany(ctx context.Context, filter bson.M) ([]*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(err)
	}

	shipments := []*domain.Shipment{}
	if err := cur.All(ctx, &shipments); err != nil {
		return nil, mapError(err)
	}
	return shipments, nil
}

func (r *ShipmentRepository) UpdateStatus(ctx context.Context, code string, status domain.ShipmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": r.now()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"tracking_code": upper(code)}, update)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrShipmentNotFound
	}
	return nil
}

// MaxID reads the highest _id, 0 on an empty collection.
func (r *ShipmentRepository) MaxID(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var last struct {
		ID int64 `bson:"_id"`
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}}).SetProjection(bson.M{"_id": 1})
	err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, mapError(err)
	}
	return last.ID, nil
}

func (r *ShipmentRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (r *ShipmentRepository) CountDistinctProvinces(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.col.Distinct(ctx, "province", bson.M{})
	if err != nil {
		return 0, mapError(err)
	}
	return int64(len(values)), nil
}

// EnsureIndexes creates necessary indexes on the shipments collection.
func (r *ShipmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tracking_code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "province", Value: 1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

// Ping reports whether the server answers; used by the readiness probe.
func (r *ShipmentRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrShipmentNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", domain.ErrDuplicateShipment, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrRepositoryUnavailable, err)
	}
}

func upper(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
