package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// IdempotencyCollectionName holds one document per checkout key.
const IdempotencyCollectionName = "order_idempotency_keys"

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists checkout keys in MongoDB, keyed by _id.
type IdempotencyStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewIdempotencyStore wires a MongoDB-backed idempotency store.
func NewIdempotencyStore(db *mongo.Database) *IdempotencyStore {
	store := &IdempotencyStore{now: time.Now}
	if db != nil {
		store.coll = db.Collection(IdempotencyCollectionName)
	}
	return store
}

type idempotencyDocument struct {
	Key         string    `bson:"_id"`
	RequestHash string    `bson:"requestHash"`
	OrderID     string    `bson:"orderId"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// Get loads a record by key, returning nil when absent.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureColl(); err != nil {
		return nil, err
	}
	var doc idempotencyDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toPort()
}

// Save inserts the record, falling back to the stored one on a duplicate key.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureColl(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	doc := idempotencyDocument{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID.String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
		existing, getErr := s.Get(ctx, record.Key)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, err
		}
		if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
			return existing, ports.ErrIdempotencyConflict
		}
		return existing, nil
	}
	return doc.toPort()
}

func (s *IdempotencyStore) ensureColl() error {
	if s == nil || s.coll == nil {
		return errors.New("mongo idempotency store not configured")
	}
	return nil
}

func (d idempotencyDocument) toPort() (*ports.IdempotencyRecord, error) {
	orderID, err := uuid.Parse(d.OrderID)
	if err != nil {
		return nil, err
	}
	return &ports.IdempotencyRecord{
		Key:         d.Key,
		RequestHash: d.RequestHash,
		OrderID:     orderID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}
