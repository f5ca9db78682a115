package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// CollectionName is the collection holding orders with embedded lines.
const CollectionName = "orders"

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in MongoDB, one document per order.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository wires a MongoDB-backed repository on db.
func NewRepository(db *mongo.Database) *Repository {
	if db == nil {
		return &Repository{}
	}
	return &Repository{coll: db.Collection(CollectionName)}
}

type orderDocument struct {
	ID           string               `bson:"_id"`
	CustomerID   string               `bson:"customerId,omitempty"`
	CustomerName string               `bson:"customerName"`
	Lines        []lineDocument       `bson:"items"`
	Total        primitive.Decimal128 `bson:"totalAmount"`
	Status       string               `bson:"status"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

type lineDocument struct {
	ItemID    string               `bson:"foodItem"`
	Name      string               `bson:"name"`
	Quantity  int                  `bson:"quantity"`
	UnitPrice primitive.Decimal128 `bson:"price"`
}

func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	doc, err := toDocument(order)
	if err != nil {
		return nil, err
	}
	doc.UpdatedAt = time.Now().UTC()
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{})
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	if customerID == "" {
		return []*domain.Order{}, nil
	}
	return r.find(ctx, bson.M{"customerId": customerID})
}

func (r *Repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	filter := bson.M{"_id": id.String(), "status": string(from)}
	update := bson.M{"$set": bson.M{"status": string(to), "updatedAt": time.Now().UTC()}}
	var doc orderDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err == nil {
		return doc.toDomain()
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	count, err := r.coll.CountDocuments(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ports.ErrNotFound
	}
	return nil, ports.ErrStatusConflict
}

func (r *Repository) find(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		order, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *Repository) ensureColl() error {
	if r == nil || r.coll == nil {
		return errors.New("mongo order repository not configured")
	}
	return nil
}

func toDocument(order *domain.Order) (orderDocument, error) {
	total, err := primitive.ParseDecimal128(order.Total.String())
	if err != nil {
		return orderDocument{}, err
	}
	doc := orderDocument{
		ID:           order.ID.String(),
		CustomerID:   order.CustomerID,
		CustomerName: order.CustomerName,
		Total:        total,
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt,
	}
	for _, line := range order.Lines {
		price, err := primitive.ParseDecimal128(line.UnitPrice.String())
		if err != nil {
			return orderDocument{}, err
		}
		doc.Lines = append(doc.Lines, lineDocument{
			ItemID:    line.ItemID.String(),
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
	}
	return doc, nil
}

func (d orderDocument) toDomain() (*domain.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(d.Total.String())
	if err != nil {
		return nil, err
	}
	order := &domain.Order{
		ID:           id,
		CustomerID:   d.CustomerID,
		CustomerName: d.CustomerName,
		Total:        total,
		Status:       domain.Status(d.Status),
		CreatedAt:    d.CreatedAt,
	}
	for _, line := range d.Lines {
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(line.UnitPrice.String())
		if err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, domain.Line{
			ItemID:    itemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
	}
	return order, nil
}
