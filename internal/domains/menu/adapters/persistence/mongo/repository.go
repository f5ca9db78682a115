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

	"github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
)

// CollectionName is the collection holding menu items with embedded reviews.
const CollectionName = "items"

var _ ports.Repository = (*Repository)(nil)

// Repository persists menu items in MongoDB. Reviews are embedded, so every
// mutation is a single-document update and therefore atomic.
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

type itemDocument struct {
	ID            string               `bson:"_id"`
	Name          string               `bson:"name"`
	Description   string               `bson:"description"`
	Price         primitive.Decimal128 `bson:"price"`
	Stock         int                  `bson:"stock"`
	Category      string               `bson:"category"`
	ImageURL      string               `bson:"imageUrl"`
	Reviews       []reviewDocument     `bson:"reviews"`
	AverageRating float64              `bson:"averageRating"`
	ReviewCount   int                  `bson:"reviewCount"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

type reviewDocument struct {
	ReviewerID   string    `bson:"reviewerId"`
	ReviewerName string    `bson:"name"`
	Rating       int       `bson:"rating"`
	Comment      string    `bson:"comment"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// recomputeStage rewrites the aggregate from the embedded review list.
var recomputeStage = bson.D{{Key: "$set", Value: bson.D{
	{Key: "averageRating", Value: bson.D{{Key: "$ifNull", Value: bson.A{bson.D{{Key: "$avg", Value: "$reviews.rating"}}, 0}}}},
	{Key: "reviewCount", Value: bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$reviews", bson.A{}}}}}}},
	{Key: "updatedAt", Value: "$$NOW"},
}}}

// Save upserts the item fields. Stock, reviews and the aggregate are only
// written when the document is inserted.
func (r *Repository) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("item is nil")
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	price, err := primitive.ParseDecimal128(item.Price.String())
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: item.Name},
			{Key: "description", Value: item.Description},
			{Key: "price", Value: price},
			{Key: "category", Value: string(item.Category)},
			{Key: "imageUrl", Value: item.ImageURL},
			{Key: "updatedAt", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "stock", Value: item.Stock},
			{Key: "reviews", Value: bson.A{}},
			{Key: "averageRating", Value: 0.0},
			{Key: "reviewCount", Value: 0},
			{Key: "createdAt", Value: createdAt},
		}},
	}
	if _, err := r.coll.UpdateByID(ctx, item.ID.String(), update, options.Update().SetUpsert(true)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, item.ID)
}

// SetStock overwrites the stock count of an existing item.
func (r *Repository) SetStock(ctx context.Context, id uuid.UUID, stock int) (*domain.Item, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, domain.ErrNegativeStock
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "stock", Value: stock},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}
	result, err := r.coll.UpdateByID(ctx, id.String(), update)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	var doc itemDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ensureColl(); err != nil {
		return err
	}
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Item, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if len(filter.IDs) > 0 {
		ids := make([]string, 0, len(filter.IDs))
		for _, id := range filter.IDs {
			ids = append(ids, id.String())
		}
		query["_id"] = bson.M{"$in": ids}
	}
	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []itemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]*domain.Item, 0, len(docs))
	for i := range docs {
		item, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// AdjustStock increments stock by delta only when the result stays non-negative.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Item, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	filter := bson.M{"_id": id.String(), "stock": bson.M{"$gte": -delta}}
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, id, filter, update, domain.ErrInsufficientStock)
}

// AppendReview pushes the review and recomputes the aggregate in one
// pipeline update; the filter rejects a second review from the same reviewer.
func (r *Repository) AppendReview(ctx context.Context, id uuid.UUID, review domain.Review) (*domain.Item, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	doc := reviewDocument{
		ReviewerID:   review.ReviewerID,
		ReviewerName: review.ReviewerName,
		Rating:       review.Rating,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt,
	}
	filter := bson.M{"_id": id.String(), "reviews.reviewerId": bson.M{"$ne": review.ReviewerID}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "reviews", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$reviews", bson.A{}}}},
			bson.A{bson.D{{Key: "$literal", Value: doc}}},
		}}}}}}},
		recomputeStage,
	}
	return r.findOneAndUpdate(ctx, id, filter, pipeline, domain.ErrDuplicateReview)
}

func (r *Repository) RecomputeRating(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"_id": id.String()}, mongo.Pipeline{recomputeStage}, ports.ErrNotFound)
}

// findOneAndUpdate applies update and returns the new document. When the
// filter matches nothing, it reports ErrNotFound for a missing item and
// rejected otherwise.
func (r *Repository) findOneAndUpdate(ctx context.Context, id uuid.UUID, filter, update any, rejected error) (*domain.Item, error) {
	var doc itemDocument
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
	return nil, rejected
}

func (r *Repository) ensureColl() error {
	if r == nil || r.coll == nil {
		return errors.New("mongo menu repository not configured")
	}
	return nil
}

func (d itemDocument) toDomain() (*domain.Item, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, err
	}
	item := &domain.Item{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Stock:       d.Stock,
		Category:    domain.Category(d.Category),
		ImageURL:    d.ImageURL,
		Rating:      domain.Rating{Average: d.AverageRating, Count: d.ReviewCount},
		CreatedAt:   d.CreatedAt,
	}
	for _, rev := range d.Reviews {
		item.Reviews = append(item.Reviews, domain.Review{
			ReviewerID:   rev.ReviewerID,
			ReviewerName: rev.ReviewerName,
			Rating:       rev.Rating,
			Comment:      rev.Comment,
			CreatedAt:    rev.CreatedAt,
		})
	}
	return item, nil
}
