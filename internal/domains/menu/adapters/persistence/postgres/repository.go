package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists menu items and their reviews in PostgreSQL using GORM.
// Stock changes are single conditional UPDATEs; review appends lock the item
// row for the duration of the insert and the rating recompute.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Schema is managed by migrations.Run.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type itemRecord struct {
	ID            uuid.UUID       `gorm:"primaryKey;column:id;type:uuid"`
	Name          string          `gorm:"column:name"`
	Description   string          `gorm:"column:description"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2)"`
	Stock         int             `gorm:"column:stock"`
	Category      string          `gorm:"column:category"`
	ImageURL      string          `gorm:"column:image_url"`
	AverageRating float64         `gorm:"column:average_rating"`
	ReviewCount   int             `gorm:"column:review_count"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (itemRecord) TableName() string { return "items" }

type reviewRecord struct {
	ID           int64     `gorm:"primaryKey;column:id;autoIncrement"`
	ItemID       uuid.UUID `gorm:"column:item_id;type:uuid"`
	ReviewerID   string    `gorm:"column:reviewer_id"`
	ReviewerName string    `gorm:"column:reviewer_name"`
	Rating       int       `gorm:"column:rating"`
	Comment      string    `gorm:"column:comment"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (reviewRecord) TableName() string { return "item_reviews" }

// Save inserts or updates the item row. Stock of an existing row is left to
// AdjustStock and SetStock; reviews and the rating aggregate are only written
// through AppendReview.
func (r *Repository) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("item is nil")
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(item)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"description": record.Description,
				"price":       record.Price,
				"category":    record.Category,
				"image_url":   record.ImageURL,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// SetStock overwrites the stock count of an existing item.
func (r *Repository) SetStock(ctx context.Context, id uuid.UUID, stock int) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, domain.ErrNegativeStock
	}
	result := r.db.WithContext(ctx).Model(&itemRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"stock": stock, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches an item with its reviews.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return loadItem(r.db.WithContext(ctx), id)
}

// Delete removes an item and its reviews.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&reviewRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&itemRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

// List returns items matching filter, oldest first.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&itemRecord{})
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}
	if len(filter.IDs) > 0 {
		ids := make(pq.StringArray, 0, len(filter.IDs))
		for _, id := range filter.IDs {
			ids = append(ids, id.String())
		}
		query = query.Where("id = ANY(?::uuid[])", ids)
	}
	var records []itemRecord
	if err := query.Order("created_at ASC, name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []*domain.Item{}, nil
	}

	itemIDs := make([]uuid.UUID, 0, len(records))
	for _, rec := range records {
		itemIDs = append(itemIDs, rec.ID)
	}
	var reviews []reviewRecord
	if err := r.db.WithContext(ctx).Where("item_id IN ?", itemIDs).Order("created_at ASC, id ASC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	byItem := make(map[uuid.UUID][]reviewRecord, len(records))
	for _, rev := range reviews {
		byItem[rev.ItemID] = append(byItem[rev.ItemID], rev)
	}

	items := make([]*domain.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.toDomain(byItem[rec.ID]))
	}
	return items, nil
}

// AdjustStock applies delta in one conditional UPDATE so concurrent callers
// can never drive stock below zero.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	result := db.Model(&itemRecord{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&itemRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, domain.ErrInsufficientStock
	}
	return loadItem(db, id)
}

// AppendReview inserts the review and rewrites the rating aggregate while
// holding the item row lock.
func (r *Repository) AppendReview(ctx context.Context, id uuid.UUID, review domain.Review) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var item *domain.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockItem(tx, id); err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&reviewRecord{}).
			Where("item_id = ? AND reviewer_id = ?", id, review.ReviewerID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrDuplicateReview
		}
		record := reviewRecord{
			ItemID:       id,
			ReviewerID:   review.ReviewerID,
			ReviewerName: review.ReviewerName,
			Rating:       review.Rating,
			Comment:      review.Comment,
			CreatedAt:    review.CreatedAt,
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateReview
			}
			return err
		}
		var err error
		item, err = recompute(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RecomputeRating recalculates the stored aggregate from every review row.
func (r *Repository) RecomputeRating(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var item *domain.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockItem(tx, id); err != nil {
			return err
		}
		var err error
		item, err = recompute(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres menu repository not configured")
	}
	return nil
}

func lockItem(tx *gorm.DB, id uuid.UUID) error {
	var record itemRecord
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ErrNotFound
		}
		return err
	}
	return nil
}

func recompute(tx *gorm.DB, id uuid.UUID) (*domain.Item, error) {
	item, err := loadItem(tx, id)
	if err != nil {
		return nil, err
	}
	item.RecomputeRating()
	if err := tx.Model(&itemRecord{}).Where("id = ?", id).Updates(map[string]any{
		"average_rating": item.Rating.Average,
		"review_count":   item.Rating.Count,
		"updated_at":     gorm.Expr("NOW()"),
	}).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func loadItem(db *gorm.DB, id uuid.UUID) (*domain.Item, error) {
	var record itemRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var reviews []reviewRecord
	if err := db.Where("item_id = ?", id).Order("created_at ASC, id ASC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return record.toDomain(reviews), nil
}

func toRecord(item *domain.Item) itemRecord {
	return itemRecord{
		ID:            item.ID,
		Name:          item.Name,
		Description:   item.Description,
		Price:         item.Price,
		Stock:         item.Stock,
		Category:      string(item.Category),
		ImageURL:      item.ImageURL,
		AverageRating: item.Rating.Average,
		ReviewCount:   item.Rating.Count,
		CreatedAt:     item.CreatedAt,
	}
}

func (r itemRecord) toDomain(reviews []reviewRecord) *domain.Item {
	item := &domain.Item{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    domain.Category(r.Category),
		ImageURL:    r.ImageURL,
		Rating:      domain.Rating{Average: r.AverageRating, Count: r.ReviewCount},
		CreatedAt:   r.CreatedAt,
	}
	for _, rev := range reviews {
		item.Reviews = append(item.Reviews, domain.Review{
			ReviewerID:   rev.ReviewerID,
			ReviewerName: rev.ReviewerName,
			Rating:       rev.Rating,
			Comment:      rev.Comment,
			CreatedAt:    rev.CreatedAt,
		})
	}
	return item
}
