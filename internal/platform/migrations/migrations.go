package migrations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the storefront schema. Adapters rely on it instead of migrating on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&itemRecord{},
		&reviewRecord{},
		&orderRecord{},
		&orderLineRecord{},
		&orderIdempotencyRecord{},
	)
}

// Item schema mirrors the menu Postgres adapter.
type itemRecord struct {
	ID            uuid.UUID       `gorm:"primaryKey;column:id;type:uuid"`
	Name          string          `gorm:"column:name;size:50;not null"`
	Description   string          `gorm:"column:description;size:500;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock         int             `gorm:"column:stock;not null;check:chk_items_stock_non_negative,stock >= 0"`
	Category      string          `gorm:"column:category;type:varchar(32);index"`
	ImageURL      string          `gorm:"column:image_url"`
	AverageRating float64         `gorm:"column:average_rating;not null;default:0"`
	ReviewCount   int             `gorm:"column:review_count;not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (itemRecord) TableName() string { return "items" }

// Review schema mirrors the menu Postgres adapter. One review per reviewer and item.
type reviewRecord struct {
	ID           int64     `gorm:"primaryKey;column:id;autoIncrement"`
	ItemID       uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_item_reviews_item_reviewer"`
	ReviewerID   string    `gorm:"column:reviewer_id;not null;uniqueIndex:idx_item_reviews_item_reviewer"`
	ReviewerName string    `gorm:"column:reviewer_name"`
	Rating       int       `gorm:"column:rating;not null;check:chk_item_reviews_rating,rating BETWEEN 1 AND 5"`
	Comment      string    `gorm:"column:comment;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (reviewRecord) TableName() string { return "item_reviews" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID           uuid.UUID       `gorm:"primaryKey;column:id;type:uuid"`
	CustomerID   string          `gorm:"column:customer_id;index"`
	CustomerName string          `gorm:"column:customer_name;not null"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	Status       string          `gorm:"column:status;type:varchar(16);index"`
	CreatedAt    time.Time       `gorm:"column:created_at;index"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order line schema mirrors the orders Postgres adapter.
type orderLineRecord struct {
	ID        int64           `gorm:"primaryKey;column:id;autoIncrement"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	Position  int             `gorm:"column:position;not null"`
	ItemID    uuid.UUID       `gorm:"column:item_id;type:uuid;not null"`
	Name      string          `gorm:"column:name"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// Checkout idempotency keys mirror the orders Postgres idempotency store.
type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }
