package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their lines in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID           uuid.UUID       `gorm:"primaryKey;column:id;type:uuid"`
	CustomerID   string          `gorm:"column:customer_id"`
	CustomerName string          `gorm:"column:customer_name"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	Status       string          `gorm:"column:status"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type lineRecord struct {
	ID        int64           `gorm:"primaryKey;column:id;autoIncrement"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid"`
	Position  int             `gorm:"column:position"`
	ItemID    uuid.UUID       `gorm:"column:item_id;type:uuid"`
	Name      string          `gorm:"column:name"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2)"`
}

func (lineRecord) TableName() string { return "order_lines" }

// Save inserts or updates an order together with its lines.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record, lines := toRecords(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"customer_id":   record.CustomerID,
				"customer_name": record.CustomerName,
				"total":         record.Total,
				"status":        record.Status,
				"updated_at":    gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", record.ID).Delete(&lineRecord{}).Error; err != nil {
			return err
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	var record orderRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var lines []lineRecord
	if err := db.Where("order_id = ?", id).Order("position ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return record.toDomain(lines), nil
}

// List returns all orders, newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.db.WithContext(ctx))
}

// ListByCustomer returns the orders placed by one customer, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customerID == "" {
		return []*domain.Order{}, nil
	}
	return r.find(ctx, r.db.WithContext(ctx).Where("customer_id = ?", customerID))
}

// TransitionStatus updates the status only while it still equals from.
func (r *Repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	result := db.Model(&orderRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&orderRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrStatusConflict
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) find(ctx context.Context, query *gorm.DB) ([]*domain.Order, error) {
	var records []orderRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []*domain.Order{}, nil
	}
	ids := make([]uuid.UUID, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	var lines []lineRecord
	if err := r.db.WithContext(ctx).Where("order_id IN ?", ids).Order("position ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[uuid.UUID][]lineRecord, len(records))
	for _, line := range lines {
		byOrder[line.OrderID] = append(byOrder[line.OrderID], line)
	}
	orders := make([]*domain.Order, 0, len(records))
	for _, rec := range records {
		orders = append(orders, rec.toDomain(byOrder[rec.ID]))
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecords(order *domain.Order) (orderRecord, []lineRecord) {
	record := orderRecord{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		CustomerName: order.CustomerName,
		Total:        order.Total,
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt,
	}
	lines := make([]lineRecord, 0, len(order.Lines))
	for i, line := range order.Lines {
		lines = append(lines, lineRecord{
			OrderID:   order.ID,
			Position:  i,
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return record, lines
}

func (r orderRecord) toDomain(lines []lineRecord) *domain.Order {
	order := &domain.Order{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		Total:        r.Total,
		Status:       domain.Status(r.Status),
		CreatedAt:    r.CreatedAt,
	}
	for _, line := range lines {
		order.Lines = append(order.Lines, domain.Line{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return order
}
