package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory inventory store. A single mutex makes every
// per-item read-check-write atomic.
type Repository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domain.Item
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{items: map[uuid.UUID]*domain.Item{}}
}

func (r *Repository) Save(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, errors.New("cannot save nil item")
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	clone := item.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[clone.ID]; ok {
		// stock only changes through AdjustStock and SetStock, reviews through AppendReview
		clone.Stock = existing.Stock
		clone.Reviews = append([]domain.Review(nil), existing.Reviews...)
		clone.RecomputeRating()
		if clone.CreatedAt.IsZero() {
			clone.CreatedAt = existing.CreatedAt
		}
	}
	r.items[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return item.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Item, error) {
	var wanted map[uuid.UUID]struct{}
	if len(filter.IDs) > 0 {
		wanted = make(map[uuid.UUID]struct{}, len(filter.IDs))
		for _, id := range filter.IDs {
			wanted[id] = struct{}{}
		}
	}
	r.mu.RLock()
	list := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[item.ID]; !ok {
				continue
			}
		}
		list = append(list, item.Clone())
	}
	r.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Name < list[j].Name
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *Repository) AdjustStock(_ context.Context, id uuid.UUID, delta int) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := item.ApplyStockDelta(delta); err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

func (r *Repository) SetStock(_ context.Context, id uuid.UUID, stock int) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := item.SetStock(stock); err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

func (r *Repository) AppendReview(_ context.Context, id uuid.UUID, review domain.Review) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := item.AddReview(review); err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

func (r *Repository) RecomputeRating(_ context.Context, id uuid.UUID) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	item.RecomputeRating()
	return item.Clone(), nil
}
