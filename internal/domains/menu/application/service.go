package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/menu/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

// Service orchestrates the menu bounded context: inventory administration and
// review aggregation.
type Service struct {
	repo  ports.Repository
	now   func() time.Time
	newID func() uuid.UUID
}

// NewService wires the menu service with its dependencies.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.New}
}

// WithClock overrides the time source used for created-at stamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// CreateItem adds a new item to the menu. Admin only.
func (s *Service) CreateItem(ctx context.Context, caller *identity.Identity, input types.CreateItemInput) (*domain.Item, error) {
	if err := identity.Authorize(caller, identity.RoleAdmin); err != nil {
		return nil, err
	}
	item, err := domain.NewItem(s.newID(), input.Name, input.Description, input.Price, input.Stock, domain.Category(input.Category))
	if err != nil {
		return nil, mapError(err)
	}
	item.UpdateImage(input.ImageURL)
	item.CreatedAt = s.now().UTC()
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateItem applies a partial mutation to an existing item. Admin only.
// Stock is written only when the input carries it, so deductions made by
// concurrent orders are never overwritten by an unrelated edit.
func (s *Service) UpdateItem(ctx context.Context, caller *identity.Identity, input types.UpdateItemInput) (*domain.Item, error) {
	if err := identity.Authorize(caller, identity.RoleAdmin); err != nil {
		return nil, err
	}
	item, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := applyPartialMutation(item, input); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	if input.Stock != nil {
		if saved, err = s.repo.SetStock(ctx, item.ID, *input.Stock); err != nil {
			return nil, mapError(err)
		}
	}
	return saved, nil
}

// DeleteItem removes an item from the menu. Admin only.
func (s *Service) DeleteItem(ctx context.Context, caller *identity.Identity, input types.ItemIdentifier) error {
	if err := identity.Authorize(caller, identity.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, input.ID); err != nil {
		return mapError(err)
	}
	return nil
}

// GetItem loads a single item.
func (s *Service) GetItem(ctx context.Context, input types.ItemIdentifier) (*domain.Item, error) {
	item, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

// ListItems returns the menu, optionally filtered by category or ids.
func (s *Service) ListItems(ctx context.Context, input types.ListItemsInput) ([]*domain.Item, error) {
	filter := ports.ListFilter{IDs: input.IDs}
	if input.Category != "" {
		filter.Category = domain.Category(input.Category)
		if !domain.IsValidCategory(filter.Category) {
			return nil, mapError(domain.ErrInvalidCategory)
		}
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// SubmitReview records the caller's review and returns the item with its
// recomputed rating. Each identity may review an item once.
func (s *Service) SubmitReview(ctx context.Context, caller *identity.Identity, input types.SubmitReviewInput) (*domain.Item, error) {
	if err := identity.Authorize(caller, identity.RoleUser); err != nil {
		return nil, err
	}
	review, err := domain.NewReview(caller.ID, caller.Name, input.Rating, input.Comment, s.now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	item, err := s.repo.AppendReview(ctx, input.ItemID, review)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

func applyPartialMutation(target *domain.Item, input types.UpdateItemInput) error {
	if input.Name != nil {
		if err := target.Rename(*input.Name); err != nil {
			return err
		}
	}
	if input.Description != nil {
		if err := target.Describe(*input.Description); err != nil {
			return err
		}
	}
	if input.Price != nil {
		if err := target.Reprice(*input.Price); err != nil {
			return err
		}
	}
	if input.Stock != nil {
		if err := target.SetStock(*input.Stock); err != nil {
			return err
		}
	}
	if input.Category != nil {
		if err := target.Recategorize(domain.Category(*input.Category)); err != nil {
			return err
		}
	}
	if input.ImageURL != nil {
		target.UpdateImage(*input.ImageURL)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
