package mapper

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	menutypes "github.com/Apurer/go-gin-storefront/internal/domains/menu/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
)

// Review is the HTTP representation of an item review.
type Review struct {
	ReviewerID string    `json:"reviewerId"`
	Name       string    `json:"name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MenuItem is the HTTP representation of a menu item. Rating is null while
// the item has no reviews.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      *float64        `json:"rating"`
	NumReviews  int             `json:"numReviews"`
	Reviews     []Review        `json:"reviews"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CreateMenuItem is the inbound payload for adding an item.
type CreateMenuItem struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Image       string          `json:"image,omitempty"`
}

// UpdateMenuItem preserves field presence for partial updates.
type UpdateMenuItem struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Image       *string          `json:"image,omitempty"`
}

// SubmitReview is the inbound review payload.
type SubmitReview struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ToCreateInput converts the transport payload into the application input.
func ToCreateInput(payload CreateMenuItem) menutypes.CreateItemInput {
	return menutypes.CreateItemInput{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		Category:    payload.Category,
		ImageURL:    payload.Image,
	}
}

// ToUpdateInput converts the partial payload for the item with the given id.
func ToUpdateInput(id uuid.UUID, payload UpdateMenuItem) menutypes.UpdateItemInput {
	return menutypes.UpdateItemInput{
		ID:          id,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		Category:    payload.Category,
		ImageURL:    payload.Image,
	}
}

// FromDomain maps a domain item onto its transport form.
func FromDomain(item *domain.Item) MenuItem {
	if item == nil {
		return MenuItem{}
	}
	out := MenuItem{
		ID:          item.ID.String(),
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Stock:       item.Stock,
		Category:    string(item.Category),
		Image:       item.ImageURL,
		NumReviews:  item.Rating.Count,
		Reviews:     make([]Review, 0, len(item.Reviews)),
		CreatedAt:   item.CreatedAt,
	}
	if !item.Rating.Unrated() {
		average := item.Rating.Average
		out.Rating = &average
	}
	for _, review := range item.Reviews {
		out.Reviews = append(out.Reviews, Review{
			ReviewerID: review.ReviewerID,
			Name:       review.ReviewerName,
			Rating:     review.Rating,
			Comment:    review.Comment,
			CreatedAt:  review.CreatedAt,
		})
	}
	return out
}

// FromDomainList maps a list of domain items.
func FromDomainList(items []*domain.Item) []MenuItem {
	result := make([]MenuItem, 0, len(items))
	for _, item := range items {
		result = append(result, FromDomain(item))
	}
	return result
}
