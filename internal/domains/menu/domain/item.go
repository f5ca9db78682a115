package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups menu items.
type Category string

const (
	CategoryMainCourse Category = "Main Course"
	CategoryAppetizer  Category = "Appetizer"
	CategoryDessert    Category = "Dessert"
	CategoryBeverage   Category = "Beverage"
)

const (
	MaxNameLength        = 50
	MaxDescriptionLength = 500
	DefaultImageURL      = "no-photo.jpg"
)

var (
	ErrEmptyName          = errors.New("item name is required")
	ErrNameTooLong        = errors.New("item name must be at most 50 characters")
	ErrEmptyDescription   = errors.New("item description is required")
	ErrDescriptionTooLong = errors.New("item description must be at most 500 characters")
	ErrInvalidPrice       = errors.New("item price must be greater or equal to zero")
	ErrNegativeStock      = errors.New("item stock must be greater or equal to zero")
	ErrInvalidCategory    = errors.New("item category is invalid")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// Item is the inventory aggregate: a sellable food item with its stock and reviews.
type Item struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    Category
	ImageURL    string
	Reviews     []Review
	Rating      Rating
	CreatedAt   time.Time
}

// NewItem validates the invariants and builds a new Item aggregate.
func NewItem(id uuid.UUID, name, description string, price decimal.Decimal, stock int, category Category) (*Item, error) {
	item := &Item{ID: id, ImageURL: DefaultImageURL}
	if err := item.Rename(name); err != nil {
		return nil, err
	}
	if err := item.Describe(description); err != nil {
		return nil, err
	}
	if err := item.Reprice(price); err != nil {
		return nil, err
	}
	if err := item.SetStock(stock); err != nil {
		return nil, err
	}
	if err := item.Recategorize(category); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces invariants on the aggregate.
func (i *Item) Validate() error {
	if err := validateName(i.Name); err != nil {
		return err
	}
	if err := validateDescription(i.Description); err != nil {
		return err
	}
	if i.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if i.Stock < 0 {
		return ErrNegativeStock
	}
	if !IsValidCategory(i.Category) {
		return ErrInvalidCategory
	}
	return nil
}

// Rename mutates the item name ensuring the invariant.
func (i *Item) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	i.Name = name
	return nil
}

// Describe replaces the item description.
func (i *Item) Describe(description string) error {
	description = strings.TrimSpace(description)
	if err := validateDescription(description); err != nil {
		return err
	}
	i.Description = description
	return nil
}

// Reprice sets a new unit price.
func (i *Item) Reprice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	i.Price = price
	return nil
}

// SetStock overwrites the stock count. Used by administrators only; orders go
// through ApplyStockDelta.
func (i *Item) SetStock(stock int) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	i.Stock = stock
	return nil
}

// Recategorize moves the item to another menu category.
func (i *Item) Recategorize(category Category) error {
	if !IsValidCategory(category) {
		return ErrInvalidCategory
	}
	i.Category = category
	return nil
}

// UpdateImage stores the image reference, falling back to the placeholder.
func (i *Item) UpdateImage(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		url = DefaultImageURL
	}
	i.ImageURL = url
}

// ApplyStockDelta adds delta to the stock. The item is left unchanged when the
// result would go negative.
func (i *Item) ApplyStockDelta(delta int) error {
	if i.Stock+delta < 0 {
		return ErrInsufficientStock
	}
	i.Stock += delta
	return nil
}

// HasReviewFrom reports whether reviewerID already reviewed the item.
func (i *Item) HasReviewFrom(reviewerID string) bool {
	for _, r := range i.Reviews {
		if r.ReviewerID == reviewerID {
			return true
		}
	}
	return false
}

// AddReview appends review and recomputes the aggregate from the full list.
func (i *Item) AddReview(review Review) error {
	if i.HasReviewFrom(review.ReviewerID) {
		return ErrDuplicateReview
	}
	i.Reviews = append(i.Reviews, review)
	i.RecomputeRating()
	return nil
}

// RecomputeRating recalculates the rating aggregate from every stored review.
func (i *Item) RecomputeRating() {
	i.Rating = AverageOf(i.Reviews)
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	copy := *i
	if len(i.Reviews) > 0 {
		copy.Reviews = append([]Review(nil), i.Reviews...)
	}
	return &copy
}

// IsValidCategory reports whether category is one of the known menu sections.
func IsValidCategory(category Category) bool {
	switch category {
	case CategoryMainCourse, CategoryAppetizer, CategoryDessert, CategoryBeverage:
		return true
	default:
		return false
	}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
