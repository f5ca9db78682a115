package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
)

func TestFromDomain_UnratedItemHasNullRating(t *testing.T) {
	item, err := domain.NewItem(uuid.New(), "Miso Soup", "Tofu, wakame", decimal.RequireFromString("3.50"), 8, domain.CategoryAppetizer)
	require.NoError(t, err)

	out := FromDomain(item)
	require.Nil(t, out.Rating)
	require.Equal(t, 0, out.NumReviews)
	require.Equal(t, "Appetizer", out.Category)
	require.Equal(t, domain.DefaultImageURL, out.Image)
	require.NotNil(t, out.Reviews)
}

func TestFromDomain_RatedItem(t *testing.T) {
	item, err := domain.NewItem(uuid.New(), "Miso Soup", "Tofu, wakame", decimal.RequireFromString("3.50"), 8, domain.CategoryAppetizer)
	require.NoError(t, err)
	review, err := domain.NewReview("u-1", "", 5, "great", time.Now())
	require.NoError(t, err)
	require.NoError(t, item.AddReview(review))

	out := FromDomain(item)
	require.NotNil(t, out.Rating)
	require.InDelta(t, 5.0, *out.Rating, 1e-9)
	require.Equal(t, domain.AnonymousReviewer, out.Reviews[0].Name)
}

func TestToUpdateInput_KeepsPresence(t *testing.T) {
	id := uuid.New()
	stock := 0
	input := ToUpdateInput(id, UpdateMenuItem{Stock: &stock})
	require.Equal(t, id, input.ID)
	require.NotNil(t, input.Stock)
	require.Nil(t, input.Name)
	require.Nil(t, input.Price)
}
