package seeder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	menumemory "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/memory"
	menuapp "github.com/Apurer/go-gin-storefront/internal/domains/menu/application"
	menutypes "github.com/Apurer/go-gin-storefront/internal/domains/menu/application/types"
)

const fixtureYAML = `
items:
  - name: Margherita
    description: Tomato, mozzarella and basil
    price: "11.90"
    stock: 12
  - name: Tiramisu
    description: Mascarpone and espresso
    price: 6.5
    stock: 4
    category: Dessert
    image: tiramisu.jpg
`

func TestParse_AppliesDefaults(t *testing.T) {
	fixture, err := Parse([]byte(fixtureYAML))
	require.NoError(t, err)
	require.Len(t, fixture.Items, 2)

	require.Equal(t, "Main Course", fixture.Items[0].Category)
	require.Equal(t, "no-photo.jpg", fixture.Items[0].Image)
	require.Equal(t, "6.5", fixture.Items[1].Price)
	require.Equal(t, "tiramisu.jpg", fixture.Items[1].Image)
}

func TestParse_RejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("items: [name: {"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o600))

	fixture, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, fixture.Items, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSeed_SkipsExistingNames(t *testing.T) {
	ctx := context.Background()
	service := menuapp.NewService(menumemory.NewRepository())
	fixture, err := Parse([]byte(fixtureYAML))
	require.NoError(t, err)

	report, err := Seed(ctx, service, fixture)
	require.NoError(t, err)
	require.Equal(t, []string{"Margherita", "Tiramisu"}, report.Created)
	require.Empty(t, report.Skipped)

	fixture.Items[0].Name = "MARGHERITA"
	report, err = Seed(ctx, service, fixture)
	require.NoError(t, err)
	require.Empty(t, report.Created)
	require.Equal(t, []string{"MARGHERITA", "Tiramisu"}, report.Skipped)

	items, err := service.ListItems(ctx, menutypes.ListItemsInput{})
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestSeed_ReportsInvalidItems(t *testing.T) {
	ctx := context.Background()
	service := menuapp.NewService(menumemory.NewRepository())

	_, err := Seed(ctx, service, &Fixture{Items: []FixtureItem{{Name: "Soup", Description: "Hot", Price: "abc", Category: "Appetizer"}}})
	require.ErrorContains(t, err, "invalid price")

	_, err = Seed(ctx, service, &Fixture{Items: []FixtureItem{{Name: "Soup", Description: "Hot", Price: "3", Stock: -1, Category: "Appetizer"}}})
	require.ErrorIs(t, err, menuapp.ErrInvalidInput)
}
