// Package seeder loads menu fixtures from YAML and creates the items through
// the menu service.
package seeder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	menutypes "github.com/Apurer/go-gin-storefront/internal/domains/menu/application/types"
	menudomain "github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	menuports "github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

// Fixture is the root of a menu YAML file.
type Fixture struct {
	Items []FixtureItem `yaml:"items"`
}

// FixtureItem describes one menu item. Price is kept as text so it parses
// into an exact decimal.
type FixtureItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Stock       int    `yaml:"stock"`
	Category    string `yaml:"category"`
	Image       string `yaml:"image,omitempty"`
}

// Report summarizes a seeding run.
type Report struct {
	Created []string
	Skipped []string
}

// Operator is the identity the seeder acts as.
var Operator = &identity.Identity{ID: "menu-seeder", Name: "Menu Seeder", Role: identity.RoleAdmin}

// LoadFile loads and parses a YAML fixture from the given path.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu fixture %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML data into a Fixture.
func Parse(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse menu fixture: %w", err)
	}
	applyDefaults(&fixture)
	return &fixture, nil
}

func applyDefaults(fixture *Fixture) {
	for i := range fixture.Items {
		item := &fixture.Items[i]
		item.Name = strings.TrimSpace(item.Name)
		if item.Category == "" {
			item.Category = string(menudomain.CategoryMainCourse)
		}
		if item.Image == "" {
			item.Image = menudomain.DefaultImageURL
		}
	}
}

// Seed creates every fixture item whose name is not already on the menu.
// Names compare case-insensitively so reruns are harmless.
func Seed(ctx context.Context, menu menuports.Service, fixture *Fixture) (Report, error) {
	var report Report
	if fixture == nil {
		return report, nil
	}
	existing, err := menu.ListItems(ctx, menutypes.ListItemsInput{})
	if err != nil {
		return report, fmt.Errorf("failed to list menu: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		seen[strings.ToLower(item.Name)] = struct{}{}
	}
	for _, item := range fixture.Items {
		key := strings.ToLower(item.Name)
		if _, ok := seen[key]; ok {
			report.Skipped = append(report.Skipped, item.Name)
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(item.Price))
		if err != nil {
			return report, fmt.Errorf("item %q: invalid price %q: %w", item.Name, item.Price, err)
		}
		if _, err := menu.CreateItem(ctx, Operator, menutypes.CreateItemInput{
			Name:        item.Name,
			Description: item.Description,
			Price:       price,
			Stock:       item.Stock,
			Category:    item.Category,
			ImageURL:    item.Image,
		}); err != nil {
			return report, fmt.Errorf("item %q: %w", item.Name, err)
		}
		seen[key] = struct{}{}
		report.Created = append(report.Created, item.Name)
	}
	return report, nil
}
