//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-cart"

	StateMenuItemExists  = "menu item 7d3f0b5e exists with stock"
	StateMenuItemMissing = "no menu item 00000000-0000-4000-8000-000000000404"
	StateMenuItemLow     = "menu item 7d3f0b5e has one portion left"
)

var (
	ExistingItemID = uuid.MustParse("7d3f0b5e-2c4a-4e7b-9a51-0f8a7c1d2e31")
	MissingItemID  = uuid.MustParse("00000000-0000-4000-8000-000000000404")
)

const (
	ExampleItemName  = "Pact Ramen"
	ExampleItemPrice = "12.5"
	ExampleStock     = 10
	LowStock         = 1
	ExampleCustomer  = "Pact Customer"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the cart consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
