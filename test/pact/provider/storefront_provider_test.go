//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"
	"github.com/Apurer/go-gin-storefront/internal/app/api"
	"github.com/Apurer/go-gin-storefront/internal/app/storage"
	menudomain "github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	pacttest "github.com/Apurer/go-gin-storefront/test/pact"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateMenuItemExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedItem(t, pacttest.ExampleStock)
			}
			return nil, nil
		},
		pacttest.StateMenuItemLow: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedItem(t, pacttest.LowStock)
			}
			return nil, nil
		},
		pacttest.StateMenuItemMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves a freshly wired API per provider state.
type contractProviderApp struct {
	mu     sync.RWMutex
	repos  storage.Repositories
	router *gin.Engine
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	repos := storage.Memory()
	router := gin.New()
	router.Use(gin.Recovery())
	storefrontserver.NewRouterWithGinEngine(router, api.BuildHandlers(repos, nil, api.DevJWTSecret, nil))

	a.mu.Lock()
	defer a.mu.Unlock()
	a.repos = repos
	a.router = router
}

func (a *contractProviderApp) seedItem(t testing.TB, stock int) {
	t.Helper()
	item, err := menudomain.NewItem(
		pacttest.ExistingItemID,
		pacttest.ExampleItemName,
		"Tonkotsu broth",
		decimal.RequireFromString(pacttest.ExampleItemPrice),
		stock,
		menudomain.CategoryMainCourse,
	)
	require.NoError(t, err)
	a.mu.RLock()
	repo := a.repos.Menu
	a.mu.RUnlock()
	_, err = repo.Save(context.Background(), item)
	require.NoError(t, err)
}
