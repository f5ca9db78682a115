package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"
	"github.com/Apurer/go-gin-storefront/internal/app/storage"
	menuobs "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/observability"
	menuapp "github.com/Apurer/go-gin-storefront/internal/domains/menu/application"
	orderobs "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/auth"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-storefront/internal/platform/temporal"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API with observability, repositories, and workflows wired.
// It blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	if cfg.UsesDevSecret() {
		logger.Warn("JWT_SECRET not set, verifying tokens with the development secret")
	}

	repos, cleanupRepos := storage.Open(ctx, storage.Options{
		PostgresDSN:   cfg.PostgresDSN,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	}, logger)
	defer cleanupRepos()

	checkout, closeCheckout := buildCheckout(cfg, instruments)
	defer closeCheckout()

	handlers := BuildHandlers(repos, checkout, cfg.JWTSecret, instruments)
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	storefrontserver.NewRouterWithGinEngine(router, handlers)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", server.Addr), slog.String("storage", repos.Backend))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("storefront API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down storefront API")
		return server.Shutdown(shutdownCtx)
	}
}

// BuildHandlers wires the decorated menu and order services onto the HTTP
// handlers. A nil checkout runs payment confirmation inline.
func BuildHandlers(repos storage.Repositories, checkout orderports.WorkflowOrchestrator, jwtSecret string, instruments *platformobservability.Instruments) storefrontserver.ApiHandleFunctions {
	logger := slog.Default()
	if instruments != nil && instruments.Logger != nil {
		logger = instruments.Logger
	}
	menuService := menuobs.New(
		menuapp.NewService(repos.Menu),
		menuobs.WithLogger(logger),
		menuobs.WithTracer(instruments.Tracer("internal.menu.application")),
		menuobs.WithMeter(instruments.Meter("internal.menu.application")),
	)
	coreOrders := orderapp.NewService(repos.Orders, repos.Menu).
		WithCompensationObserver(orderobs.NewCompensationObserver(logger, instruments.Meter("internal.orders.application"))).
		WithIdempotencyStore(repos.Idempotency)
	orderService := orderobs.New(
		coreOrders,
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	if checkout == nil {
		checkout = orderworkflows.NewInlineCheckout(orderService, orderports.AlwaysConfirm)
	}
	return storefrontserver.ApiHandleFunctions{
		MenuAPI:       storefrontserver.NewMenuAPI(menuService),
		OrdersAPI:     storefrontserver.NewOrdersAPI(orderService, checkout),
		Authenticator: auth.NewVerifier(jwtSecret).Middleware(),
	}
}

// buildCheckout returns the Temporal-backed checkout when the frontend is
// reachable, or nil so BuildHandlers falls back to inline checkout.
func buildCheckout(cfg Config, instruments *platformobservability.Instruments) (orderports.WorkflowOrchestrator, func()) {
	logger := instruments.Logger
	temporalClient, err := platformtemporal.Dial(platformtemporal.DialOptions{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, instruments)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running inline checkout", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return orderworkflows.NewTemporalCheckout(temporalClient), temporalClient.Close
}
