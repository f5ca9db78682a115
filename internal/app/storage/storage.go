// Package storage selects the persistence backend shared by the API and the
// checkout worker: Postgres when a DSN is configured, then MongoDB, then memory.
package storage

import (
	"context"
	"log/slog"

	menumemory "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/memory"
	menumongo "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/persistence/mongo"
	menupostgres "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/persistence/postgres"
	menuports "github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
	ordermemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	ordermongo "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/persistence/mongo"
	orderpostgres "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/persistence/postgres"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	platformmongo "github.com/Apurer/go-gin-storefront/internal/platform/mongo"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
)

// Backend names reported by Open.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Options carries the connection settings considered by Open.
type Options struct {
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string
}

// Repositories groups the adapters of one backend.
type Repositories struct {
	Backend     string
	Menu        menuports.Repository
	Orders      orderports.Repository
	Idempotency orderports.IdempotencyStore
}

// Open connects to the first available backend and returns its repositories
// plus a cleanup function. It never fails: unreachable databases are logged and
// the next backend is tried.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Repositories, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	if db, cleanup := platformpostgres.ConnectAndMigrate(ctx, opts.PostgresDSN, logger); db != nil {
		logger.Info("repositories configured with postgres")
		return Repositories{
			Backend:     BackendPostgres,
			Menu:        menupostgres.NewRepository(db),
			Orders:      orderpostgres.NewRepository(db),
			Idempotency: orderpostgres.NewIdempotencyStore(db),
		}, cleanup
	}
	if db, cleanup := platformmongo.ConnectWithFallback(ctx, opts.MongoURI, opts.MongoDatabase, logger); db != nil {
		logger.Info("repositories configured with mongo")
		return Repositories{
			Backend:     BackendMongo,
			Menu:        menumongo.NewRepository(db),
			Orders:      ordermongo.NewRepository(db),
			Idempotency: ordermongo.NewIdempotencyStore(db),
		}, cleanup
	}
	logger.Warn("no database configured, falling back to in-memory repositories")
	return Memory(), func() {}
}

// Memory returns fresh in-memory repositories.
func Memory() Repositories {
	return Repositories{
		Backend:     BackendMemory,
		Menu:        menumemory.NewRepository(),
		Orders:      ordermemory.NewRepository(),
		Idempotency: ordermemory.NewIdempotencyStore(),
	}
}
