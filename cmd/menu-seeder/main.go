package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/app/api"
	"github.com/Apurer/go-gin-storefront/internal/app/seeder"
	"github.com/Apurer/go-gin-storefront/internal/app/storage"
	menuobs "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/observability"
	menuapp "github.com/Apurer/go-gin-storefront/internal/domains/menu/application"
)

func main() {
	path := flag.String("file", "cmd/menu-seeder/menu.yaml", "path to the menu fixture")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	fixture, err := seeder.LoadFile(*path)
	if err != nil {
		log.Fatal(err)
	}

	repos, cleanup := storage.Open(ctx, storage.Options{
		PostgresDSN:   cfg.PostgresDSN,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	}, logger)
	defer cleanup()
	if repos.Backend == storage.BackendMemory {
		log.Fatal("POSTGRES_DSN or MONGO_URI must point at a reachable database; refusing to seed memory")
	}

	service := menuobs.New(menuapp.NewService(repos.Menu), menuobs.WithLogger(logger))
	report, err := seeder.Seed(ctx, service, fixture)
	if err != nil {
		log.Fatalf("failed to seed menu: %v", err)
	}
	logger.Info("menu seeded",
		slog.String("storage", repos.Backend),
		slog.Int("created", len(report.Created)),
		slog.Int("skipped", len(report.Skipped)),
	)
}
