package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultDatabase is used when no database name is configured.
const DefaultDatabase = "storefront"

// Connect dials MongoDB, verifies connectivity and returns the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("mongo URI is empty")
	}
	if strings.TrimSpace(database) == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client.Database(database), nil
}

// ConnectWithFallback dials MongoDB and returns the database plus a cleanup
// function. An empty URI or a failed connection is logged and yields nil with
// a no-op cleanup so callers can fall back.
func ConnectWithFallback(ctx context.Context, uri, database string, logger *slog.Logger) (*mongo.Database, func()) {
	if strings.TrimSpace(uri) == "" {
		return nil, func() {}
	}
	db, err := Connect(ctx, uri, database)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to mongo", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("mongo connection established", slog.String("database", db.Name()))
	}
	return db, func() { _ = db.Client().Disconnect(context.Background()) }
}
