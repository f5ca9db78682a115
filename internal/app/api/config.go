package api

import (
	"fmt"
	"os"
	"strings"

	"go.temporal.io/sdk/client"

	platformmongo "github.com/Apurer/go-gin-storefront/internal/platform/mongo"
)

// DevJWTSecret signs tokens outside production when JWT_SECRET is unset.
const DevJWTSecret = "storefront-dev-secret"

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	MongoURI          string
	MongoDatabase     string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	JWTSecret         string
	Environment       string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		MongoURI:          strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:     envDefault("MONGO_DATABASE", platformmongo.DefaultDatabase),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		Environment:       strings.ToLower(envDefault("ENVIRONMENT", "local")),
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = DevJWTSecret
	}
	return cfg, nil
}

// IsProduction reports whether the process runs with ENVIRONMENT=production.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// UsesDevSecret reports whether tokens are verified with the built-in development secret.
func (c Config) UsesDevSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
