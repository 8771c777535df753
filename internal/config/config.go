package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// Tiendanube app credentials
	TiendanubeClientID     string
	TiendanubeClientSecret string
	TiendanubeAPIBase      string
	TiendanubeAuthURL      string

	// Feed generation
	PlatformDomain  string
	FeedLanguage    string
	FeedCurrency    string
	FeedVariantMode string
	FeedUTMSuffix   string
	FeedCacheTTL    int
	DefaultBrand    string
	UserAgent       string

	// Per-store overrides, parsed once at startup
	DomainOverrides map[string]string
	BrandOverrides  map[string]string

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:            getEnv("DATABASE_URL", "sqlite://feedbridge.db"),
		KafkaBrokers:           getEnv("KAFKA_BROKERS", "localhost:9092"),
		APIPort:                getEnv("API_PORT", "8080"),
		APIHost:                getEnv("API_HOST", "0.0.0.0"),
		TiendanubeClientID:     getEnv("TIENDANUBE_CLIENT_ID", ""),
		TiendanubeClientSecret: getEnv("TIENDANUBE_CLIENT_SECRET", ""),
		TiendanubeAPIBase:      getEnv("TIENDANUBE_API_BASE", "https://api.tiendanube.com/v1"),
		TiendanubeAuthURL:      getEnv("TIENDANUBE_AUTH_URL", "https://www.tiendanube.com/apps/authorize/token"),
		PlatformDomain:         getEnv("PLATFORM_DOMAIN", "mitiendanube.com"),
		FeedLanguage:           getEnv("FEED_LANGUAGE", "es"),
		FeedCurrency:           getEnv("FEED_CURRENCY", "ARS"),
		FeedVariantMode:        getEnv("FEED_VARIANT_MODE", "split"),
		FeedUTMSuffix:          getEnv("FEED_UTM_SUFFIX", "utm_source=google&utm_medium=shopping"),
		FeedCacheTTL:           getEnvAsInt("FEED_CACHE_TTL_SECONDS", 300),
		DefaultBrand:           getEnv("DEFAULT_BRAND", ""),
		UserAgent:              getEnv("USER_AGENT", "Feedbridge (feeds@feedbridge.app)"),
		DomainOverrides:        parseOverrides(getEnv("DOMAIN_OVERRIDES", "")),
		BrandOverrides:         parseOverrides(getEnv("BRAND_OVERRIDES", "")),
		Env:                    getEnv("ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseOverrides turns "1234:shoes.example.com,5678:other.example.com" into a
// map keyed by store id. Malformed entries are skipped.
func parseOverrides(raw string) map[string]string {
	overrides := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		overrides[key] = value
	}
	return overrides
}
