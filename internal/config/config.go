package config

import (
	"os"
	"strings"
)

type Config struct {
	Port       string
	RegisterID string

	// cart snapshot backend: "memory", "file" or "redis"
	SnapshotBackend string
	SnapshotPath    string
	RedisAddr       string

	// ledger backend: "memory" or "postgres"
	LedgerBackend string
	PostgresURL   string
	MigrationsDir string

	SalesAPIURL string

	BusinessLines []string
	FooterLines   []string
	LogoURL       string
}

func Load() Config {
	return Config{
		Port:       getEnv("PORT", "8080"),
		RegisterID: getEnv("REGISTER_ID", "register-1"),

		SnapshotBackend: getEnv("SNAPSHOT_BACKEND", "file"),
		SnapshotPath:    getEnv("SNAPSHOT_PATH", "pos_cart.json"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),

		LedgerBackend: getEnv("LEDGER_BACKEND", "memory"),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		SalesAPIURL: getEnv("SALES_API_URL", "http://localhost:9090"),

		BusinessLines: getLines("BUSINESS_LINES", "RedFox POS"),
		FooterLines:   getLines("FOOTER_LINES", "Thank you for your purchase!|Powered by RedFox"),
		LogoURL:       os.Getenv("LOGO_URL"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// getLines splits a pipe-separated env value into receipt lines.
func getLines(key, fallback string) []string {
	return strings.Split(getEnv(key, fallback), "|")
}
