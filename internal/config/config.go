package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string
	LogLevel  string

	WooBaseURL        string
	WooConsumerKey    string
	WooConsumerSecret string
	WooRateLimitRPS   int
	WooTimeoutMs      int

	SpreadsheetID      string
	GoogleSAEmail      string
	GoogleSAPrivateKey string

	ScanConcurrency    int
	ScanEarlyStop      int
	NameMatchThreshold float64
	BankOrderWindow    int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		WooBaseURL:        getEnv("WOO_BASE_URL", ""),
		WooConsumerKey:    getEnv("WOO_CONSUMER_KEY", ""),
		WooConsumerSecret: getEnv("WOO_CONSUMER_SECRET", ""),
		WooRateLimitRPS:   getEnvInt("WOO_RATE_LIMIT_RPS", 5),
		WooTimeoutMs:      getEnvInt("WOO_TIMEOUT_MS", 30000),

		SpreadsheetID:      getEnv("SPREADSHEET_ID", ""),
		GoogleSAEmail:      getEnv("GOOGLE_SA_EMAIL", ""),
		GoogleSAPrivateKey: getEnv("GOOGLE_SA_PRIVATE_KEY", ""),

		ScanConcurrency:    getEnvInt("SCAN_CONCURRENCY", 6),
		ScanEarlyStop:      getEnvInt("SCAN_EARLY_STOP", 150),
		NameMatchThreshold: getEnvFloat("NAME_MATCH_THRESHOLD", 0.85),
		BankOrderWindow:    getEnvInt("BANK_ORDER_WINDOW", 150),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
