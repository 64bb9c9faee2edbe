package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Addr          string
	DBPath        string
	Debug         bool
	SessionTTL    time.Duration
	ScanBatchSize int
	AdminUser     string
	AdminPassword string
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables; a .env file in the working
// directory is read first and never overrides an already-set variable.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Addr = getEnv("VULNMAP_ADDR", ":8080")
	cfg.DBPath = getEnv("VULNMAP_DB", getDefaultDBPath())
	cfg.Debug = getEnvBool("VULNMAP_DEBUG", false)
	cfg.SessionTTL = getEnvDuration("VULNMAP_SESSION_TTL", 24*time.Hour)
	cfg.ScanBatchSize = getEnvInt("VULNMAP_SCAN_BATCH", 5)
	cfg.AdminUser = getEnv("VULNMAP_ADMIN_USER", "admin")
	cfg.AdminPassword = getEnv("VULNMAP_ADMIN_PASSWORD", "changeit")

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite database")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable verbose debug logging")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Session lifetime")
	flag.IntVar(&cfg.ScanBatchSize, "scan-batch", cfg.ScanBatchSize, "Vulnerabilities considered per simulated scan")

	flag.Parse()

	if cfg.ScanBatchSize <= 0 {
		cfg.ScanBatchSize = 5
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getDefaultDBPath returns the default database path in user's home directory.
// Creates the directory if it doesn't exist.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return "vulnmap.db"
	}

	dir := filepath.Join(home, ".vulnmap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create .vulnmap directory, using current dir: %v", err)
		return "vulnmap.db"
	}

	return filepath.Join(dir, "vulnmap.db")
}
