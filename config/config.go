package config

import (
	"os"
	"strconv"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config collects everything the process reads from the environment. The
// order ledger itself takes no configuration: it is a single in-memory
// instance.
type Config struct {
	Port         string
	GinMode      string
	PollInterval time.Duration
	StaffDBPath  string
}

func Load() Config {
	cfg := Config{
		Port:         getenv("PORT", "8080"),
		GinMode:      os.Getenv("GIN_MODE"),
		PollInterval: 1 * time.Second,
		StaffDBPath:  getenv("STAFF_DB_PATH", "staff.db"),
	}
	if ms := os.Getenv("POLL_INTERVAL_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			cfg.PollInterval = time.Duration(v) * time.Millisecond
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitStaffDB opens the sqlite database holding staff accounts, the only
// durable state in the system.
func InitStaffDB(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}
