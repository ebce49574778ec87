package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Record store backend selection: "rest" or "sqlite"
	DataBackend string

	// Hosted record store (rest backend)
	StoreURL    string
	StoreAPIKey string
	StoreTable  string

	// Embedded store (sqlite backend)
	SQLiteDBPath string

	// AMQP (optional mutation events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Filtered-view cache
	ViewCacheTTL time.Duration

	// Backup worker
	BackupDir      string
	BackupInterval time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DataBackend: getEnv("DATA_BACKEND", "sqlite"),

		StoreURL:    getEnv("STORE_URL", ""),
		StoreAPIKey: getEnv("STORE_API_KEY", ""),
		StoreTable:  getEnv("STORE_TABLE", "financeiro_lancamentos"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/financeiro.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "financeiro"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "lancamento_events"),

		ViewCacheTTL: getEnvDuration("VIEW_CACHE_TTL", 5*time.Minute),

		BackupDir:      getEnv("BACKUP_DIR", "./data/backups"),
		BackupInterval: getEnvDuration("BACKUP_INTERVAL", time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"rest", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "rest" {
		if c.StoreURL == "" {
			errors = append(errors, "record store URL is required when using rest backend")
		} else if parsedURL, err := url.Parse(c.StoreURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid record store URL '%s': %v", c.StoreURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid record store URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
		if c.StoreTable == "" {
			errors = append(errors, "record store table name cannot be empty when using rest backend")
		}
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ViewCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid view cache TTL %v: must be at least 1 second", c.ViewCacheTTL))
	} else if c.ViewCacheTTL > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid view cache TTL %v: must be at most 1 hour", c.ViewCacheTTL))
	}

	if c.BackupInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid backup interval %v: must be at least 1 second", c.BackupInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
