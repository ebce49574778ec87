// Package backend wires a record store implementation (and the
// optional events client) from configuration.
package backend

import (
	"fmt"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/config"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/events"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/store"
)

// Type selects the record store implementation.
type Type string

const (
	RestBackend   Type = "rest"
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string { return string(t) }

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case RestBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result bundles the wired store, the optional events client, and the
// cleanup for both.
type Result struct {
	Store   store.RecordStore
	Events  *events.Client
	Cleanup CleanupFunc
}

// FromAppConfig converts the application config to a backend Config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		StoreURL:    appConfig.StoreURL,
		StoreAPIKey: appConfig.StoreAPIKey,
		StoreTable:  appConfig.StoreTable,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}, nil
}

// Config holds everything needed to build a backend.
type Config struct {
	Type Type

	// rest backend
	StoreURL    string
	StoreAPIKey string
	StoreTable  string

	// sqlite backend
	SQLiteDBPath string

	// optional events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Validate validates the backend configuration.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case RestBackend:
		if c.StoreURL == "" {
			return fmt.Errorf("record store URL is required for rest backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	}

	return nil
}
