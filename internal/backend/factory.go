package backend

import (
	"fmt"
	"log/slog"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/events"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/store"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/store/rest"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/store/sqlite"
)

// Factory creates backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the record store and the optional events client.
func (f *Factory) Create(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		recordStore store.RecordStore
		closeStore  func() error
	)

	switch cfg.Type {
	case RestBackend:
		client, err := rest.NewClient(cfg.StoreURL, cfg.StoreAPIKey, cfg.StoreTable)
		if err != nil {
			return nil, fmt.Errorf("initialize record store client: %w", err)
		}
		recordStore = client
		f.logger.Info("Initialized rest backend", "store_url", cfg.StoreURL, "table", cfg.StoreTable)

	case SQLiteBackend:
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		recordStore = repo
		closeStore = repo.Close
		f.logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}

	// Events are optional for both backends.
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize events client, continuing without events", "error", err)
		} else {
			eventsClient = client
			f.logger.Info("Initialized events client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	cleanup := func() error {
		var errs []error
		if err := eventsClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
		if closeStore != nil {
			if err := closeStore(); err != nil {
				errs = append(errs, fmt.Errorf("store: %w", err))
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("close backend: %v", errs)
		}
		return nil
	}

	return &Result{
		Store:   recordStore,
		Events:  eventsClient,
		Cleanup: cleanup,
	}, nil
}
