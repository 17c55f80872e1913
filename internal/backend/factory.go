package backend

import (
	"context"
	"fmt"
	"log/slog"

	"orcamento/internal/amqp"
	"orcamento/internal/storage"
	"orcamento/internal/storage/memory"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	events := f.connectAMQP(config)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", events != nil)

	return &Result{
		Store:  repo,
		Events: events,
		Cleanup: func() error {
			if events != nil {
				_ = events.Close()
			}
			return repo.Close()
		},
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	store := memory.New()
	events := f.connectAMQP(config)

	f.logger.Info("Initialized memory backend", "amqp_enabled", events != nil)

	return &Result{
		Store:  store,
		Events: events,
		Cleanup: func() error {
			if events != nil {
				return events.Close()
			}
			return nil
		},
	}, nil
}

// connectAMQP dials the broker when configured. A broker that is down does
// not block startup; the engine runs without event publishing.
func (f *DefaultFactory) connectAMQP(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
