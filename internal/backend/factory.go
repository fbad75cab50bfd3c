package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"spendwise/internal/amqp"
	"spendwise/internal/export"
	"spendwise/internal/storage"
	"spendwise/internal/store"
	"spendwise/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend opens the store and, when configured, the AMQP client.
// A broker that cannot be reached is logged and skipped.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		st  store.Store
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		st, err = f.createSQLiteStore(config)
	case MemoryBackend:
		st, err = f.createMemoryStore(config)
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	events := f.connectEvents(config)

	cleanup := func() error {
		var errs []error
		if events != nil {
			errs = append(errs, events.Close())
		}
		errs = append(errs, st.Close())
		return errors.Join(errs...)
	}

	return &BackendResult{Store: st, Events: events, Cleanup: cleanup}, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (store.Store, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createMemoryStore(config Config) (store.Store, error) {
	if config.SeedFile == "" {
		f.logger.Info("Initialized memory backend")
		return memory.New(), nil
	}

	file, err := os.Open(config.SeedFile)
	if errors.Is(err, os.ErrNotExist) {
		f.logger.Info("Initialized memory backend", "seed_file", config.SeedFile, "seeded", false)
		return memory.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()

	snap, err := export.ReadBackup(file)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", config.SeedFile, err)
	}
	st, err := memory.NewFromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("load seed file %s: %w", config.SeedFile, err)
	}

	f.logger.Info("Initialized memory backend",
		"seed_file", config.SeedFile,
		"seeded", true,
		"transactions", len(snap.Transactions))
	return st, nil
}

func (f *DefaultFactory) connectEvents(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		f.logger.Info("AMQP disabled - change events will not be published")
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
