package backend

import (
	"context"

	"spendwise/internal/amqp"
	"spendwise/internal/services"
	"spendwise/internal/store"
)

// CleanupFunc releases the resources of a backend
type CleanupFunc func() error

// BackendResult contains the store, the optional event client and the
// cleanup function releasing both
type BackendResult struct {
	Store store.Store
	// Events is nil when AMQP is not configured or unreachable.
	Events  *amqp.Client
	Cleanup CleanupFunc
}

// Publisher returns the event client as a services.EventPublisher, or a
// nil interface when there is none.
func (r *BackendResult) Publisher() services.EventPublisher {
	if r.Events == nil {
		return nil
	}
	return r.Events
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Optional change event publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Memory backend specific: a JSON backup loaded at startup when present
	SeedFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
