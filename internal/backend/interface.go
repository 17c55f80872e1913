package backend

import (
	"context"

	"orcamento/internal/amqp"
	"orcamento/internal/ledger"
)

// CleanupFunc releases a backend's resources.
type CleanupFunc func() error

// Result bundles the wired store, the optional AMQP client and a cleanup
// function. Events is nil when AMQP is not configured.
type Result struct {
	Store   ledger.Store
	Events  *amqp.Client
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// AMQP event publishing, optional for either backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Type selects the persistence backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
