// Package ports defines the interfaces the application layer depends on.
// Infrastructure provides the implementations.
package ports

import (
	"context"
	"time"

	"vault-backend/domain/core/entities"
)

// UserRegistry is the single source of truth for which projects a user knows
// about, keyed by the provider-supplied identity.
type UserRegistry interface {
	// GetUser performs a point lookup. A missing record is a NOT_FOUND error;
	// the read reflects the most recent committed write for that identity.
	GetUser(ctx context.Context, identity string) (*entities.User, error)

	// EnsureProject idempotently adds a project to the user's set. The append
	// is a single atomic read-modify-write; interleaved concurrent appends for
	// the same user must not lose either project. A missing user is NOT_FOUND,
	// never an implicit create.
	EnsureProject(ctx context.Context, identity, project string) (*entities.User, error)

	// ListProjects returns the user's ordered project set, or an empty slice
	// when the user is absent. It fails only on storage unavailability.
	ListProjects(ctx context.Context, identity string) ([]string, error)

	// ProvisionUser creates the registry record for a newly established
	// identity. When the record already exists the stored one is returned
	// unchanged (first writer wins).
	ProvisionUser(ctx context.Context, identity, name string) (*entities.User, error)
}

// ContextStore owns the durable context entries and the project index.
type ContextStore interface {
	// Append writes a new entry. Visibility through SearchByProject is
	// bounded-eventual: the secondary index may lag by its propagation
	// window, so callers must not assume read-your-writes on the indexed path.
	Append(ctx context.Context, entry *entities.ContextEntry) error

	// SearchByProject returns every visible entry whose project tag matches
	// exactly. Retrieval order is index-internal, not insertion order.
	// Malformed index records are dropped, not surfaced; zero matches yield
	// an empty slice, never nil and never an error.
	SearchByProject(ctx context.Context, project string) ([]*entities.ContextEntry, error)
}

// DomainEvent is the minimal contract events must satisfy to be published
type DomainEvent interface {
	EventType() string
	AggregateID() string
	Timestamp() time.Time
}

// EventPublisher emits domain events for downstream consumers. Publishing is
// best-effort; failures are logged, never propagated into the write path.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}
