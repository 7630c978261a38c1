// Package services holds the query gateway: the stateless operations external
// collaborators (the dashboard, MCP clients) call. All state lives in the
// registry and the context store; each call acquires whatever it needs within
// its own lifetime, with no cross-call transactions.
package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vault-backend/application/ports"
	"vault-backend/domain/core/entities"
	"vault-backend/domain/core/valueobjects"
	"vault-backend/domain/events"
	pkgerrors "vault-backend/pkg/errors"
	"vault-backend/pkg/observability"
)

// ProjectAuthority selects which view of "the user's projects" is
// authoritative for content submissions.
type ProjectAuthority string

const (
	// AuthorityRegistry treats the registry's project list as authoritative:
	// submissions tagged with an unregistered project are rejected. Default.
	AuthorityRegistry ProjectAuthority = "registry"

	// AuthorityObserved treats search-observed projects as authoritative:
	// any well-formed tag is accepted and AddProject is pure bookkeeping.
	AuthorityObserved ProjectAuthority = "observed"
)

// VaultService composes the user registry and the context store into the
// externally-facing read/write operations.
type VaultService struct {
	registry  ports.UserRegistry
	store     ports.ContextStore
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	authority ProjectAuthority
	logger    *zap.Logger
}

// NewVaultService creates a new VaultService
func NewVaultService(
	registry ports.UserRegistry,
	store ports.ContextStore,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	authority ProjectAuthority,
	logger *zap.Logger,
) *VaultService {
	if authority != AuthorityObserved {
		authority = AuthorityRegistry
	}
	return &VaultService{
		registry:  registry,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		authority: authority,
		logger:    logger,
	}
}

// GetUserProfile returns the registry record for the calling identity.
// A missing record propagates as NOT_FOUND; transports render it as an
// empty object rather than a failure.
func (s *VaultService) GetUserProfile(ctx context.Context, identity string) (*entities.User, error) {
	id, err := valueobjects.NewIdentity(identity)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	return s.registry.GetUser(ctx, id.String())
}

// ListUserProjects returns the caller's ordered project list. Unknown users
// get an empty list, not an error.
func (s *VaultService) ListUserProjects(ctx context.Context, identity string) ([]string, error) {
	id, err := valueobjects.NewIdentity(identity)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	return s.registry.ListProjects(ctx, id.String())
}

// AddProject derives a globally-unique project identifier from the
// human-supplied name and idempotently registers it for the caller.
// The generated suffix disambiguates same-named projects across time and
// users. Unknown callers get NOT_FOUND: identities are established through
// the provider, never fabricated here.
func (s *VaultService) AddProject(ctx context.Context, identity, projectName string) (*entities.User, error) {
	id, err := valueobjects.NewIdentity(identity)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	projectID, err := valueobjects.NewProjectID(projectName)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	start := time.Now()
	user, err := s.registry.EnsureProject(ctx, id.String(), projectID.String())
	if err != nil {
		return nil, err
	}
	s.metrics.Count(ctx, "ProjectAdded")
	s.metrics.Latency(ctx, "ProjectAdded", time.Since(start))

	s.publish(ctx, events.NewProjectAdded(id.String(), projectID.String()))

	s.logger.Info("Project registered",
		zap.String("identity", id.String()),
		zap.String("project", projectID.String()),
	)
	return user, nil
}

// SubmitContext appends one context entry tagged with the caller and a
// project. Under registry authority the project must already be registered
// for the caller; under observed authority any well-formed tag is accepted.
//
// The entry may be transiently absent from GetContextByProject until the
// search index absorbs the write.
func (s *VaultService) SubmitContext(ctx context.Context, identity, project, content string) (*entities.ContextEntry, error) {
	id, err := valueobjects.NewIdentity(identity)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	projectID, err := valueobjects.NewProjectIDFromString(project)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if s.authority == AuthorityRegistry {
		user, err := s.registry.GetUser(ctx, id.String())
		if err != nil {
			return nil, err
		}
		if !user.HasProject(projectID.String()) {
			return nil, pkgerrors.NewValidationError("project is not registered for this user")
		}
	}

	entry, err := entities.NewContextEntry(id.String(), projectID.String(), content)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := s.store.Append(ctx, entry); err != nil {
		return nil, err
	}
	s.metrics.Count(ctx, "ContextAppended")
	s.metrics.Latency(ctx, "ContextAppend", time.Since(start))

	s.publish(ctx, events.NewContextAppended(entry.ID(), entry.User(), entry.Project()))

	return entry, nil
}

// GetContextByProject returns every visible entry tagged with the project.
// The result order is index-internal; an unknown project yields an empty
// slice, never an error.
func (s *VaultService) GetContextByProject(ctx context.Context, project string) ([]*entities.ContextEntry, error) {
	if project == "" {
		return []*entities.ContextEntry{}, nil
	}

	start := time.Now()
	entries, err := s.store.SearchByProject(ctx, project)
	if err != nil {
		return nil, err
	}
	s.metrics.Count(ctx, "ContextSearch")
	s.metrics.Latency(ctx, "ContextSearch", time.Since(start))

	return entries, nil
}

// publish emits a domain event without letting a bus failure leak into the
// request that triggered it
func (s *VaultService) publish(ctx context.Context, event ports.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish domain event",
			zap.String("eventType", event.EventType()),
			zap.Error(err),
		)
	}
}
