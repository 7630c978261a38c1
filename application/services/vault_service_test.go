package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vault-backend/application/ports"
	"vault-backend/domain/core/entities"
	pkgerrors "vault-backend/pkg/errors"
)

// fakeRegistry is an in-memory ports.UserRegistry with atomic appends
type fakeRegistry struct {
	mu    sync.Mutex
	users map[string]*entities.User
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{users: map[string]*entities.User{}}
}

func (f *fakeRegistry) snapshot(u *entities.User) *entities.User {
	return entities.ReconstructUser(u.ID(), u.Name(), u.Projects(), u.CreatedAt().Unix())
}

func (f *fakeRegistry) GetUser(ctx context.Context, identity string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[identity]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("user")
	}
	return f.snapshot(user), nil
}

func (f *fakeRegistry) EnsureProject(ctx context.Context, identity, project string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[identity]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("user")
	}
	user.AddProject(project)
	return f.snapshot(user), nil
}

func (f *fakeRegistry) ListProjects(ctx context.Context, identity string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[identity]
	if !ok {
		return []string{}, nil
	}
	return user.Projects(), nil
}

func (f *fakeRegistry) ProvisionUser(ctx context.Context, identity, name string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.users[identity]; ok {
		return f.snapshot(existing), nil
	}
	user, err := entities.NewUser(identity, name)
	if err != nil {
		return nil, err
	}
	f.users[identity] = user
	return f.snapshot(user), nil
}

// fakeStore is an in-memory ports.ContextStore
type fakeStore struct {
	mu      sync.Mutex
	entries []*entities.ContextEntry
}

func (f *fakeStore) Append(ctx context.Context, entry *entities.ContextEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeStore) SearchByProject(ctx context.Context, project string) ([]*entities.ContextEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := []*entities.ContextEntry{}
	for _, entry := range f.entries {
		if entry.Project() == project {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.DomainEvent
}

func (r *recordingPublisher) Publish(ctx context.Context, event ports.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func newTestService(registry ports.UserRegistry, store ports.ContextStore, publisher ports.EventPublisher, authority ProjectAuthority) *VaultService {
	return NewVaultService(registry, store, publisher, nil, authority, zap.NewNop())
}

func TestAddProject_GeneratesUniqueSuffixedID(t *testing.T) {
	registry := newFakeRegistry()
	service := newTestService(registry, &fakeStore{}, nil, AuthorityRegistry)
	ctx := context.Background()

	_, err := registry.ProvisionUser(ctx, "u1", "Jane")
	require.NoError(t, err)

	user, err := service.AddProject(ctx, "u1", "Alpha Project")
	require.NoError(t, err)
	require.Len(t, user.Projects(), 1)
	assert.True(t, strings.HasPrefix(user.Projects()[0], "alpha-project-"))

	// Same name again gets a distinct identifier: names are not unique,
	// identifiers are.
	user, err = service.AddProject(ctx, "u1", "Alpha Project")
	require.NoError(t, err)
	require.Len(t, user.Projects(), 2)
	assert.NotEqual(t, user.Projects()[0], user.Projects()[1])
}

func TestAddProject_UnknownUserCreatesNothing(t *testing.T) {
	registry := newFakeRegistry()
	service := newTestService(registry, &fakeStore{}, nil, AuthorityRegistry)

	_, err := service.AddProject(context.Background(), "ghost", "alpha")
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Empty(t, registry.users)
}

func TestAddProject_ConcurrentDistinctNamesBothSurvive(t *testing.T) {
	registry := newFakeRegistry()
	service := newTestService(registry, &fakeStore{}, nil, AuthorityRegistry)
	ctx := context.Background()

	_, err := registry.ProvisionUser(ctx, "u1", "Jane")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, name := range []string{"alpha", "beta"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := service.AddProject(ctx, "u1", name)
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	projects, err := service.ListUserProjects(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestAddProject_RejectsInvalidName(t *testing.T) {
	registry := newFakeRegistry()
	service := newTestService(registry, &fakeStore{}, nil, AuthorityRegistry)
	ctx := context.Background()

	_, err := registry.ProvisionUser(ctx, "u1", "Jane")
	require.NoError(t, err)

	for _, name := range []string{"", "has,comma", strings.Repeat("x", 200)} {
		_, err := service.AddProject(ctx, "u1", name)
		assert.True(t, pkgerrors.IsValidation(err), "name %q should be rejected", name)
	}
}

func TestSubmitContext_RegistryAuthorityRejectsUnregisteredProject(t *testing.T) {
	registry := newFakeRegistry()
	store := &fakeStore{}
	service := newTestService(registry, store, nil, AuthorityRegistry)
	ctx := context.Background()

	_, err := registry.ProvisionUser(ctx, "u1", "Jane")
	require.NoError(t, err)

	_, err = service.SubmitContext(ctx, "u1", "never-registered", "note")
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, store.entries)
}

func TestSubmitContext_ObservedAuthorityAcceptsAnyTag(t *testing.T) {
	registry := newFakeRegistry()
	store := &fakeStore{}
	service := newTestService(registry, store, nil, AuthorityObserved)
	ctx := context.Background()

	entry, err := service.SubmitContext(ctx, "u1", "never-registered", "note")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID())
	assert.Len(t, store.entries, 1)
}

func TestSubmitContext_PublishesEvent(t *testing.T) {
	registry := newFakeRegistry()
	publisher := &recordingPublisher{}
	service := newTestService(registry, &fakeStore{}, publisher, AuthorityObserved)

	_, err := service.SubmitContext(context.Background(), "u1", "alpha-1a2b", "note")
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "vault.context.appended", publisher.events[0].EventType())
}

func TestGetContextByProject_EmptyProject(t *testing.T) {
	service := newTestService(newFakeRegistry(), &fakeStore{}, nil, AuthorityRegistry)

	entries, err := service.GetContextByProject(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

// Exercises the full lifecycle: a mutation against an unknown identity stays
// neutral, provisioning establishes the record, and submitted context becomes
// searchable under the generated project identifier.
func TestLifecycle(t *testing.T) {
	registry := newFakeRegistry()
	store := &fakeStore{}
	service := newTestService(registry, store, &recordingPublisher{}, AuthorityRegistry)
	ctx := context.Background()

	_, err := service.AddProject(ctx, "u1", "alpha")
	require.True(t, pkgerrors.IsNotFound(err))
	assert.Empty(t, registry.users)

	_, err = registry.ProvisionUser(ctx, "u1", "Jane")
	require.NoError(t, err)

	user, err := service.AddProject(ctx, "u1", "alpha")
	require.NoError(t, err)
	require.Len(t, user.Projects(), 1)
	project := user.Projects()[0]
	assert.True(t, strings.HasPrefix(project, "alpha-"))

	_, err = service.SubmitContext(ctx, "u1", project, "note1")
	require.NoError(t, err)

	entries, err := service.GetContextByProject(ctx, project)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].User())
	assert.Equal(t, project, entries[0].Project())
	assert.Equal(t, "note1", entries[0].Content())
}
