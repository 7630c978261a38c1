package entities

import (
	"github.com/google/uuid"

	pkgerrors "vault-backend/pkg/errors"
)

// ContextEntry is one unit of shared memory: an opaque text payload tagged
// with the submitting user and a project identifier.
//
// Entries have no natural dedup key. Two entries with identical user, project
// and content are legal and distinct; each carries its own store-generated ID.
// The user reference is not enforced against the registry, so orphaned
// entries are tolerated.
type ContextEntry struct {
	id      string
	user    string
	project string
	content string
}

// NewContextEntry creates an entry with a freshly generated record ID
func NewContextEntry(user, project, content string) (*ContextEntry, error) {
	if user == "" {
		return nil, pkgerrors.NewValidationError("context entry user cannot be empty")
	}
	if project == "" {
		return nil, pkgerrors.NewValidationError("context entry project cannot be empty")
	}
	if content == "" {
		return nil, pkgerrors.NewValidationError("context entry content cannot be empty")
	}
	return &ContextEntry{
		id:      uuid.New().String(),
		user:    user,
		project: project,
		content: content,
	}, nil
}

// ReconstructContextEntry rebuilds an entry from its stored representation
func ReconstructContextEntry(id, user, project, content string) *ContextEntry {
	return &ContextEntry{
		id:      id,
		user:    user,
		project: project,
		content: content,
	}
}

// ID returns the store-generated record identifier
func (e *ContextEntry) ID() string {
	return e.id
}

// User returns the identity string of the submitting user
func (e *ContextEntry) User() string {
	return e.user
}

// Project returns the project identifier tag
func (e *ContextEntry) Project() string {
	return e.project
}

// Content returns the opaque text payload
func (e *ContextEntry) Content() string {
	return e.content
}
