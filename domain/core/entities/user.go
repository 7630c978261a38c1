package entities

import (
	"time"

	pkgerrors "vault-backend/pkg/errors"
)

// User is the registry record for one identity: a profile plus the ordered,
// duplicate-free set of project identifiers the user knows about.
//
// The project set is append-only in normal operation. The entity guards
// against duplicate insertion; the persistence layer is responsible for
// making the append atomic across concurrent writers.
type User struct {
	id        string
	name      string
	projects  []string
	createdAt time.Time
}

// NewUser creates a fresh registry record for a provider-established identity
func NewUser(id, name string) (*User, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("user ID cannot be empty")
	}
	return &User{
		id:        id,
		name:      name,
		projects:  []string{},
		createdAt: time.Now().Truncate(time.Second),
	}, nil
}

// ReconstructUser rebuilds a User from its stored representation.
// The projects slice is taken as-is except that duplicates are collapsed,
// keeping first occurrence order.
func ReconstructUser(id, name string, projects []string, createdAt int64) *User {
	deduped := make([]string, 0, len(projects))
	seen := make(map[string]bool, len(projects))
	for _, p := range projects {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		deduped = append(deduped, p)
	}

	return &User{
		id:        id,
		name:      name,
		projects:  deduped,
		createdAt: time.Unix(createdAt, 0),
	}
}

// ID returns the stable external identity string
func (u *User) ID() string {
	return u.id
}

// Name returns the display name
func (u *User) Name() string {
	return u.name
}

// Rename updates the display name
func (u *User) Rename(name string) {
	u.name = name
}

// Projects returns a copy of the ordered project identifier set
func (u *User) Projects() []string {
	out := make([]string, len(u.projects))
	copy(out, u.projects)
	return out
}

// HasProject reports whether the project identifier is already a member
func (u *User) HasProject(project string) bool {
	for _, p := range u.projects {
		if p == project {
			return true
		}
	}
	return false
}

// AddProject appends a project identifier to the set. Returns false when the
// project is already a member, leaving the set unchanged (idempotence).
func (u *User) AddProject(project string) bool {
	if project == "" || u.HasProject(project) {
		return false
	}
	u.projects = append(u.projects, project)
	return true
}

// CreatedAt returns the creation time, second precision
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}
