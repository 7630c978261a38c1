package valueobjects

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// projectDelimiter is the character joining a user's project list in storage.
// Project identifiers must never contain it; the serialization adapter relies
// on that to round-trip the list.
const projectDelimiter = ","

const maxProjectNameLength = 100

// ProjectID is a value object for a globally-unique project identifier.
// It combines the human-supplied name with a generated suffix so that
// same-named projects created at different times stay distinct.
type ProjectID struct {
	value string
}

// NewProjectID derives a fresh ProjectID from a human-supplied project name
func NewProjectID(name string) (ProjectID, error) {
	slug, err := slugify(name)
	if err != nil {
		return ProjectID{}, err
	}
	suffix := uuid.New().String()[:8]
	return ProjectID{value: slug + "-" + suffix}, nil
}

// NewProjectIDFromString validates an identifier already in circulation.
// Every project value observed via search is treated as valid as long as it
// is non-empty and delimiter-free; it need not match the slug-suffix form.
func NewProjectIDFromString(id string) (ProjectID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ProjectID{}, errors.New("project ID cannot be empty")
	}
	if strings.Contains(id, projectDelimiter) {
		return ProjectID{}, errors.New("project ID cannot contain a comma")
	}
	return ProjectID{value: id}, nil
}

// String returns the string representation of the ProjectID
func (p ProjectID) String() string {
	return p.value
}

// Equals checks if two ProjectIDs are equal
func (p ProjectID) Equals(other ProjectID) bool {
	return p.value == other.value
}

// IsZero checks if the ProjectID is the zero value
func (p ProjectID) IsZero() bool {
	return p.value == ""
}

// slugify normalizes a project name into the identifier prefix
func slugify(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("project name cannot be empty")
	}
	if len(name) > maxProjectNameLength {
		return "", errors.New("project name too long")
	}
	if strings.Contains(name, projectDelimiter) {
		return "", errors.New("project name cannot contain a comma")
	}

	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "", errors.New("project name has no usable characters")
	}
	return slug, nil
}
