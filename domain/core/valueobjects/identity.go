package valueobjects

import (
	"errors"
	"strings"
)

// Identity is a value object wrapping the stable user identity string supplied
// by the external identity provider. The core never mints identities itself.
type Identity struct {
	value string
}

// NewIdentity creates an Identity from the provider-supplied string
func NewIdentity(id string) (Identity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Identity{}, errors.New("identity cannot be empty")
	}
	if strings.ContainsAny(id, " \t\n") {
		return Identity{}, errors.New("identity cannot contain whitespace")
	}
	return Identity{value: id}, nil
}

// String returns the string representation of the Identity
func (i Identity) String() string {
	return i.value
}

// Equals checks if two Identities are equal
func (i Identity) Equals(other Identity) bool {
	return i.value == other.value
}

// IsZero checks if the Identity is the zero value
func (i Identity) IsZero() bool {
	return i.value == ""
}
