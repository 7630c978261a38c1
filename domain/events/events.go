// Package events holds the domain events the backend emits for downstream
// dashboard consumers. Events are informational; no component in this module
// consumes them.
package events

import "time"

// Source identifies this service on the event bus
const Source = "vault.backend"

// BaseEvent carries the fields shared by every domain event
type BaseEvent struct {
	Type       string    `json:"type"`
	Aggregate  string    `json:"aggregate"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventType returns the event type name
func (e BaseEvent) EventType() string { return e.Type }

// AggregateID returns the identifier of the affected aggregate
func (e BaseEvent) AggregateID() string { return e.Aggregate }

// Timestamp returns when the event occurred
func (e BaseEvent) Timestamp() time.Time { return e.OccurredAt }

// ContextAppended is emitted after a context entry is durably written
type ContextAppended struct {
	BaseEvent
	EntryID string `json:"entryId"`
	User    string `json:"user"`
	Project string `json:"project"`
}

// NewContextAppended creates a ContextAppended event
func NewContextAppended(entryID, user, project string) ContextAppended {
	return ContextAppended{
		BaseEvent: BaseEvent{
			Type:       "vault.context.appended",
			Aggregate:  entryID,
			OccurredAt: time.Now(),
		},
		EntryID: entryID,
		User:    user,
		Project: project,
	}
}

// ProjectAdded is emitted after a project joins a user's registry record
type ProjectAdded struct {
	BaseEvent
	User    string `json:"user"`
	Project string `json:"project"`
}

// NewProjectAdded creates a ProjectAdded event
func NewProjectAdded(user, project string) ProjectAdded {
	return ProjectAdded{
		BaseEvent: BaseEvent{
			Type:       "vault.project.added",
			Aggregate:  user,
			OccurredAt: time.Now(),
		},
		User:    user,
		Project: project,
	}
}
