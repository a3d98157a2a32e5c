// Package events carries console activity over NATS: every successful
// mutation is announced on a per-entity subject, and the admin
// notification feed is watched for new items.
package events

import (
	"context"
	"time"

	"github.com/alfredjeanlab/dateadmin/internal/model"
)

// SubjectPrefix is the root of every subject the console uses.
const SubjectPrefix = "dateadmin"

// Subject constants for subscribers.
const (
	SubjectAll           = SubjectPrefix + ".>"
	SubjectNotifications = SubjectPrefix + ".notifications.>"
)

// Action is what happened to a record.
type Action string

const (
	ActionCreated     Action = "created"
	ActionUpdated     Action = "updated"
	ActionDeleted     Action = "deleted"
	ActionActivated   Action = "activated"
	ActionDeactivated Action = "deactivated"
	ActionBlocked     Action = "blocked"
	ActionSaved       Action = "saved"
	ActionExported    Action = "exported"
)

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}

// Subject returns the subject for an action on an entity type, e.g.
// "dateadmin.template.created".
func Subject(entity model.EntityName, action Action) string {
	return SubjectPrefix + "." + entity.String() + "." + action.String()
}

// Mutation is published after the backend accepted a change.
type Mutation struct {
	Entity model.EntityName `json:"entity"`
	Action Action           `json:"action"`
	ID     string           `json:"id,omitempty"`
	Actor  string           `json:"actor,omitempty"`
	At     time.Time        `json:"at"`
	Record any              `json:"record,omitempty"`
}

// Subject returns the subject the mutation is published on.
func (m Mutation) Subject() string {
	return Subject(m.Entity, m.Action)
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// PublishMutation stamps m and publishes it on its subject.
func PublishMutation(ctx context.Context, p Publisher, m Mutation) error {
	if m.At.IsZero() {
		m.At = time.Now().UTC()
	}
	return p.Publish(ctx, m.Subject(), m)
}
