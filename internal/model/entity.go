// Package model defines the records the admin console reads from and writes
// to the backend, together with the draft structs its forms edit.
package model

import "time"

// Entity is implemented by every record that appears in a list screen.
type Entity interface {
	EntityID() string
	Active() bool
}

// Timestamps is embedded by records that carry audit times.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntityName identifies a resource type in paths, events and exports.
type EntityName string

const (
	EntityTemplate EntityName = "template"
	EntityLounge   EntityName = "lounge"
	EntityMatch    EntityName = "match"
	EntityFAQ      EntityName = "faq"
	EntitySettings EntityName = "settings"
)

// String returns the string representation of the entity name.
func (n EntityName) String() string {
	return string(n)
}

// IsValid checks whether the entity name is a known value.
func (n EntityName) IsValid() bool {
	switch n {
	case EntityTemplate, EntityLounge, EntityMatch, EntityFAQ, EntitySettings:
		return true
	}
	return false
}
