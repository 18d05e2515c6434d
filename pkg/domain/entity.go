// Package domain holds the building blocks shared by module domain models.
package domain

import "time"

// Entity carries an identity that is fixed when the entity is created.
// Embed it in aggregate structs.
type Entity[ID comparable] struct {
	id ID
}

// NewEntity returns an Entity with the given identity.
func NewEntity[ID comparable](id ID) Entity[ID] {
	return Entity[ID]{id: id}
}

// ID returns the entity identity.
func (e Entity[ID]) ID() ID {
	return e.id
}

// Event is something that happened to an entity.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// Events is an ordered sequence of events returned by a state transition.
// The caller owns it.
type Events []Event

// Record copies the given events into a new sequence.
func Record(events ...Event) Events {
	out := make(Events, len(events))
	copy(out, events)
	return out
}

// Names lists event names in order.
func (es Events) Names() []string {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.EventName()
	}
	return names
}

// Change pairs a newly created or modified entity with the events its
// transition raised.
type Change[E any] struct {
	Entity E
	Events Events
}

// BaseEvent implements the timestamp half of Event.
type BaseEvent struct {
	At time.Time `json:"occurred_at"`
}

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{At: time.Now().UTC()}
}

// OccurredAt returns when the event happened.
func (b BaseEvent) OccurredAt() time.Time {
	return b.At
}
