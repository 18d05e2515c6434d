package domain

import (
	"testing"
	"time"
)

type pinged struct {
	BaseEvent
}

func (pinged) EventName() string { return "pinged" }

func TestEntityKeepsIdentity(t *testing.T) {
	e := NewEntity("abc")
	if e.ID() != "abc" {
		t.Fatalf("expected id abc, got %q", e.ID())
	}
}

func TestRecordCopiesEvents(t *testing.T) {
	src := []Event{pinged{NewBaseEvent()}, pinged{NewBaseEvent()}}
	events := Record(src...)
	src[0] = nil

	if len(events) != 2 || events[0] == nil {
		t.Fatalf("expected recorded events to be independent of the source slice")
	}
	if names := events.Names(); names[0] != "pinged" || names[1] != "pinged" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestBaseEventTimestamp(t *testing.T) {
	before := time.Now().UTC()
	ev := pinged{NewBaseEvent()}
	if ev.OccurredAt().Before(before) {
		t.Fatalf("expected timestamp after %v, got %v", before, ev.OccurredAt())
	}
}
