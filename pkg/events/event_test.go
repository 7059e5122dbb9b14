package events

import (
	"testing"
	"time"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := "42"

	before := time.Now().UTC()
	event := NewBaseEvent("credit.customer.registered", aggregateID, "Customer")
	after := time.Now().UTC()

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}

	if event.EventType() != "credit.customer.registered" {
		t.Errorf("expected event type %q, got %q", "credit.customer.registered", event.EventType())
	}

	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}

	if event.AggregateType() != "Customer" {
		t.Errorf("expected aggregate type %q, got %q", "Customer", event.AggregateType())
	}

	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestNewBaseEventUniqueIDs(t *testing.T) {
	e1 := NewBaseEvent("credit.loan.created", "1", "Loan")
	e2 := NewBaseEvent("credit.loan.created", "1", "Loan")

	if e1.EventID() == e2.EventID() {
		t.Error("expected distinct event IDs for separately constructed events")
	}
}
