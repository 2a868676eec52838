package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so the
// relay and downstream consumers can route them.
type EventCategory string

const (
	// CategoryCompliance covers events with lending-compliance significance:
	// lender lifecycle and every policy change. Written fail-closed.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine activity such as borrower intake and
	// background sweeps. Written best-effort.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from services to capture key actions. Keep it
// transport-agnostic so stores and the relay can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// AggregateType and AggregateID name the entity the event is about,
	// e.g. "lender" and its ID. The relay uses AggregateID as the Kafka key.
	AggregateType string
	AggregateID   string
	Action        string
	// Subject is a human-readable label such as a lender name or program.
	Subject   string
	VersionID string
	Decision  string
	Reason    string
	RequestID string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

type AuditEvent string

const (
	// Lender events
	EventLenderRegistered AuditEvent = "lender_registered"
	EventLenderDeleted    AuditEvent = "lender_deleted"

	// Policy events
	EventPolicySaved             AuditEvent = "policy_saved"
	EventPolicyExtractionMerged  AuditEvent = "policy_extraction_merged"
	EventPolicyStaleSaveRejected AuditEvent = "policy_stale_save_rejected"

	// Matching events
	EventBorrowerSubmitted AuditEvent = "borrower_submitted"
	EventSweepCompleted    AuditEvent = "lender_sweep_completed"
	EventSweepCancelled    AuditEvent = "lender_sweep_cancelled"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventLenderRegistered:       CategoryCompliance,
	EventLenderDeleted:          CategoryCompliance,
	EventPolicySaved:            CategoryCompliance,
	EventPolicyExtractionMerged: CategoryCompliance,

	EventPolicyStaleSaveRejected: CategoryOperations,
	EventBorrowerSubmitted:       CategoryOperations,
	EventSweepCompleted:          CategoryOperations,
	EventSweepCancelled:          CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Normalize fills the derived fields of an event: the category comes from
// the action and a zero timestamp becomes now.
func (e Event) Normalize(now time.Time) Event {
	e.Category = AuditEvent(e.Action).Category()
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	return e
}
