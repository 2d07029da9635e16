package types

import "time"

// EventIdentifier names a domain event emitted by the management modules,
// e.g. "center.created" or "auth.otp_requested". The notification service
// treats it as opaque beyond the event-to-notification mapping.
type EventIdentifier string

// DomainEvent is the inbound unit delivered by the event bus. Payload shape
// varies per producer version, so consumers must extract fields defensively.
type DomainEvent struct {
	ID            EventIdentifier `json:"id"`
	Payload       map[string]any  `json:"payload"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// DispatchMessage is the wire form queued between the event consumer and the
// dispatcher. Parameters carries the raw event payload as JSON.
type DispatchMessage struct {
	MsgUUID       string               `json:"msg_uuid"`
	EventID       EventIdentifier      `json:"event_id"`
	Parameters    string               `json:"parameters"`
	Priority      NotificationPriority `json:"priority"`
	CorrelationID string               `json:"correlation_id,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// RecipientError records one recipient's delivery failure inside a bulk
// dispatch; sibling recipients are unaffected.
type RecipientError struct {
	Recipient string              `json:"recipient"`
	Channel   NotificationChannel `json:"channel"`
	Reason    string              `json:"reason"`
}

// BulkResult accumulates per-recipient outcomes of one dispatch. Attempts
// are at-most-once here; retry policy belongs to the job queue.
type BulkResult struct {
	Total   int              `json:"total"`
	Sent    int              `json:"sent"`
	Failed  int              `json:"failed"`
	Skipped int              `json:"skipped"`
	Errors  []RecipientError `json:"errors,omitempty"`
}

func (r *BulkResult) AddError(recipient string, channel NotificationChannel, reason string) {
	r.Failed++
	r.Errors = append(r.Errors, RecipientError{Recipient: recipient, Channel: channel, Reason: reason})
}
