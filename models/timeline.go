// ABOUTME: Contact timeline event entity derived from synced activities,
// ABOUTME: tickets, and property history
package models

import "time"

// Timeline event types.
const (
	EventEmailSent           = "email_sent"
	EventEmailReceived       = "email_received"
	EventEmailOpened         = "email_opened"
	EventEmailClicked        = "email_clicked"
	EventTicketCreated       = "ticket_created"
	EventTicketStatusChanged = "ticket_status_changed"
	EventLifecycleChanged    = "lifecycle_changed"
	EventLeadStatusChanged   = "lead_status_changed"
)

// TimelineEvent is one derived entry on a contact's timeline. Identity is the
// (contact, type, date, related object) tuple.
type TimelineEvent struct {
	ID                int64
	ContactHubSpotID  string
	EventType         string
	EventDate         time.Time
	Description       string
	RelatedObjectType string
	RelatedObjectID   string
	RelatedObjectName string
	ActorID           string
	ActorName         string
	MetadataJSON      string
	ExtractedAt       time.Time
}
