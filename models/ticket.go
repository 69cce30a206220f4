// ABOUTME: Ticket entity mapped from raw CRM records
package models

import "time"

// Ticket is one CRM support case.
type Ticket struct {
	ID               int64
	HubSpotID        string
	TicketName       string
	Pipeline         string
	TicketStatus     string
	CreatedAt        *time.Time
	Priority         string
	TicketOwner      string
	Source           string
	LastActivityDate *time.Time
	ExtractedAt      time.Time
}

// TicketFromRecord maps a raw record onto a Ticket. Pipeline and status hold
// raw internal values here; the reconciler rewrites them to display labels.
func TicketFromRecord(rec *Record) (*Ticket, error) {
	id := rec.HubSpotID()
	if id == "" {
		return nil, ErrMissingID
	}
	p := rec.Props()
	return &Ticket{
		HubSpotID:        id,
		TicketName:       p.FirstString("subject", "hs_ticket_subject"),
		Pipeline:         p.String("hs_pipeline"),
		TicketStatus:     p.FirstString("hs_pipeline_stage", "hs_ticket_status"),
		CreatedAt:        p.Time("createdate"),
		Priority:         p.String("hs_ticket_priority"),
		TicketOwner:      p.String("hubspot_owner_id"),
		Source:           p.FirstString("source_type", "created_by_source", "hs_ticket_source"),
		LastActivityDate: p.Time("hs_lastactivitydate"),
		ExtractedAt:      time.Now().UTC(),
	}, nil
}

// MergeFrom patches this ticket with populated incoming fields. CreatedAt is
// never overwritten.
func (t *Ticket) MergeFrom(in *Ticket) {
	patchString(&t.TicketName, in.TicketName)
	patchString(&t.Pipeline, in.Pipeline)
	patchString(&t.TicketStatus, in.TicketStatus)
	patchString(&t.Priority, in.Priority)
	patchString(&t.TicketOwner, in.TicketOwner)
	patchString(&t.Source, in.Source)
	patchTime(&t.LastActivityDate, in.LastActivityDate)
	t.ExtractedAt = time.Now().UTC()
}
