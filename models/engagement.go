// ABOUTME: Communication, logged email, and note engagement entities
// ABOUTME: Bodies are stripped of markup where the source sends rendered HTML
package models

import "time"

// Communication is one logged conversation (chat, SMS thread, etc).
type Communication struct {
	ID                    int64
	HubSpotID             string
	ChannelType           string
	CommunicationBody     string
	AssociatedContactID   string
	AssociatedContactName string
	AssociatedContactMail string
	AssignedTo            string
	ActivityDate          *time.Time
	ExtractedAt           time.Time
}

// CommunicationFromRecord maps a raw record onto a Communication. Contact
// name and mail stay empty until the reconciler enriches them.
func CommunicationFromRecord(rec *Record) (*Communication, error) {
	id := rec.HubSpotID()
	if id == "" {
		return nil, ErrMissingID
	}
	p := rec.Props()
	return &Communication{
		HubSpotID:           id,
		ChannelType:         p.FirstString("hs_communication_channel_type", "hs_channel_type"),
		CommunicationBody:   StripHTML(p.FirstString("hs_communication_body", "hs_body_preview")),
		AssociatedContactID: rec.FirstAssociatedID("contacts"),
		AssignedTo:          p.String("hubspot_owner_id"),
		ActivityDate:        p.FirstTime("hs_timestamp", "hs_createdate"),
		ExtractedAt:         time.Now().UTC(),
	}, nil
}

// MergeFrom patches this communication with populated incoming fields.
func (c *Communication) MergeFrom(in *Communication) {
	patchString(&c.ChannelType, in.ChannelType)
	patchString(&c.CommunicationBody, in.CommunicationBody)
	patchString(&c.AssociatedContactID, in.AssociatedContactID)
	patchString(&c.AssociatedContactName, in.AssociatedContactName)
	patchString(&c.AssociatedContactMail, in.AssociatedContactMail)
	patchString(&c.AssignedTo, in.AssignedTo)
	patchTime(&c.ActivityDate, in.ActivityDate)
	c.ExtractedAt = time.Now().UTC()
}

// Email is one logged email engagement. The body keeps its markup so the
// original rendering survives.
type Email struct {
	ID                  int64
	HubSpotID           string
	EmailSubject        string
	ActivityDate        *time.Time
	AssociatedContactID string
	AssignedTo          string
	EmailBody           string
	EmailSendStatus     string
	ExtractedAt         time.Time
}

// EmailFromRecord maps a raw record onto an Email.
func EmailFromRecord(rec *Record) (*Email, error) {
	id := rec.HubSpotID()
	if id == "" {
		return nil, ErrMissingID
	}
	p := rec.Props()
	return &Email{
		HubSpotID:           id,
		EmailSubject:        p.String("hs_email_subject"),
		ActivityDate:        p.FirstTime("hs_timestamp", "hs_createdate"),
		AssociatedContactID: rec.FirstAssociatedID("contacts"),
		AssignedTo:          p.String("hubspot_owner_id"),
		EmailBody:           p.FirstString("hs_email_html", "hs_email_text"),
		EmailSendStatus:     p.String("hs_email_status"),
		ExtractedAt:         time.Now().UTC(),
	}, nil
}

// MergeFrom patches this email with populated incoming fields.
func (e *Email) MergeFrom(in *Email) {
	patchString(&e.EmailSubject, in.EmailSubject)
	patchTime(&e.ActivityDate, in.ActivityDate)
	patchString(&e.AssociatedContactID, in.AssociatedContactID)
	patchString(&e.AssignedTo, in.AssignedTo)
	patchString(&e.EmailBody, in.EmailBody)
	patchString(&e.EmailSendStatus, in.EmailSendStatus)
	e.ExtractedAt = time.Now().UTC()
}

// Note is one logged note engagement.
type Note struct {
	ID           int64
	HubSpotID    string
	BodyPreview  string
	AssignedTo   string
	ActivityDate *time.Time
	ExtractedAt  time.Time
}

// NoteFromRecord maps a raw record onto a Note.
func NoteFromRecord(rec *Record) (*Note, error) {
	id := rec.HubSpotID()
	if id == "" {
		return nil, ErrMissingID
	}
	p := rec.Props()
	return &Note{
		HubSpotID:    id,
		BodyPreview:  StripHTML(p.String("hs_note_body")),
		AssignedTo:   p.String("hubspot_owner_id"),
		ActivityDate: p.FirstTime("hs_timestamp", "hs_createdate"),
		ExtractedAt:  time.Now().UTC(),
	}, nil
}

// MergeFrom patches this note with populated incoming fields.
func (n *Note) MergeFrom(in *Note) {
	patchString(&n.BodyPreview, in.BodyPreview)
	patchString(&n.AssignedTo, in.AssignedTo)
	patchTime(&n.ActivityDate, in.ActivityDate)
	n.ExtractedAt = time.Now().UTC()
}
