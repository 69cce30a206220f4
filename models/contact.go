// ABOUTME: Contact entity mapped from raw CRM records
// ABOUTME: Merge keeps the stored creation date and patches only non-empty fields
package models

import (
	"strings"
	"time"
)

// Contact is one CRM person record.
type Contact struct {
	ID                 int64
	HubSpotID          string
	RecordID           string
	FullName           string
	Email              string
	Phone              string
	ContactOwner       string
	Company            string
	LastActivityDate   *time.Time
	LeadStatus         string
	LifecycleStage     string
	PostalCode         string
	ContactType        string
	InverterBrand      string
	LastContacted      *time.Time
	CreatedAt          *time.Time
	AnalyticsSource    string
	AnalyticsSourceOne string
	AnalyticsSourceTwo string
	ExtractedAt        time.Time
}

// ContactFromRecord maps a raw record onto a Contact. The owner id is left
// unresolved; the reconciler swaps it for a display name afterwards.
func ContactFromRecord(rec *Record) (*Contact, error) {
	id := rec.HubSpotID()
	if id == "" {
		return nil, ErrMissingID
	}
	p := rec.Props()
	return &Contact{
		HubSpotID:          id,
		RecordID:           p.FirstString("hs_object_id", "id"),
		FullName:           joinName(p.String("firstname"), p.String("lastname")),
		Email:              p.String("email"),
		Phone:              p.String("phone"),
		ContactOwner:       p.String("hubspot_owner_id"),
		Company:            p.String("company"),
		LastActivityDate:   p.FirstTime("notes_last_activity_date", "notes_last_updated"),
		LeadStatus:         p.String("hs_lead_status"),
		LifecycleStage:     p.String("lifecyclestage"),
		PostalCode:         p.String("zip"),
		ContactType:        p.String("contact_type"),
		InverterBrand:      p.String("inverter_brand"),
		LastContacted:      p.Time("notes_last_contacted"),
		CreatedAt:          p.Time("createdate"),
		AnalyticsSource:    p.String("hs_analytics_source"),
		AnalyticsSourceOne: p.String("hs_analytics_source_data_1"),
		AnalyticsSourceTwo: p.String("hs_analytics_source_data_2"),
		ExtractedAt:        time.Now().UTC(),
	}, nil
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// MergeFrom patches this contact with every populated field from the incoming
// one. CreatedAt is never overwritten; the extraction stamp always moves.
func (c *Contact) MergeFrom(in *Contact) {
	patchString(&c.RecordID, in.RecordID)
	patchString(&c.FullName, in.FullName)
	patchString(&c.Email, in.Email)
	patchString(&c.Phone, in.Phone)
	patchString(&c.ContactOwner, in.ContactOwner)
	patchString(&c.Company, in.Company)
	patchTime(&c.LastActivityDate, in.LastActivityDate)
	patchString(&c.LeadStatus, in.LeadStatus)
	patchString(&c.LifecycleStage, in.LifecycleStage)
	patchString(&c.PostalCode, in.PostalCode)
	patchString(&c.ContactType, in.ContactType)
	patchString(&c.InverterBrand, in.InverterBrand)
	patchTime(&c.LastContacted, in.LastContacted)
	patchString(&c.AnalyticsSource, in.AnalyticsSource)
	patchString(&c.AnalyticsSourceOne, in.AnalyticsSourceOne)
	patchString(&c.AnalyticsSourceTwo, in.AnalyticsSourceTwo)
	c.ExtractedAt = time.Now().UTC()
}

// DisplayName is the label used when a contact shows up on another record.
func (c *Contact) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	if c.Email != "" {
		return c.Email
	}
	return c.HubSpotID
}
