// ABOUTME: Company entity mapped from raw CRM records
package models

import "time"

// Company is one CRM organization record.
type Company struct {
	ID               int64
	HubSpotID        string
	Name             string
	CompanyOwner     string
	CreatedAt        *time.Time
	Phone            string
	LastActivityDate *time.Time
	City             string
	Country          string
	Cvr              string
	PostalCode       string
	Type             string
	ExtractedAt      time.Time
}

// CompanyFromRecord maps a raw record onto a Company.
func CompanyFromRecord(rec *Record) (*Company, error) {
	id := rec.HubSpotID()
	if id == "" {
		return nil, ErrMissingID
	}
	p := rec.Props()
	return &Company{
		HubSpotID:        id,
		Name:             p.String("name"),
		CompanyOwner:     p.String("hubspot_owner_id"),
		CreatedAt:        p.Time("createdate"),
		Phone:            p.String("phone"),
		LastActivityDate: p.FirstTime("hs_last_activity_date", "notes_last_updated"),
		City:             p.String("city"),
		Country:          p.String("country"),
		Cvr:              p.FirstString("cvr", "company_registration_number"),
		PostalCode:       p.FirstString("zip", "postal_code"),
		Type:             p.FirstString("type", "company_type", "hs_company_type"),
		ExtractedAt:      time.Now().UTC(),
	}, nil
}

// MergeFrom patches this company with populated incoming fields. CreatedAt
// is never overwritten.
func (c *Company) MergeFrom(in *Company) {
	patchString(&c.Name, in.Name)
	patchString(&c.CompanyOwner, in.CompanyOwner)
	patchString(&c.Phone, in.Phone)
	patchTime(&c.LastActivityDate, in.LastActivityDate)
	patchString(&c.City, in.City)
	patchString(&c.Country, in.Country)
	patchString(&c.Cvr, in.Cvr)
	patchString(&c.PostalCode, in.PostalCode)
	patchString(&c.Type, in.Type)
	c.ExtractedAt = time.Now().UTC()
}
