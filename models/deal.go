// ABOUTME: Deal entity mapped from raw CRM records
// ABOUTME: Unlike the other entities, merge does refresh CreatedAt when present
package models

import "time"

// Deal is one CRM sales opportunity.
type Deal struct {
	ID          int64
	HubSpotID   string
	DealName    string
	DealStage   string
	Pipeline    string
	CloseDate   *time.Time
	DealOwner   string
	Amount      *float64
	DealType    string
	CreatedAt   *time.Time
	ExtractedAt time.Time
}

// DealFromRecord maps a raw record onto a Deal.
func DealFromRecord(rec *Record) (*Deal, error) {
	id := rec.HubSpotID()
	if id == "" {
		return nil, ErrMissingID
	}
	p := rec.Props()
	return &Deal{
		HubSpotID:   id,
		DealName:    p.String("dealname"),
		DealStage:   p.String("dealstage"),
		Pipeline:    p.String("pipeline"),
		CloseDate:   p.Time("closedate"),
		DealOwner:   p.String("hubspot_owner_id"),
		Amount:      p.Float("amount"),
		DealType:    p.String("dealtype"),
		CreatedAt:   p.Time("createdate"),
		ExtractedAt: time.Now().UTC(),
	}, nil
}

// MergeFrom patches this deal with populated incoming fields, including a
// populated CreatedAt.
func (d *Deal) MergeFrom(in *Deal) {
	patchString(&d.DealName, in.DealName)
	patchString(&d.DealStage, in.DealStage)
	patchString(&d.Pipeline, in.Pipeline)
	patchTime(&d.CloseDate, in.CloseDate)
	patchString(&d.DealOwner, in.DealOwner)
	patchFloat(&d.Amount, in.Amount)
	patchString(&d.DealType, in.DealType)
	patchTime(&d.CreatedAt, in.CreatedAt)
	d.ExtractedAt = time.Now().UTC()
}
