// ABOUTME: Relationship reconciliation: the contact-company pairing step and
// ABOUTME: the declarative matrix of batched object-to-object reads
package etl

import (
	"context"
	"strconv"
	"time"

	"github.com/harperreed/hubsync/db"
	"github.com/harperreed/hubsync/hubspot"
	"github.com/harperreed/hubsync/models"
)

// syncContactCompanyAssociations pairs every stored contact with its
// companies. The forward batch read is merged with the links embedded in the
// contacts fetch; a reverse read runs only when both come back empty.
func (e *Engine) syncContactCompanyAssociations(ctx context.Context, q db.Queryer, st *runState) error {
	contactIDs, err := db.ListContactIDs(ctx, q)
	if err != nil {
		return err
	}
	if len(contactIDs) == 0 {
		e.log.Info("no contacts stored, skipping contact-company pairing")
		st.counts["contact_company_associations"] = Counts{}
		return nil
	}

	companyIDs, err := db.ListCompanyIDs(ctx, q)
	if err != nil {
		return err
	}

	// Sample-check a handful of ids so an empty result later is attributable.
	sample := contactIDs
	if len(sample) > 5 {
		sample = sample[:5]
	}
	if hits, err := e.gw.BatchAssociations(ctx, "contacts", "companies", sample); err != nil {
		e.log.Warn("association sample check failed", "error", err)
	} else {
		e.log.Info("association sample check", "sampled", len(sample), "with_companies", len(hits))
	}

	now := time.Now().UTC()
	pairs := map[string]map[string]*models.ContactCompanyAssociation{}
	addPair := func(contactID, companyID, source string) *models.ContactCompanyAssociation {
		if contactID == "" || companyID == "" {
			return nil
		}
		if pairs[contactID] == nil {
			pairs[contactID] = map[string]*models.ContactCompanyAssociation{}
		}
		a := pairs[contactID][companyID]
		if a == nil {
			a = &models.ContactCompanyAssociation{
				ContactHubSpotID: contactID,
				CompanyHubSpotID: companyID,
				Source:           source,
				ExtractedAt:      now,
			}
			pairs[contactID][companyID] = a
		}
		return a
	}

	forward, err := e.gw.BatchAssociations(ctx, "contacts", "companies", contactIDs)
	if err != nil {
		return err
	}
	for contactID, details := range forward {
		for _, d := range details {
			a := addPair(contactID, d.TargetID, "ASSOCIATIONS_API")
			if a == nil {
				continue
			}
			if a.Label == "" {
				a.Label = d.Label
			}
			if a.LabelsJSON == "" {
				a.LabelsJSON = models.BuildLabelsJSON(d.Label, d.AllLabels)
			}
			if a.CreatedAt == nil {
				a.CreatedAt = d.CreatedAt
			}
			if a.UpdatedAt == nil {
				a.UpdatedAt = d.UpdatedAt
			}
			if a.SourceID == "" && d.TypeID != nil {
				a.SourceID = strconv.Itoa(*d.TypeID)
			}
		}
	}
	for contactID, links := range st.companyAssoc {
		for _, link := range links {
			a := addPair(contactID, link.TargetID, "EMBEDDED")
			if a == nil {
				continue
			}
			if a.Label == "" {
				a.Label = link.Label
			}
			if a.LabelsJSON == "" {
				a.LabelsJSON = models.BuildLabelsJSON(link.Label, link.AllLabels)
			}
			if a.SourceID == "" && link.TypeID != nil {
				a.SourceID = strconv.Itoa(*link.TypeID)
			}
		}
	}

	if len(pairs) == 0 && len(companyIDs) > 0 {
		reverse, err := e.gw.BatchAssociations(ctx, "companies", "contacts", companyIDs)
		if err != nil {
			e.log.Warn("reverse association read failed", "error", err)
		} else {
			for companyID, details := range reverse {
				for _, d := range details {
					addPair(d.TargetID, companyID, "REVERSE_READ")
				}
			}
		}
	}

	if len(pairs) == 0 {
		e.log.Warn("no contact-company associations found",
			"contacts", len(contactIDs),
			"companies", len(companyIDs),
			"hint", "check that the token has crm.objects.contacts.read and crm.objects.companies.read scopes and that contacts actually carry company links")
		st.counts["contact_company_associations"] = Counts{}
		return nil
	}

	var counts Counts
	for contactID, companies := range pairs {
		for companyID, incoming := range companies {
			existing, err := db.GetContactCompanyAssociation(ctx, q, contactID, companyID)
			if err != nil {
				counts.Failed++
				e.log.Warn("pairing lookup failed", "contact", contactID, "company", companyID, "error", err)
				continue
			}
			if existing == nil {
				if err := db.InsertContactCompanyAssociation(ctx, q, incoming); err != nil {
					counts.Failed++
					e.log.Warn("pairing insert failed", "contact", contactID, "company", companyID, "error", err)
					continue
				}
				counts.Inserted++
			} else {
				existing.MergeFrom(incoming)
				if err := db.UpdateContactCompanyAssociation(ctx, q, existing); err != nil {
					counts.Failed++
					continue
				}
				counts.Updated++
			}
		}
	}
	st.counts["contact_company_associations"] = counts
	e.log.Info("contact-company associations synced",
		"inserted", counts.Inserted, "updated", counts.Updated, "failed", counts.Failed)
	return nil
}

// matrixPair names one directed relationship the matrix step reads. The api*
// names feed the batch endpoint; the store* names are the singular forms the
// edges persist under.
type matrixPair struct {
	apiSource   string
	apiTarget   string
	storeSource string
	storeTarget string
	sourceIDs   func(ctx context.Context, q db.Queryer) ([]string, error)
}

func (e *Engine) matrix() []matrixPair {
	meetingIDs := func(ctx context.Context, q db.Queryer) ([]string, error) {
		return db.ListActivityIDsByType(ctx, q, models.ActivityMeeting)
	}
	taskIDs := func(ctx context.Context, q db.Queryer) ([]string, error) {
		return db.ListActivityIDsByType(ctx, q, models.ActivityTask)
	}
	return []matrixPair{
		{"contacts", "deals", "contact", "deal", db.ListContactIDs},
		{"contacts", "tickets", "contact", "ticket", db.ListContactIDs},
		{"companies", "deals", "company", "deal", db.ListCompanyIDs},
		{"companies", "tickets", "company", "ticket", db.ListCompanyIDs},
		{"deals", "tickets", "deal", "ticket", db.ListDealIDs},
		{"tickets", "calls", "ticket", "call", db.ListTicketIDs},
		{"tickets", "emails", "ticket", "email", db.ListTicketIDs},
		{"tickets", "notes", "ticket", "note", db.ListTicketIDs},
		{"tickets", "tasks", "ticket", "task", db.ListTicketIDs},
		{"tickets", "meetings", "ticket", "meeting", db.ListTicketIDs},
		{"tickets", "contacts", "ticket", "contact", db.ListTicketIDs},
		{"emails", "deals", "email", "deal", db.ListEmailIDs},
		{"emails", "companies", "email", "company", db.ListEmailIDs},
		{"emails", "tickets", "email", "ticket", db.ListEmailIDs},
		{"meetings", "deals", "meeting", "deal", meetingIDs},
		{"meetings", "companies", "meeting", "company", meetingIDs},
		{"meetings", "tickets", "meeting", "ticket", meetingIDs},
		{"tasks", "deals", "task", "deal", taskIDs},
		{"tasks", "companies", "task", "company", taskIDs},
		{"tasks", "tickets", "task", "ticket", taskIDs},
	}
}

// syncObjectAssociations walks the relationship matrix. A failed pair is
// logged and skipped; the rest of the matrix still runs.
func (e *Engine) syncObjectAssociations(ctx context.Context, q db.Queryer, st *runState) error {
	var counts Counts
	for _, pair := range e.matrix() {
		ids, err := pair.sourceIDs(ctx, q)
		if err != nil {
			e.log.Warn("listing source ids failed", "source", pair.storeSource, "target", pair.storeTarget, "error", err)
			continue
		}
		if len(ids) == 0 {
			continue
		}
		edges, err := e.gw.BatchAssociations(ctx, pair.apiSource, pair.apiTarget, ids)
		if err != nil {
			e.log.Warn("association read failed", "source", pair.storeSource, "target", pair.storeTarget, "error", err)
			continue
		}
		c, err := e.upsertObjectEdges(ctx, q, pair, edges)
		counts.Inserted += c.Inserted
		counts.Updated += c.Updated
		counts.Failed += c.Failed
		if err != nil {
			return err
		}
	}
	st.counts["object_associations"] = counts
	e.log.Info("object associations synced",
		"inserted", counts.Inserted, "updated", counts.Updated, "failed", counts.Failed)
	return nil
}

func (e *Engine) upsertObjectEdges(ctx context.Context, q db.Queryer, pair matrixPair, edges map[string][]hubspot.AssociationDetail) (Counts, error) {
	var counts Counts
	now := time.Now().UTC()
	for sourceID, details := range edges {
		for _, d := range details {
			incoming := &models.ObjectAssociation{
				SourceType:  pair.storeSource,
				SourceID:    sourceID,
				TargetType:  pair.storeTarget,
				TargetID:    d.TargetID,
				Label:       d.Label,
				LabelsJSON:  models.BuildLabelsJSON(d.Label, d.AllLabels),
				TypeID:      d.TypeID,
				Category:    d.Category,
				CreatedAt:   d.CreatedAt,
				UpdatedAt:   d.UpdatedAt,
				IsPrimary:   models.IsPrimaryLabel(d.Label),
				ExtractedAt: now,
			}
			existing, err := db.GetObjectAssociation(ctx, q, incoming.SourceType, incoming.SourceID, incoming.TargetType, incoming.TargetID)
			if err != nil {
				counts.Failed++
				e.log.Warn("edge lookup failed", "source", sourceID, "target", d.TargetID, "error", err)
				continue
			}
			if existing == nil {
				if err := db.InsertObjectAssociation(ctx, q, incoming); err != nil {
					counts.Failed++
					e.log.Warn("edge insert failed", "source", sourceID, "target", d.TargetID, "error", err)
					continue
				}
				counts.Inserted++
			} else {
				existing.MergeFrom(incoming)
				if err := db.UpdateObjectAssociation(ctx, q, existing); err != nil {
					counts.Failed++
					continue
				}
				counts.Updated++
			}
		}
	}
	return counts, nil
}
