// ABOUTME: Run-scoped reference data: owner names, ticket label maps, and the
// ABOUTME: contact display cache, loaded fresh at the start of every pass
package etl

import (
	"context"

	"github.com/harperreed/hubsync/db"
	"github.com/harperreed/hubsync/models"
)

// supportPipelineStages rewrites raw stage ids of the legacy support pipeline
// that the properties API no longer labels.
var supportPipelineStages = map[string]string{
	"1":         "Ny ticket (Support Pipeline)",
	"2":         "Venter på kunde (Support Pipeline)",
	"3":         "Venter på os (Support Pipeline)",
	"4":         "Lukket (Support Pipeline)",
	"861927400": "Venter på montage (Support Pipeline)",
}

type contactInfo struct {
	hubspotID   string
	displayName string
	email       string
}

// runState carries everything one reconciliation pass shares between steps.
// Nothing in here survives the run.
type runState struct {
	runID           string
	owners          map[string]string
	ticketPipelines map[string]string
	ticketStages    map[string]string
	contactInfo     map[string]contactInfo
	// contact id -> company links seen embedded in the contacts fetch
	companyAssoc map[string][]models.RecordAssociation
	counts       map[string]Counts
}

// newRunState loads the reference data for a pass. A failed load degrades to
// an empty map with a warning; raw ids then pass through unresolved.
func (e *Engine) newRunState(ctx context.Context, runID string) *runState {
	st := &runState{
		runID:           runID,
		owners:          map[string]string{},
		ticketPipelines: map[string]string{},
		ticketStages:    map[string]string{},
		contactInfo:     map[string]contactInfo{},
		companyAssoc:    map[string][]models.RecordAssociation{},
		counts:          map[string]Counts{},
	}

	if owners, err := e.gw.Owners(ctx); err != nil {
		e.log.Warn("loading owners failed, ids will pass through", "error", err)
	} else {
		st.owners = owners
	}

	if labels, err := e.gw.PropertyOptions(ctx, "tickets", "hs_pipeline"); err != nil {
		e.log.Warn("loading ticket pipeline labels failed", "error", err)
	} else {
		st.ticketPipelines = labels
	}

	if labels, err := e.gw.PropertyOptions(ctx, "tickets", "hs_pipeline_stage"); err != nil {
		e.log.Warn("loading ticket stage labels failed", "error", err)
	} else {
		st.ticketStages = labels
	}

	return st
}

// resolveOwner maps an owner id to a display name: the owners API first, the
// manual fallback table second, the raw id last.
func (st *runState) resolveOwner(id string) string {
	if id == "" {
		return ""
	}
	if name, ok := st.owners[id]; ok && name != "" {
		return name
	}
	return models.ManualOwnerName(id)
}

// resolveTicketPipeline rewrites a raw pipeline value to its display label.
func (st *runState) resolveTicketPipeline(raw string) string {
	v := raw
	if label, ok := st.ticketPipelines[v]; ok && label != "" {
		v = label
	}
	if v == "0" {
		return "Support Pipeline"
	}
	return v
}

// resolveTicketStage rewrites a raw stage value to its display label, with
// the support pipeline override applied last.
func (st *runState) resolveTicketStage(raw string) string {
	v := raw
	if label, ok := st.ticketStages[v]; ok && label != "" {
		v = label
	}
	if label, ok := supportPipelineStages[v]; ok {
		return label
	}
	return v
}

// resolveContactInfo finds the display name and email for a contact id. The
// cache is consulted first, then the store by either id, then the API. A
// resolved contact is cached under both its ids.
func (e *Engine) resolveContactInfo(ctx context.Context, q db.Queryer, st *runState, id string) (contactInfo, bool) {
	if id == "" {
		return contactInfo{}, false
	}
	if info, ok := st.contactInfo[id]; ok {
		return info, true
	}

	contact, err := db.FindContactByAnyID(ctx, q, id)
	if err != nil {
		e.log.Warn("contact lookup failed", "contact_id", id, "error", err)
		return contactInfo{}, false
	}
	if contact == nil {
		rec, err := e.gw.FetchContact(ctx, id)
		if err != nil {
			e.log.Debug("contact not resolvable", "contact_id", id, "error", err)
			return contactInfo{}, false
		}
		contact, err = models.ContactFromRecord(rec)
		if err != nil {
			return contactInfo{}, false
		}
	}

	info := contactInfo{
		hubspotID:   contact.HubSpotID,
		displayName: contact.DisplayName(),
		email:       contact.Email,
	}
	st.contactInfo[contact.HubSpotID] = info
	if contact.RecordID != "" {
		st.contactInfo[contact.RecordID] = info
	}
	return info, true
}
