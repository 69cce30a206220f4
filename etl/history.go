// ABOUTME: Change-history sync for the tracked properties of each object kind
package etl

import (
	"context"

	"github.com/harperreed/hubsync/db"
	"github.com/harperreed/hubsync/models"
)

// trackedProperties names the one property per object kind whose history is
// pulled and folded into transition rows.
var trackedProperties = []struct {
	objectType string
	property   string
	ids        func(ctx context.Context, q db.Queryer) ([]string, error)
}{
	{"contact", "hs_lead_status", db.ListContactIDs},
	{"deal", "dealstage", db.ListDealIDs},
	{"ticket", "hs_pipeline_stage", db.ListTicketIDs},
	{"company", "meeting_invite", db.ListCompanyIDs},
}

// syncPropertyHistory runs per-object history pulls for every tracked
// property. One object failing is logged and skipped.
func (e *Engine) syncPropertyHistory(ctx context.Context, st *runState) error {
	var counts Counts
	for _, tracked := range trackedProperties {
		ids, err := tracked.ids(ctx, e.db)
		if err != nil {
			e.log.Warn("listing ids for history failed", "object_type", tracked.objectType, "error", err)
			continue
		}
		for _, id := range ids {
			entries, err := e.gw.PropertyHistory(ctx, tracked.objectType, id, tracked.property)
			if err != nil {
				counts.Failed++
				e.log.Warn("history fetch failed",
					"object_type", tracked.objectType, "object_id", id,
					"property", tracked.property, "error", err)
				continue
			}
			transitions := models.FoldPropertyHistory(tracked.objectType, id, tracked.property, entries)
			for _, h := range transitions {
				existing, err := db.GetPropertyHistory(ctx, e.db, h)
				if err != nil {
					counts.Failed++
					continue
				}
				if existing == nil {
					if err := db.InsertPropertyHistory(ctx, e.db, h); err != nil {
						counts.Failed++
						continue
					}
					counts.Inserted++
				} else {
					existing.MergeFrom(h)
					if err := db.UpdatePropertyHistory(ctx, e.db, existing); err != nil {
						counts.Failed++
						continue
					}
					counts.Updated++
				}
			}
		}
	}
	st.counts["property_history"] = counts
	e.log.Info("property history synced",
		"inserted", counts.Inserted, "updated", counts.Updated, "failed", counts.Failed)
	return nil
}
