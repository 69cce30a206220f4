// ABOUTME: Activity ingestion across the six engagement feeds
// ABOUTME: Runs after the entity commit; each feed fails independently
package etl

import (
	"context"
	"time"

	"github.com/harperreed/hubsync/db"
	"github.com/harperreed/hubsync/models"
)

// activityFeeds enumerates the engagement endpoints and the discriminator
// each one maps to.
var activityFeeds = []struct {
	objectType   string
	activityType string
}{
	{"calls", models.ActivityCall},
	{"emails", models.ActivityEmail},
	{"meetings", models.ActivityMeeting},
	{"tasks", models.ActivityTask},
	{"notes", models.ActivityNote},
	{"sms", models.ActivitySMS},
}

var activityOps = entityOps[models.Activity]{
	name:   "activity",
	key:    func(a *models.Activity) string { return a.HubSpotID },
	find:   db.GetActivityByHubSpotID,
	insert: db.InsertActivity,
	update: db.UpdateActivity,
	merge:  func(existing, incoming *models.Activity) { existing.MergeFrom(incoming) },
}

// syncActivities ingests every feed. A feed that fails is logged and skipped
// so a broken endpoint cannot starve the others.
func (e *Engine) syncActivities(ctx context.Context, st *runState) error {
	var counts Counts
	for _, feed := range activityFeeds {
		c, err := e.syncActivityFeed(ctx, feed.objectType, feed.activityType, st)
		counts.Inserted += c.Inserted
		counts.Updated += c.Updated
		counts.Failed += c.Failed
		if err != nil {
			e.log.Warn("activity feed failed", "feed", feed.objectType, "error", err)
		}
	}
	st.counts["activities"] = counts
	e.log.Info("activities synced",
		"inserted", counts.Inserted, "updated", counts.Updated, "failed", counts.Failed)
	return nil
}

func (e *Engine) syncActivityFeed(ctx context.Context, objectType, activityType string, st *runState) (Counts, error) {
	records, err := e.fetchAllRecords(ctx, objectType)
	if err != nil {
		return Counts{}, err
	}

	var activities []*models.Activity
	assocByActivity := map[string][]models.RecordAssociation{}
	for _, rec := range records {
		a, err := models.ActivityFromRecord(activityType, rec)
		if err != nil {
			e.log.Warn("skipping activity record", "feed", objectType, "error", err)
			continue
		}
		a.ActivityOwner = st.resolveOwner(a.ActivityOwner)
		if a.SourceObjectType == "contacts" || a.SourceObjectType == "contact" {
			if info, ok := e.resolveContactInfo(ctx, e.db, st, a.SourceObjectID); ok {
				a.SourceObjectName = info.displayName
				a.SourceObjectEmail = info.email
			}
		}
		activities = append(activities, a)
		assocByActivity[a.HubSpotID] = models.ExtractRecordAssociations(rec)
	}

	counts, err := upsertAll(ctx, e.db, e.log, activityOps, activities, e.flushSize)
	if err != nil {
		return counts, err
	}

	if err := e.upsertActivityAssociations(ctx, assocByActivity); err != nil {
		return counts, err
	}
	return counts, nil
}

// upsertActivityAssociations stores the embedded edges of each activity. The
// freshest non-empty label wins on conflict.
func (e *Engine) upsertActivityAssociations(ctx context.Context, byActivity map[string][]models.RecordAssociation) error {
	now := time.Now().UTC()
	for activityID, assocs := range byActivity {
		for _, assoc := range assocs {
			existing, err := db.GetActivityAssociation(ctx, e.db, activityID, assoc.TargetType, assoc.TargetID)
			if err != nil {
				return err
			}
			if existing == nil {
				err = db.InsertActivityAssociation(ctx, e.db, &models.ActivityAssociation{
					ActivityHubSpotID: activityID,
					TargetType:        assoc.TargetType,
					TargetID:          assoc.TargetID,
					Label:             assoc.Label,
					ExtractedAt:       now,
				})
			} else {
				if assoc.Label != "" {
					existing.Label = assoc.Label
				}
				existing.ExtractedAt = now
				err = db.UpdateActivityAssociation(ctx, e.db, existing)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
