// ABOUTME: Derives per-contact timeline events from synced activities,
// ABOUTME: tickets, and property history, then reconciles them by identity
package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/hubsync/db"
	"github.com/harperreed/hubsync/models"
)

var inboundDirections = map[string]bool{
	"INCOMING": true,
	"RECEIVED": true,
	"INBOUND":  true,
	"IN":       true,
}

// syncTimeline rebuilds the derived timeline from whatever the store holds.
// Each derivation source fails independently.
func (e *Engine) syncTimeline(ctx context.Context, st *runState) error {
	var events []*models.TimelineEvent

	if evs, err := e.emailTimelineEvents(ctx); err != nil {
		e.log.Warn("deriving email events failed", "error", err)
	} else {
		events = append(events, evs...)
	}
	if evs, err := e.ticketTimelineEvents(ctx); err != nil {
		e.log.Warn("deriving ticket events failed", "error", err)
	} else {
		events = append(events, evs...)
	}
	if evs, err := e.contactHistoryEvents(ctx); err != nil {
		e.log.Warn("deriving contact history events failed", "error", err)
	} else {
		events = append(events, evs...)
	}
	if evs, err := e.activityCreatedEvents(ctx); err != nil {
		e.log.Warn("deriving activity events failed", "error", err)
	} else {
		events = append(events, evs...)
	}

	if len(events) == 0 {
		e.log.Warn("no timeline events derived",
			"hint", "expected when no activities or tickets reference contacts yet; verify activity feeds and the association steps ran")
		st.counts["timeline_events"] = Counts{}
		return nil
	}

	var counts Counts
	for _, ev := range events {
		existing, err := db.GetTimelineEvent(ctx, e.db, ev)
		if err != nil {
			counts.Failed++
			continue
		}
		if existing == nil {
			if err := db.InsertTimelineEvent(ctx, e.db, ev); err != nil {
				counts.Failed++
				continue
			}
			counts.Inserted++
		} else {
			existing.Description = ev.Description
			existing.RelatedObjectType = ev.RelatedObjectType
			existing.RelatedObjectName = ev.RelatedObjectName
			existing.ActorID = ev.ActorID
			existing.ActorName = ev.ActorName
			existing.MetadataJSON = ev.MetadataJSON
			existing.ExtractedAt = ev.ExtractedAt
			if err := db.UpdateTimelineEvent(ctx, e.db, existing); err != nil {
				counts.Failed++
				continue
			}
			counts.Updated++
		}
	}
	st.counts["timeline_events"] = counts
	e.log.Info("timeline synced",
		"inserted", counts.Inserted, "updated", counts.Updated, "failed", counts.Failed)
	return nil
}

// contactEdges groups stored activity-to-contact edges by activity id.
func (e *Engine) contactEdges(ctx context.Context) (map[string][]string, error) {
	assocs, err := db.ListActivityAssociationsByTarget(ctx, e.db, "contact")
	if err != nil {
		return nil, err
	}
	byActivity := map[string][]string{}
	for _, a := range assocs {
		byActivity[a.ActivityHubSpotID] = append(byActivity[a.ActivityHubSpotID], a.TargetID)
	}
	return byActivity, nil
}

// activityContacts resolves which contacts an activity belongs to: stored
// edges first, the activity's own source reference as fallback.
func activityContacts(a *models.Activity, edges map[string][]string) []string {
	ids := edges[a.HubSpotID]
	if len(ids) == 0 && (a.SourceObjectType == "contact" || a.SourceObjectType == "contacts") && a.SourceObjectID != "" {
		ids = []string{a.SourceObjectID}
	}
	return ids
}

func eventDate(t *time.Time, fallback time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}
	return fallback.UTC()
}

func metadata(pairs map[string]any) string {
	b, err := json.Marshal(pairs)
	if err != nil {
		return ""
	}
	return string(b)
}

func (e *Engine) emailTimelineEvents(ctx context.Context) ([]*models.TimelineEvent, error) {
	activities, err := db.ListActivitiesByType(ctx, e.db, models.ActivityEmail)
	if err != nil {
		return nil, err
	}
	edges, err := e.contactEdges(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var events []*models.TimelineEvent
	for _, a := range activities {
		contacts := activityContacts(a, edges)
		if len(contacts) == 0 || a.Email == nil {
			continue
		}
		detail := a.Email
		date := eventDate(a.ActivityDate, a.ExtractedAt)

		eventType := models.EventEmailSent
		desc := "Email sent to contact"
		if inboundDirections[strings.ToUpper(detail.EmailDirection)] {
			eventType = models.EventEmailReceived
			desc = "Email received from contact"
		}
		if a.Subject != "" {
			desc += ": " + a.Subject
		}
		if a.ActivityOwner != "" {
			desc += " by " + a.ActivityOwner
		}
		meta := metadata(map[string]any{
			"direction": detail.EmailDirection,
			"status":    detail.Status,
		})

		for _, contactID := range contacts {
			events = append(events, &models.TimelineEvent{
				ContactHubSpotID:  contactID,
				EventType:         eventType,
				EventDate:         date,
				Description:       desc,
				RelatedObjectType: "email",
				RelatedObjectID:   a.HubSpotID,
				RelatedObjectName: a.Subject,
				ActorName:         a.ActivityOwner,
				MetadataJSON:      meta,
				ExtractedAt:       now,
			})
		}

		if opens, err := strconv.Atoi(detail.NumberOfEmailOpens); err == nil && opens > 0 {
			desc := fmt.Sprintf("Email opened %d time(s)", opens)
			if a.Subject != "" {
				desc += ": " + a.Subject
			}
			if detail.EmailOpenRate != "" {
				desc += " (Open rate: " + detail.EmailOpenRate + ")"
			}
			meta := metadata(map[string]any{"openCount": opens, "openRate": detail.EmailOpenRate})
			for _, contactID := range contacts {
				events = append(events, &models.TimelineEvent{
					ContactHubSpotID:  contactID,
					EventType:         models.EventEmailOpened,
					EventDate:         date,
					Description:       desc,
					RelatedObjectType: "email",
					RelatedObjectID:   a.HubSpotID,
					RelatedObjectName: a.Subject,
					ActorName:         a.ActivityOwner,
					MetadataJSON:      meta,
					ExtractedAt:       now,
				})
			}
		}

		if clicks, err := strconv.Atoi(detail.NumberOfEmailClicks); err == nil && clicks > 0 {
			desc := fmt.Sprintf("Email clicked %d time(s)", clicks)
			if a.Subject != "" {
				desc += ": " + a.Subject
			}
			if detail.EmailClickRate != "" {
				desc += " (Click rate: " + detail.EmailClickRate + ")"
			}
			meta := metadata(map[string]any{"clickCount": clicks, "clickRate": detail.EmailClickRate})
			for _, contactID := range contacts {
				events = append(events, &models.TimelineEvent{
					ContactHubSpotID:  contactID,
					EventType:         models.EventEmailClicked,
					EventDate:         date,
					Description:       desc,
					RelatedObjectType: "email",
					RelatedObjectID:   a.HubSpotID,
					RelatedObjectName: a.Subject,
					ActorName:         a.ActivityOwner,
					MetadataJSON:      meta,
					ExtractedAt:       now,
				})
			}
		}
	}
	return events, nil
}

func (e *Engine) ticketTimelineEvents(ctx context.Context) ([]*models.TimelineEvent, error) {
	edges, err := db.ListObjectAssociations(ctx, e.db, "ticket", "contact")
	if err != nil {
		return nil, err
	}
	byTicket := map[string][]string{}
	for _, edge := range edges {
		byTicket[edge.SourceID] = append(byTicket[edge.SourceID], edge.TargetID)
	}
	if len(byTicket) == 0 {
		return nil, nil
	}

	tickets, err := db.ListTickets(ctx, e.db)
	if err != nil {
		return nil, err
	}
	ticketsByID := map[string]*models.Ticket{}
	for _, t := range tickets {
		ticketsByID[t.HubSpotID] = t
	}

	now := time.Now().UTC()
	var events []*models.TimelineEvent
	for _, t := range tickets {
		contacts := byTicket[t.HubSpotID]
		if len(contacts) == 0 {
			continue
		}
		desc := "Ticket created"
		if t.TicketName != "" {
			desc += ": " + t.TicketName
		}
		if t.TicketStatus != "" {
			desc += " (Status: " + t.TicketStatus + ")"
		}
		if t.TicketOwner != "" {
			desc += " - Assigned to " + t.TicketOwner
		}
		date := eventDate(t.CreatedAt, t.ExtractedAt)
		for _, contactID := range contacts {
			events = append(events, &models.TimelineEvent{
				ContactHubSpotID:  contactID,
				EventType:         models.EventTicketCreated,
				EventDate:         date,
				Description:       desc,
				RelatedObjectType: "ticket",
				RelatedObjectID:   t.HubSpotID,
				RelatedObjectName: t.TicketName,
				ActorName:         t.TicketOwner,
				MetadataJSON:      metadata(map[string]any{"status": t.TicketStatus, "pipeline": t.Pipeline}),
				ExtractedAt:       now,
			})
		}
	}

	changes, err := db.ListPropertyHistory(ctx, e.db, "ticket", "hs_pipeline_stage")
	if err != nil {
		return events, err
	}
	for _, change := range changes {
		contacts := byTicket[change.ObjectID]
		if len(contacts) == 0 {
			continue
		}
		desc := "Ticket status changed"
		if change.OldValue != "" {
			desc += " from " + change.OldValue
		}
		if change.NewValue != "" {
			desc += " to " + change.NewValue
		}
		var ticketName string
		if t := ticketsByID[change.ObjectID]; t != nil {
			ticketName = t.TicketName
		}
		if ticketName != "" {
			desc += ": " + ticketName
		}
		for _, contactID := range contacts {
			events = append(events, &models.TimelineEvent{
				ContactHubSpotID:  contactID,
				EventType:         models.EventTicketStatusChanged,
				EventDate:         change.ChangeDate,
				Description:       desc,
				RelatedObjectType: "ticket",
				RelatedObjectID:   change.ObjectID,
				RelatedObjectName: ticketName,
				ActorID:           change.Source,
				MetadataJSON:      metadata(map[string]any{"oldStatus": change.OldValue, "newStatus": change.NewValue}),
				ExtractedAt:       now,
			})
		}
	}
	return events, nil
}

func (e *Engine) contactHistoryEvents(ctx context.Context) ([]*models.TimelineEvent, error) {
	now := time.Now().UTC()
	var events []*models.TimelineEvent
	for _, tracked := range []struct {
		property  string
		eventType string
		label     string
	}{
		{"lifecyclestage", models.EventLifecycleChanged, "Lifecycle stage"},
		{"hs_lead_status", models.EventLeadStatusChanged, "Lead status"},
	} {
		changes, err := db.ListPropertyHistory(ctx, e.db, "contact", tracked.property)
		if err != nil {
			return events, err
		}
		for _, change := range changes {
			desc := tracked.label + " changed"
			if change.OldValue != "" {
				desc += " from " + change.OldValue
			}
			if change.NewValue != "" {
				desc += " to " + change.NewValue
			}
			events = append(events, &models.TimelineEvent{
				ContactHubSpotID:  change.ObjectID,
				EventType:         tracked.eventType,
				EventDate:         change.ChangeDate,
				Description:       desc,
				RelatedObjectType: "contact",
				RelatedObjectID:   change.ObjectID,
				ActorID:           change.Source,
				MetadataJSON:      metadata(map[string]any{"oldValue": change.OldValue, "newValue": change.NewValue}),
				ExtractedAt:       now,
			})
		}
	}
	return events, nil
}

func (e *Engine) activityCreatedEvents(ctx context.Context) ([]*models.TimelineEvent, error) {
	activities, err := db.ListActivities(ctx, e.db)
	if err != nil {
		return nil, err
	}
	edges, err := e.contactEdges(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var events []*models.TimelineEvent
	for _, a := range activities {
		if a.ActivityType == models.ActivityEmail {
			continue
		}
		contacts := activityContacts(a, edges)
		if len(contacts) == 0 {
			continue
		}
		desc := describeActivity(a)
		date := eventDate(a.ActivityDate, a.ExtractedAt)
		for _, contactID := range contacts {
			events = append(events, &models.TimelineEvent{
				ContactHubSpotID:  contactID,
				EventType:         strings.ToLower(a.ActivityType) + "_created",
				EventDate:         date,
				Description:       desc,
				RelatedObjectType: strings.ToLower(a.ActivityType),
				RelatedObjectID:   a.HubSpotID,
				RelatedObjectName: a.Subject,
				ActorName:         a.ActivityOwner,
				MetadataJSON:      metadata(map[string]any{"status": a.Status}),
				ExtractedAt:       now,
			})
		}
	}
	return events, nil
}

func describeActivity(a *models.Activity) string {
	switch a.ActivityType {
	case models.ActivityCall:
		desc := a.Subject
		if desc == "" {
			desc = "Call"
		}
		if a.Call != nil && a.Call.CallDirection != "" {
			desc += " (" + a.Call.CallDirection + ")"
		}
		if a.Status != "" {
			desc += " - Status: " + a.Status
		}
		if a.ActivityOwner != "" {
			desc += " by " + a.ActivityOwner
		}
		return desc
	case models.ActivityMeeting:
		desc := a.Subject
		if a.Meeting != nil && a.Meeting.MeetingName != "" {
			desc = a.Meeting.MeetingName
		}
		if desc == "" {
			desc = "Meeting"
		}
		if a.Status != "" {
			desc += " - Status: " + a.Status
		}
		if a.Meeting != nil && a.Meeting.StartTime != nil {
			desc += " (Start: " + a.Meeting.StartTime.UTC().Format("2006-01-02 15:04") + ")"
		}
		if a.Meeting != nil && a.Meeting.MeetingLocation != "" {
			desc += " - Location: " + a.Meeting.MeetingLocation
		}
		if a.ActivityOwner != "" {
			desc += " by " + a.ActivityOwner
		}
		return desc
	case models.ActivityTask:
		desc := a.Subject
		if desc == "" {
			desc = "Task"
		}
		if a.Task != nil && a.Task.TaskType != "" {
			desc += " (Type: " + a.Task.TaskType + ")"
		}
		if a.Status != "" {
			desc += " - Status: " + a.Status
		}
		if a.Task != nil && a.Task.Priority != "" {
			desc += " - Priority: " + a.Task.Priority
		}
		if a.ActivityOwner != "" {
			desc += " by " + a.ActivityOwner
		}
		return desc
	case models.ActivityNote:
		desc := a.Subject
		if desc == "" && a.Body != "" {
			desc = a.Body
			if runes := []rune(desc); len(runes) > 100 {
				desc = string(runes[:100]) + "..."
			}
		}
		if desc == "" {
			desc = "Note"
		}
		if a.ActivityOwner != "" {
			desc += " by " + a.ActivityOwner
		}
		return desc
	default:
		desc := a.ActivityType + " activity"
		if a.ActivityOwner != "" {
			desc += " by " + a.ActivityOwner
		}
		return desc
	}
}
