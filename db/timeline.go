// ABOUTME: Timeline event repository keyed on the event identity tuple
package db

import (
	"context"
	"database/sql"

	"github.com/harperreed/hubsync/models"
)

func GetTimelineEvent(ctx context.Context, q Queryer, e *models.TimelineEvent) (*models.TimelineEvent, error) {
	out := &models.TimelineEvent{}
	var description, relatedType, relatedID, relatedName sql.NullString
	var actorID, actorName, metadata sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, contact_hubspot_id, event_type, event_date, description,
			related_object_type, related_object_id, related_object_name,
			actor_id, actor_name, metadata_json, extracted_at
		FROM timeline_events
		WHERE contact_hubspot_id = ? AND event_type = ? AND event_date = ?
			AND related_object_id = ?
	`, e.ContactHubSpotID, e.EventType, e.EventDate, e.RelatedObjectID).Scan(
		&out.ID, &out.ContactHubSpotID, &out.EventType, &out.EventDate,
		&description, &relatedType, &relatedID, &relatedName,
		&actorID, &actorName, &metadata, &out.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out.Description = scanStr(description)
	out.RelatedObjectType = scanStr(relatedType)
	out.RelatedObjectID = scanStr(relatedID)
	out.RelatedObjectName = scanStr(relatedName)
	out.ActorID = scanStr(actorID)
	out.ActorName = scanStr(actorName)
	out.MetadataJSON = scanStr(metadata)
	out.EventDate = out.EventDate.UTC()
	return out, nil
}

func InsertTimelineEvent(ctx context.Context, q Queryer, e *models.TimelineEvent) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO timeline_events (contact_hubspot_id, event_type, event_date,
			description, related_object_type, related_object_id, related_object_name,
			actor_id, actor_name, metadata_json, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ContactHubSpotID, e.EventType, e.EventDate, nullStr(e.Description),
		nullStr(e.RelatedObjectType), e.RelatedObjectID, nullStr(e.RelatedObjectName),
		nullStr(e.ActorID), nullStr(e.ActorName), nullStr(e.MetadataJSON), e.ExtractedAt)
	if err != nil {
		return err
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

func UpdateTimelineEvent(ctx context.Context, q Queryer, e *models.TimelineEvent) error {
	_, err := q.ExecContext(ctx, `
		UPDATE timeline_events SET description = ?, related_object_type = ?,
			related_object_name = ?, actor_id = ?, actor_name = ?, metadata_json = ?,
			extracted_at = ?
		WHERE contact_hubspot_id = ? AND event_type = ? AND event_date = ?
			AND related_object_id = ?
	`, nullStr(e.Description), nullStr(e.RelatedObjectType), nullStr(e.RelatedObjectName),
		nullStr(e.ActorID), nullStr(e.ActorName), nullStr(e.MetadataJSON),
		e.ExtractedAt, e.ContactHubSpotID, e.EventType, e.EventDate, e.RelatedObjectID)
	return err
}

func CountTimelineEvents(ctx context.Context, q Queryer) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM timeline_events`).Scan(&n)
	return n, err
}
