// ABOUTME: Activity repository with eager-loaded detail payloads
// ABOUTME: Detail variants persist as typed JSON in a one-row side table
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/harperreed/hubsync/models"
)

const activityColumns = `a.id, a.hubspot_id, a.record_id, a.activity_type, a.subject,
	a.body, a.activity_owner, a.source_object_type, a.source_object_id,
	a.source_object_name, a.source_object_email, a.activity_date, a.status,
	a.extracted_at, d.detail_type, d.detail_json`

const activityJoin = `FROM activities a
	LEFT JOIN activity_details d ON d.activity_hubspot_id = a.hubspot_id`

func scanActivity(row interface{ Scan(...any) error }) (*models.Activity, error) {
	a := &models.Activity{}
	var recordID, subject, body, owner, srcType, srcID, srcName, srcMail, status sql.NullString
	var activityDate sql.NullTime
	var detailType, detailJSON sql.NullString
	err := row.Scan(&a.ID, &a.HubSpotID, &recordID, &a.ActivityType, &subject,
		&body, &owner, &srcType, &srcID, &srcName, &srcMail, &activityDate,
		&status, &a.ExtractedAt, &detailType, &detailJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.RecordID = scanStr(recordID)
	a.Subject = scanStr(subject)
	a.Body = scanStr(body)
	a.ActivityOwner = scanStr(owner)
	a.SourceObjectType = scanStr(srcType)
	a.SourceObjectID = scanStr(srcID)
	a.SourceObjectName = scanStr(srcName)
	a.SourceObjectEmail = scanStr(srcMail)
	a.ActivityDate = scanTime(activityDate)
	a.Status = scanStr(status)
	if detailType.Valid && detailJSON.Valid {
		if err := a.AttachDetailJSON(detailType.String, []byte(detailJSON.String)); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func GetActivityByHubSpotID(ctx context.Context, q Queryer, hubspotID string) (*models.Activity, error) {
	row := q.QueryRowContext(ctx, `SELECT `+activityColumns+` `+activityJoin+` WHERE a.hubspot_id = ?`, hubspotID)
	return scanActivity(row)
}

func InsertActivity(ctx context.Context, q Queryer, a *models.Activity) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO activities (hubspot_id, record_id, activity_type, subject, body,
			activity_owner, source_object_type, source_object_id, source_object_name,
			source_object_email, activity_date, status, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.HubSpotID, nullStr(a.RecordID), a.ActivityType, nullStr(a.Subject),
		nullStr(a.Body), nullStr(a.ActivityOwner), nullStr(a.SourceObjectType),
		nullStr(a.SourceObjectID), nullStr(a.SourceObjectName),
		nullStr(a.SourceObjectEmail), nullTime(a.ActivityDate), nullStr(a.Status),
		a.ExtractedAt)
	if err != nil {
		return err
	}
	a.ID, _ = res.LastInsertId()
	return saveActivityDetail(ctx, q, a)
}

func UpdateActivity(ctx context.Context, q Queryer, a *models.Activity) error {
	_, err := q.ExecContext(ctx, `
		UPDATE activities SET record_id = ?, subject = ?, body = ?, activity_owner = ?,
			source_object_type = ?, source_object_id = ?, source_object_name = ?,
			source_object_email = ?, activity_date = ?, status = ?, extracted_at = ?
		WHERE hubspot_id = ?
	`, nullStr(a.RecordID), nullStr(a.Subject), nullStr(a.Body),
		nullStr(a.ActivityOwner), nullStr(a.SourceObjectType),
		nullStr(a.SourceObjectID), nullStr(a.SourceObjectName),
		nullStr(a.SourceObjectEmail), nullTime(a.ActivityDate), nullStr(a.Status),
		a.ExtractedAt, a.HubSpotID)
	if err != nil {
		return err
	}
	return saveActivityDetail(ctx, q, a)
}

func saveActivityDetail(ctx context.Context, q Queryer, a *models.Activity) error {
	kind, detail := a.Detail()
	if detail == nil {
		return nil
	}
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("encode %s detail: %w", kind, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO activity_details (activity_hubspot_id, detail_type, detail_json, extracted_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(activity_hubspot_id) DO UPDATE SET
			detail_type = excluded.detail_type,
			detail_json = excluded.detail_json,
			extracted_at = excluded.extracted_at
	`, a.HubSpotID, kind, string(payload), a.ExtractedAt)
	return err
}

// ListActivities returns every activity with its detail attached.
func ListActivities(ctx context.Context, q Queryer) ([]*models.Activity, error) {
	return queryActivities(ctx, q, `SELECT `+activityColumns+` `+activityJoin)
}

// ListActivitiesByType returns every activity of one discriminator.
func ListActivitiesByType(ctx context.Context, q Queryer, activityType string) ([]*models.Activity, error) {
	return queryActivities(ctx, q, `SELECT `+activityColumns+` `+activityJoin+` WHERE a.activity_type = ?`, activityType)
}

func queryActivities(ctx context.Context, q Queryer, query string, args ...any) ([]*models.Activity, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// ListActivityIDsByType returns the external ids of one activity kind.
func ListActivityIDsByType(ctx context.Context, q Queryer, activityType string) ([]string, error) {
	return listIDs(ctx, q, `SELECT hubspot_id FROM activities WHERE activity_type = ?`, activityType)
}
