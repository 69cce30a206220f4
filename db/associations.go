// ABOUTME: Repositories for the three stored relationship shapes: the
// ABOUTME: contact-company pair, activity references, and the generic matrix
package db

import (
	"context"
	"database/sql"

	"github.com/harperreed/hubsync/models"
)

func GetContactCompanyAssociation(ctx context.Context, q Queryer, contactID, companyID string) (*models.ContactCompanyAssociation, error) {
	a := &models.ContactCompanyAssociation{}
	var label, labelsJSON, source, sourceID sql.NullString
	var createdAt, updatedAt sql.NullTime
	err := q.QueryRowContext(ctx, `
		SELECT id, contact_hubspot_id, company_hubspot_id, label, labels_json,
			created_at, updated_at, source, source_id, extracted_at
		FROM contact_company_associations
		WHERE contact_hubspot_id = ? AND company_hubspot_id = ?
	`, contactID, companyID).Scan(&a.ID, &a.ContactHubSpotID, &a.CompanyHubSpotID,
		&label, &labelsJSON, &createdAt, &updatedAt, &source, &sourceID, &a.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Label = scanStr(label)
	a.LabelsJSON = scanStr(labelsJSON)
	a.CreatedAt = scanTime(createdAt)
	a.UpdatedAt = scanTime(updatedAt)
	a.Source = scanStr(source)
	a.SourceID = scanStr(sourceID)
	return a, nil
}

func InsertContactCompanyAssociation(ctx context.Context, q Queryer, a *models.ContactCompanyAssociation) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO contact_company_associations (contact_hubspot_id, company_hubspot_id,
			label, labels_json, created_at, updated_at, source, source_id, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ContactHubSpotID, a.CompanyHubSpotID, nullStr(a.Label), nullStr(a.LabelsJSON),
		nullTime(a.CreatedAt), nullTime(a.UpdatedAt), nullStr(a.Source),
		nullStr(a.SourceID), a.ExtractedAt)
	if err != nil {
		return err
	}
	a.ID, _ = res.LastInsertId()
	return nil
}

func UpdateContactCompanyAssociation(ctx context.Context, q Queryer, a *models.ContactCompanyAssociation) error {
	_, err := q.ExecContext(ctx, `
		UPDATE contact_company_associations SET label = ?, labels_json = ?,
			created_at = ?, updated_at = ?, source = ?, source_id = ?, extracted_at = ?
		WHERE contact_hubspot_id = ? AND company_hubspot_id = ?
	`, nullStr(a.Label), nullStr(a.LabelsJSON), nullTime(a.CreatedAt),
		nullTime(a.UpdatedAt), nullStr(a.Source), nullStr(a.SourceID), a.ExtractedAt,
		a.ContactHubSpotID, a.CompanyHubSpotID)
	return err
}

func CountContactCompanyAssociations(ctx context.Context, q Queryer) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_company_associations`).Scan(&n)
	return n, err
}

func GetActivityAssociation(ctx context.Context, q Queryer, activityID, targetType, targetID string) (*models.ActivityAssociation, error) {
	a := &models.ActivityAssociation{}
	var label sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, activity_hubspot_id, target_type, target_id, label, extracted_at
		FROM activity_associations
		WHERE activity_hubspot_id = ? AND target_type = ? AND target_id = ?
	`, activityID, targetType, targetID).Scan(&a.ID, &a.ActivityHubSpotID, &a.TargetType, &a.TargetID, &label, &a.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Label = scanStr(label)
	return a, nil
}

func InsertActivityAssociation(ctx context.Context, q Queryer, a *models.ActivityAssociation) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO activity_associations (activity_hubspot_id, target_type, target_id, label, extracted_at)
		VALUES (?, ?, ?, ?, ?)
	`, a.ActivityHubSpotID, a.TargetType, a.TargetID, nullStr(a.Label), a.ExtractedAt)
	if err != nil {
		return err
	}
	a.ID, _ = res.LastInsertId()
	return nil
}

func UpdateActivityAssociation(ctx context.Context, q Queryer, a *models.ActivityAssociation) error {
	_, err := q.ExecContext(ctx, `
		UPDATE activity_associations SET label = ?, extracted_at = ?
		WHERE activity_hubspot_id = ? AND target_type = ? AND target_id = ?
	`, nullStr(a.Label), a.ExtractedAt, a.ActivityHubSpotID, a.TargetType, a.TargetID)
	return err
}

// ListActivityAssociationsByTarget returns every activity edge pointing at
// one target type.
func ListActivityAssociationsByTarget(ctx context.Context, q Queryer, targetType string) ([]*models.ActivityAssociation, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, activity_hubspot_id, target_type, target_id, label, extracted_at
		FROM activity_associations WHERE target_type = ?
	`, targetType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ActivityAssociation
	for rows.Next() {
		a := &models.ActivityAssociation{}
		var label sql.NullString
		if err := rows.Scan(&a.ID, &a.ActivityHubSpotID, &a.TargetType, &a.TargetID, &label, &a.ExtractedAt); err != nil {
			return nil, err
		}
		a.Label = scanStr(label)
		out = append(out, a)
	}
	return out, rows.Err()
}

const objectAssociationColumns = `id, source_type, source_id, target_type, target_id,
	label, labels_json, type_id, category, created_at, updated_at, source,
	source_ref, is_primary, extracted_at`

func scanObjectAssociation(row interface{ Scan(...any) error }) (*models.ObjectAssociation, error) {
	a := &models.ObjectAssociation{}
	var label, labelsJSON, category, source, sourceRef sql.NullString
	var typeID sql.NullInt64
	var createdAt, updatedAt sql.NullTime
	err := row.Scan(&a.ID, &a.SourceType, &a.SourceID, &a.TargetType, &a.TargetID,
		&label, &labelsJSON, &typeID, &category, &createdAt, &updatedAt,
		&source, &sourceRef, &a.IsPrimary, &a.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Label = scanStr(label)
	a.LabelsJSON = scanStr(labelsJSON)
	if typeID.Valid {
		v := int(typeID.Int64)
		a.TypeID = &v
	}
	a.Category = scanStr(category)
	a.CreatedAt = scanTime(createdAt)
	a.UpdatedAt = scanTime(updatedAt)
	a.Source = scanStr(source)
	a.SourceRef = scanStr(sourceRef)
	return a, nil
}

func GetObjectAssociation(ctx context.Context, q Queryer, sourceType, sourceID, targetType, targetID string) (*models.ObjectAssociation, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+objectAssociationColumns+` FROM object_associations
		WHERE source_type = ? AND source_id = ? AND target_type = ? AND target_id = ?
	`, sourceType, sourceID, targetType, targetID)
	return scanObjectAssociation(row)
}

func InsertObjectAssociation(ctx context.Context, q Queryer, a *models.ObjectAssociation) error {
	var typeID any
	if a.TypeID != nil {
		typeID = *a.TypeID
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO object_associations (source_type, source_id, target_type, target_id,
			label, labels_json, type_id, category, created_at, updated_at, source,
			source_ref, is_primary, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.SourceType, a.SourceID, a.TargetType, a.TargetID, nullStr(a.Label),
		nullStr(a.LabelsJSON), typeID, nullStr(a.Category), nullTime(a.CreatedAt),
		nullTime(a.UpdatedAt), nullStr(a.Source), nullStr(a.SourceRef),
		a.IsPrimary, a.ExtractedAt)
	if err != nil {
		return err
	}
	a.ID, _ = res.LastInsertId()
	return nil
}

func UpdateObjectAssociation(ctx context.Context, q Queryer, a *models.ObjectAssociation) error {
	var typeID any
	if a.TypeID != nil {
		typeID = *a.TypeID
	}
	_, err := q.ExecContext(ctx, `
		UPDATE object_associations SET label = ?, labels_json = ?, type_id = ?,
			category = ?, created_at = ?, updated_at = ?, source = ?, source_ref = ?,
			is_primary = ?, extracted_at = ?
		WHERE source_type = ? AND source_id = ? AND target_type = ? AND target_id = ?
	`, nullStr(a.Label), nullStr(a.LabelsJSON), typeID, nullStr(a.Category),
		nullTime(a.CreatedAt), nullTime(a.UpdatedAt), nullStr(a.Source),
		nullStr(a.SourceRef), a.IsPrimary, a.ExtractedAt,
		a.SourceType, a.SourceID, a.TargetType, a.TargetID)
	return err
}

// ListObjectAssociations returns every edge between two object types.
func ListObjectAssociations(ctx context.Context, q Queryer, sourceType, targetType string) ([]*models.ObjectAssociation, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+objectAssociationColumns+` FROM object_associations
		WHERE source_type = ? AND target_type = ?
	`, sourceType, targetType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ObjectAssociation
	for rows.Next() {
		a, err := scanObjectAssociation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
