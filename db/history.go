// ABOUTME: Property history repository keyed on the change identity tuple
package db

import (
	"context"
	"database/sql"

	"github.com/harperreed/hubsync/models"
)

const historyColumns = `id, object_type, object_id, property_name, old_value,
	new_value, change_date, source, source_id, extracted_at`

func scanHistory(row interface{ Scan(...any) error }) (*models.PropertyHistory, error) {
	h := &models.PropertyHistory{}
	var oldValue, newValue, source, sourceID sql.NullString
	err := row.Scan(&h.ID, &h.ObjectType, &h.ObjectID, &h.PropertyName,
		&oldValue, &newValue, &h.ChangeDate, &source, &sourceID, &h.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	h.OldValue = scanStr(oldValue)
	h.NewValue = scanStr(newValue)
	h.Source = scanStr(source)
	h.SourceID = scanStr(sourceID)
	h.ChangeDate = h.ChangeDate.UTC()
	return h, nil
}

func GetPropertyHistory(ctx context.Context, q Queryer, h *models.PropertyHistory) (*models.PropertyHistory, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+historyColumns+` FROM property_history
		WHERE object_type = ? AND object_id = ? AND property_name = ? AND change_date = ?
	`, h.ObjectType, h.ObjectID, h.PropertyName, h.ChangeDate)
	return scanHistory(row)
}

func InsertPropertyHistory(ctx context.Context, q Queryer, h *models.PropertyHistory) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO property_history (object_type, object_id, property_name,
			old_value, new_value, change_date, source, source_id, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, h.ObjectType, h.ObjectID, h.PropertyName, nullStr(h.OldValue),
		nullStr(h.NewValue), h.ChangeDate, nullStr(h.Source), nullStr(h.SourceID),
		h.ExtractedAt)
	if err != nil {
		return err
	}
	h.ID, _ = res.LastInsertId()
	return nil
}

func UpdatePropertyHistory(ctx context.Context, q Queryer, h *models.PropertyHistory) error {
	_, err := q.ExecContext(ctx, `
		UPDATE property_history SET old_value = ?, new_value = ?, source = ?,
			source_id = ?, extracted_at = ?
		WHERE object_type = ? AND object_id = ? AND property_name = ? AND change_date = ?
	`, nullStr(h.OldValue), nullStr(h.NewValue), nullStr(h.Source),
		nullStr(h.SourceID), h.ExtractedAt,
		h.ObjectType, h.ObjectID, h.PropertyName, h.ChangeDate)
	return err
}

// ListPropertyHistory returns the stored transitions of one tracked property
// across all objects of a type, oldest change first.
func ListPropertyHistory(ctx context.Context, q Queryer, objectType, propertyName string) ([]*models.PropertyHistory, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+historyColumns+` FROM property_history
		WHERE object_type = ? AND property_name = ?
		ORDER BY change_date
	`, objectType, propertyName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PropertyHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
