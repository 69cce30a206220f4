// ABOUTME: Deal repository over the sync store
package db

import (
	"context"
	"database/sql"

	"github.com/harperreed/hubsync/models"
)

const dealColumns = `id, hubspot_id, deal_name, deal_stage, pipeline, close_date,
	deal_owner, amount, deal_type, created_at, extracted_at`

func scanDeal(row interface{ Scan(...any) error }) (*models.Deal, error) {
	d := &models.Deal{}
	var name, stage, pipeline, owner, dtype sql.NullString
	var closeDate, createdAt sql.NullTime
	var amount sql.NullFloat64
	err := row.Scan(&d.ID, &d.HubSpotID, &name, &stage, &pipeline, &closeDate,
		&owner, &amount, &dtype, &createdAt, &d.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.DealName = scanStr(name)
	d.DealStage = scanStr(stage)
	d.Pipeline = scanStr(pipeline)
	d.CloseDate = scanTime(closeDate)
	d.DealOwner = scanStr(owner)
	if amount.Valid {
		v := amount.Float64
		d.Amount = &v
	}
	d.DealType = scanStr(dtype)
	d.CreatedAt = scanTime(createdAt)
	return d, nil
}

func GetDealByHubSpotID(ctx context.Context, q Queryer, hubspotID string) (*models.Deal, error) {
	row := q.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE hubspot_id = ?`, hubspotID)
	return scanDeal(row)
}

func InsertDeal(ctx context.Context, q Queryer, d *models.Deal) error {
	var amount any
	if d.Amount != nil {
		amount = *d.Amount
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO deals (hubspot_id, deal_name, deal_stage, pipeline, close_date,
			deal_owner, amount, deal_type, created_at, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.HubSpotID, nullStr(d.DealName), nullStr(d.DealStage), nullStr(d.Pipeline),
		nullTime(d.CloseDate), nullStr(d.DealOwner), amount, nullStr(d.DealType),
		nullTime(d.CreatedAt), d.ExtractedAt)
	if err != nil {
		return err
	}
	d.ID, _ = res.LastInsertId()
	return nil
}

func UpdateDeal(ctx context.Context, q Queryer, d *models.Deal) error {
	var amount any
	if d.Amount != nil {
		amount = *d.Amount
	}
	_, err := q.ExecContext(ctx, `
		UPDATE deals SET deal_name = ?, deal_stage = ?, pipeline = ?, close_date = ?,
			deal_owner = ?, amount = ?, deal_type = ?, created_at = ?, extracted_at = ?
		WHERE hubspot_id = ?
	`, nullStr(d.DealName), nullStr(d.DealStage), nullStr(d.Pipeline),
		nullTime(d.CloseDate), nullStr(d.DealOwner), amount, nullStr(d.DealType),
		nullTime(d.CreatedAt), d.ExtractedAt, d.HubSpotID)
	return err
}

func ListDealIDs(ctx context.Context, q Queryer) ([]string, error) {
	return listIDs(ctx, q, `SELECT hubspot_id FROM deals`)
}
