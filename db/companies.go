// ABOUTME: Company repository over the sync store
package db

import (
	"context"
	"database/sql"

	"github.com/harperreed/hubsync/models"
)

const companyColumns = `id, hubspot_id, name, company_owner, created_at, phone,
	last_activity_date, city, country, cvr, postal_code, type, extracted_at`

func scanCompany(row interface{ Scan(...any) error }) (*models.Company, error) {
	c := &models.Company{}
	var name, owner, phone, city, country, cvr, postal, ctype sql.NullString
	var createdAt, lastActivity sql.NullTime
	err := row.Scan(&c.ID, &c.HubSpotID, &name, &owner, &createdAt, &phone,
		&lastActivity, &city, &country, &cvr, &postal, &ctype, &c.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Name = scanStr(name)
	c.CompanyOwner = scanStr(owner)
	c.CreatedAt = scanTime(createdAt)
	c.Phone = scanStr(phone)
	c.LastActivityDate = scanTime(lastActivity)
	c.City = scanStr(city)
	c.Country = scanStr(country)
	c.Cvr = scanStr(cvr)
	c.PostalCode = scanStr(postal)
	c.Type = scanStr(ctype)
	return c, nil
}

func GetCompanyByHubSpotID(ctx context.Context, q Queryer, hubspotID string) (*models.Company, error) {
	row := q.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE hubspot_id = ?`, hubspotID)
	return scanCompany(row)
}

func InsertCompany(ctx context.Context, q Queryer, c *models.Company) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO companies (hubspot_id, name, company_owner, created_at, phone,
			last_activity_date, city, country, cvr, postal_code, type, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.HubSpotID, nullStr(c.Name), nullStr(c.CompanyOwner), nullTime(c.CreatedAt),
		nullStr(c.Phone), nullTime(c.LastActivityDate), nullStr(c.City),
		nullStr(c.Country), nullStr(c.Cvr), nullStr(c.PostalCode), nullStr(c.Type),
		c.ExtractedAt)
	if err != nil {
		return err
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

func UpdateCompany(ctx context.Context, q Queryer, c *models.Company) error {
	_, err := q.ExecContext(ctx, `
		UPDATE companies SET name = ?, company_owner = ?, created_at = ?, phone = ?,
			last_activity_date = ?, city = ?, country = ?, cvr = ?, postal_code = ?,
			type = ?, extracted_at = ?
		WHERE hubspot_id = ?
	`, nullStr(c.Name), nullStr(c.CompanyOwner), nullTime(c.CreatedAt), nullStr(c.Phone),
		nullTime(c.LastActivityDate), nullStr(c.City), nullStr(c.Country),
		nullStr(c.Cvr), nullStr(c.PostalCode), nullStr(c.Type), c.ExtractedAt,
		c.HubSpotID)
	return err
}

func ListCompanyIDs(ctx context.Context, q Queryer) ([]string, error) {
	return listIDs(ctx, q, `SELECT hubspot_id FROM companies`)
}

func listIDs(ctx context.Context, q Queryer, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
