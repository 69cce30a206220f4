// ABOUTME: Contact repository over the sync store
// ABOUTME: Lookup by external id or record id, insert, update, and listing
package db

import (
	"context"
	"database/sql"

	"github.com/harperreed/hubsync/models"
)

const contactColumns = `id, hubspot_id, record_id, full_name, email, phone,
	contact_owner, company, last_activity_date, lead_status, lifecycle_stage,
	postal_code, contact_type, inverter_brand, last_contacted, created_at,
	analytics_source, analytics_source_data_1, analytics_source_data_2, extracted_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	c := &models.Contact{}
	var (
		recordID, fullName, email, phone, owner, company sql.NullString
		leadStatus, lifecycle, postal, ctype, inverter   sql.NullString
		source, sourceOne, sourceTwo                     sql.NullString
		lastActivity, lastContacted, createdAt           sql.NullTime
	)
	err := row.Scan(&c.ID, &c.HubSpotID, &recordID, &fullName, &email, &phone,
		&owner, &company, &lastActivity, &leadStatus, &lifecycle,
		&postal, &ctype, &inverter, &lastContacted, &createdAt,
		&source, &sourceOne, &sourceTwo, &c.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.RecordID = scanStr(recordID)
	c.FullName = scanStr(fullName)
	c.Email = scanStr(email)
	c.Phone = scanStr(phone)
	c.ContactOwner = scanStr(owner)
	c.Company = scanStr(company)
	c.LastActivityDate = scanTime(lastActivity)
	c.LeadStatus = scanStr(leadStatus)
	c.LifecycleStage = scanStr(lifecycle)
	c.PostalCode = scanStr(postal)
	c.ContactType = scanStr(ctype)
	c.InverterBrand = scanStr(inverter)
	c.LastContacted = scanTime(lastContacted)
	c.CreatedAt = scanTime(createdAt)
	c.AnalyticsSource = scanStr(source)
	c.AnalyticsSourceOne = scanStr(sourceOne)
	c.AnalyticsSourceTwo = scanStr(sourceTwo)
	return c, nil
}

func GetContactByHubSpotID(ctx context.Context, q Queryer, hubspotID string) (*models.Contact, error) {
	row := q.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE hubspot_id = ?`, hubspotID)
	return scanContact(row)
}

// FindContactByAnyID matches either the external id or the record id.
func FindContactByAnyID(ctx context.Context, q Queryer, id string) (*models.Contact, error) {
	row := q.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE hubspot_id = ? OR record_id = ?`, id, id)
	return scanContact(row)
}

func InsertContact(ctx context.Context, q Queryer, c *models.Contact) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO contacts (hubspot_id, record_id, full_name, email, phone,
			contact_owner, company, last_activity_date, lead_status, lifecycle_stage,
			postal_code, contact_type, inverter_brand, last_contacted, created_at,
			analytics_source, analytics_source_data_1, analytics_source_data_2, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.HubSpotID, nullStr(c.RecordID), nullStr(c.FullName), nullStr(c.Email), nullStr(c.Phone),
		nullStr(c.ContactOwner), nullStr(c.Company), nullTime(c.LastActivityDate),
		nullStr(c.LeadStatus), nullStr(c.LifecycleStage), nullStr(c.PostalCode),
		nullStr(c.ContactType), nullStr(c.InverterBrand), nullTime(c.LastContacted),
		nullTime(c.CreatedAt), nullStr(c.AnalyticsSource), nullStr(c.AnalyticsSourceOne),
		nullStr(c.AnalyticsSourceTwo), c.ExtractedAt)
	if err != nil {
		return err
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

func UpdateContact(ctx context.Context, q Queryer, c *models.Contact) error {
	_, err := q.ExecContext(ctx, `
		UPDATE contacts SET record_id = ?, full_name = ?, email = ?, phone = ?,
			contact_owner = ?, company = ?, last_activity_date = ?, lead_status = ?,
			lifecycle_stage = ?, postal_code = ?, contact_type = ?, inverter_brand = ?,
			last_contacted = ?, created_at = ?, analytics_source = ?,
			analytics_source_data_1 = ?, analytics_source_data_2 = ?, extracted_at = ?
		WHERE hubspot_id = ?
	`, nullStr(c.RecordID), nullStr(c.FullName), nullStr(c.Email), nullStr(c.Phone),
		nullStr(c.ContactOwner), nullStr(c.Company), nullTime(c.LastActivityDate),
		nullStr(c.LeadStatus), nullStr(c.LifecycleStage), nullStr(c.PostalCode),
		nullStr(c.ContactType), nullStr(c.InverterBrand), nullTime(c.LastContacted),
		nullTime(c.CreatedAt), nullStr(c.AnalyticsSource), nullStr(c.AnalyticsSourceOne),
		nullStr(c.AnalyticsSourceTwo), c.ExtractedAt, c.HubSpotID)
	return err
}

func ListContactIDs(ctx context.Context, q Queryer) ([]string, error) {
	return listIDs(ctx, q, `SELECT hubspot_id FROM contacts`)
}

func ListContacts(ctx context.Context, q Queryer) ([]*models.Contact, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
