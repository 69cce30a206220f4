// ABOUTME: Communication, email, and note repositories over the sync store
package db

import (
	"context"
	"database/sql"

	"github.com/harperreed/hubsync/models"
)

func GetCommunicationByHubSpotID(ctx context.Context, q Queryer, hubspotID string) (*models.Communication, error) {
	c := &models.Communication{}
	var channel, body, contactID, contactName, contactMail, assigned sql.NullString
	var activityDate sql.NullTime
	err := q.QueryRowContext(ctx, `
		SELECT id, hubspot_id, channel_type, communication_body, associated_contact_id,
			associated_contact_name, associated_contact_mail, assigned_to, activity_date, extracted_at
		FROM communications WHERE hubspot_id = ?
	`, hubspotID).Scan(&c.ID, &c.HubSpotID, &channel, &body, &contactID,
		&contactName, &contactMail, &assigned, &activityDate, &c.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.ChannelType = scanStr(channel)
	c.CommunicationBody = scanStr(body)
	c.AssociatedContactID = scanStr(contactID)
	c.AssociatedContactName = scanStr(contactName)
	c.AssociatedContactMail = scanStr(contactMail)
	c.AssignedTo = scanStr(assigned)
	c.ActivityDate = scanTime(activityDate)
	return c, nil
}

func InsertCommunication(ctx context.Context, q Queryer, c *models.Communication) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO communications (hubspot_id, channel_type, communication_body,
			associated_contact_id, associated_contact_name, associated_contact_mail,
			assigned_to, activity_date, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.HubSpotID, nullStr(c.ChannelType), nullStr(c.CommunicationBody),
		nullStr(c.AssociatedContactID), nullStr(c.AssociatedContactName),
		nullStr(c.AssociatedContactMail), nullStr(c.AssignedTo),
		nullTime(c.ActivityDate), c.ExtractedAt)
	if err != nil {
		return err
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

func UpdateCommunication(ctx context.Context, q Queryer, c *models.Communication) error {
	_, err := q.ExecContext(ctx, `
		UPDATE communications SET channel_type = ?, communication_body = ?,
			associated_contact_id = ?, associated_contact_name = ?,
			associated_contact_mail = ?, assigned_to = ?, activity_date = ?, extracted_at = ?
		WHERE hubspot_id = ?
	`, nullStr(c.ChannelType), nullStr(c.CommunicationBody),
		nullStr(c.AssociatedContactID), nullStr(c.AssociatedContactName),
		nullStr(c.AssociatedContactMail), nullStr(c.AssignedTo),
		nullTime(c.ActivityDate), c.ExtractedAt, c.HubSpotID)
	return err
}

func GetEmailByHubSpotID(ctx context.Context, q Queryer, hubspotID string) (*models.Email, error) {
	e := &models.Email{}
	var subject, contactID, assigned, body, status sql.NullString
	var activityDate sql.NullTime
	err := q.QueryRowContext(ctx, `
		SELECT id, hubspot_id, email_subject, activity_date, associated_contact_id,
			assigned_to, email_body, email_send_status, extracted_at
		FROM emails WHERE hubspot_id = ?
	`, hubspotID).Scan(&e.ID, &e.HubSpotID, &subject, &activityDate, &contactID,
		&assigned, &body, &status, &e.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.EmailSubject = scanStr(subject)
	e.ActivityDate = scanTime(activityDate)
	e.AssociatedContactID = scanStr(contactID)
	e.AssignedTo = scanStr(assigned)
	e.EmailBody = scanStr(body)
	e.EmailSendStatus = scanStr(status)
	return e, nil
}

func InsertEmail(ctx context.Context, q Queryer, e *models.Email) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO emails (hubspot_id, email_subject, activity_date,
			associated_contact_id, assigned_to, email_body, email_send_status, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.HubSpotID, nullStr(e.EmailSubject), nullTime(e.ActivityDate),
		nullStr(e.AssociatedContactID), nullStr(e.AssignedTo), nullStr(e.EmailBody),
		nullStr(e.EmailSendStatus), e.ExtractedAt)
	if err != nil {
		return err
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

func UpdateEmail(ctx context.Context, q Queryer, e *models.Email) error {
	_, err := q.ExecContext(ctx, `
		UPDATE emails SET email_subject = ?, activity_date = ?, associated_contact_id = ?,
			assigned_to = ?, email_body = ?, email_send_status = ?, extracted_at = ?
		WHERE hubspot_id = ?
	`, nullStr(e.EmailSubject), nullTime(e.ActivityDate), nullStr(e.AssociatedContactID),
		nullStr(e.AssignedTo), nullStr(e.EmailBody), nullStr(e.EmailSendStatus),
		e.ExtractedAt, e.HubSpotID)
	return err
}

func ListEmailIDs(ctx context.Context, q Queryer) ([]string, error) {
	return listIDs(ctx, q, `SELECT hubspot_id FROM emails`)
}

func GetNoteByHubSpotID(ctx context.Context, q Queryer, hubspotID string) (*models.Note, error) {
	n := &models.Note{}
	var body, assigned sql.NullString
	var activityDate sql.NullTime
	err := q.QueryRowContext(ctx, `
		SELECT id, hubspot_id, body_preview, assigned_to, activity_date, extracted_at
		FROM notes WHERE hubspot_id = ?
	`, hubspotID).Scan(&n.ID, &n.HubSpotID, &body, &assigned, &activityDate, &n.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n.BodyPreview = scanStr(body)
	n.AssignedTo = scanStr(assigned)
	n.ActivityDate = scanTime(activityDate)
	return n, nil
}

func InsertNote(ctx context.Context, q Queryer, n *models.Note) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO notes (hubspot_id, body_preview, assigned_to, activity_date, extracted_at)
		VALUES (?, ?, ?, ?, ?)
	`, n.HubSpotID, nullStr(n.BodyPreview), nullStr(n.AssignedTo),
		nullTime(n.ActivityDate), n.ExtractedAt)
	if err != nil {
		return err
	}
	n.ID, _ = res.LastInsertId()
	return nil
}

func UpdateNote(ctx context.Context, q Queryer, n *models.Note) error {
	_, err := q.ExecContext(ctx, `
		UPDATE notes SET body_preview = ?, assigned_to = ?, activity_date = ?, extracted_at = ?
		WHERE hubspot_id = ?
	`, nullStr(n.BodyPreview), nullStr(n.AssignedTo), nullTime(n.ActivityDate),
		n.ExtractedAt, n.HubSpotID)
	return err
}
