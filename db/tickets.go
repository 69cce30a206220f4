// ABOUTME: Ticket repository over the sync store
package db

import (
	"context"
	"database/sql"

	"github.com/harperreed/hubsync/models"
)

const ticketColumns = `id, hubspot_id, ticket_name, pipeline, ticket_status,
	created_at, priority, ticket_owner, source, last_activity_date, extracted_at`

func scanTicket(row interface{ Scan(...any) error }) (*models.Ticket, error) {
	t := &models.Ticket{}
	var name, pipeline, status, priority, owner, source sql.NullString
	var createdAt, lastActivity sql.NullTime
	err := row.Scan(&t.ID, &t.HubSpotID, &name, &pipeline, &status, &createdAt,
		&priority, &owner, &source, &lastActivity, &t.ExtractedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.TicketName = scanStr(name)
	t.Pipeline = scanStr(pipeline)
	t.TicketStatus = scanStr(status)
	t.CreatedAt = scanTime(createdAt)
	t.Priority = scanStr(priority)
	t.TicketOwner = scanStr(owner)
	t.Source = scanStr(source)
	t.LastActivityDate = scanTime(lastActivity)
	return t, nil
}

func GetTicketByHubSpotID(ctx context.Context, q Queryer, hubspotID string) (*models.Ticket, error) {
	row := q.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE hubspot_id = ?`, hubspotID)
	return scanTicket(row)
}

func InsertTicket(ctx context.Context, q Queryer, t *models.Ticket) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO tickets (hubspot_id, ticket_name, pipeline, ticket_status,
			created_at, priority, ticket_owner, source, last_activity_date, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.HubSpotID, nullStr(t.TicketName), nullStr(t.Pipeline), nullStr(t.TicketStatus),
		nullTime(t.CreatedAt), nullStr(t.Priority), nullStr(t.TicketOwner),
		nullStr(t.Source), nullTime(t.LastActivityDate), t.ExtractedAt)
	if err != nil {
		return err
	}
	t.ID, _ = res.LastInsertId()
	return nil
}

func UpdateTicket(ctx context.Context, q Queryer, t *models.Ticket) error {
	_, err := q.ExecContext(ctx, `
		UPDATE tickets SET ticket_name = ?, pipeline = ?, ticket_status = ?,
			created_at = ?, priority = ?, ticket_owner = ?, source = ?,
			last_activity_date = ?, extracted_at = ?
		WHERE hubspot_id = ?
	`, nullStr(t.TicketName), nullStr(t.Pipeline), nullStr(t.TicketStatus),
		nullTime(t.CreatedAt), nullStr(t.Priority), nullStr(t.TicketOwner),
		nullStr(t.Source), nullTime(t.LastActivityDate), t.ExtractedAt, t.HubSpotID)
	return err
}

func ListTickets(ctx context.Context, q Queryer) ([]*models.Ticket, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+ticketColumns+` FROM tickets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func ListTicketIDs(ctx context.Context, q Queryer) ([]string, error) {
	return listIDs(ctx, q, `SELECT hubspot_id FROM tickets`)
}
