// ABOUTME: Per-entity sync steps: fetch every page, map, resolve reference
// ABOUTME: data, then reconcile against the store
package etl

import (
	"context"

	"github.com/harperreed/hubsync/db"
	"github.com/harperreed/hubsync/models"
)

var contactOps = entityOps[models.Contact]{
	name:   "contact",
	key:    func(c *models.Contact) string { return c.HubSpotID },
	find:   db.GetContactByHubSpotID,
	insert: db.InsertContact,
	update: db.UpdateContact,
	merge:  func(existing, incoming *models.Contact) { existing.MergeFrom(incoming) },
}

func (e *Engine) syncContacts(ctx context.Context, q db.Queryer, st *runState) error {
	records, err := e.fetchAllRecords(ctx, "contacts")
	if err != nil {
		return err
	}

	var contacts []*models.Contact
	for _, rec := range records {
		c, err := models.ContactFromRecord(rec)
		if err != nil {
			e.log.Warn("skipping contact record", "error", err)
			continue
		}
		c.ContactOwner = st.resolveOwner(c.ContactOwner)
		contacts = append(contacts, c)

		// Company links ride along on the contacts fetch; keep them for the
		// pairing step so it has a source even when the batch read is empty.
		for _, assoc := range models.ExtractRecordAssociations(rec) {
			if assoc.TargetType == "companie" || assoc.TargetType == "company" {
				st.companyAssoc[c.HubSpotID] = append(st.companyAssoc[c.HubSpotID], assoc)
			}
		}
	}

	counts, err := upsertAll(ctx, q, e.log, contactOps, contacts, e.flushSize)
	st.counts["contacts"] = counts
	if err != nil {
		return err
	}
	e.log.Info("contacts synced", "inserted", counts.Inserted, "updated", counts.Updated)
	return nil
}

var companyOps = entityOps[models.Company]{
	name:   "company",
	key:    func(c *models.Company) string { return c.HubSpotID },
	find:   db.GetCompanyByHubSpotID,
	insert: db.InsertCompany,
	update: db.UpdateCompany,
	merge:  func(existing, incoming *models.Company) { existing.MergeFrom(incoming) },
}

func (e *Engine) syncCompanies(ctx context.Context, q db.Queryer, st *runState) error {
	records, err := e.fetchAllRecords(ctx, "companies")
	if err != nil {
		return err
	}

	var companies []*models.Company
	for _, rec := range records {
		c, err := models.CompanyFromRecord(rec)
		if err != nil {
			e.log.Warn("skipping company record", "error", err)
			continue
		}
		c.CompanyOwner = st.resolveOwner(c.CompanyOwner)
		companies = append(companies, c)
	}

	counts, err := upsertAll(ctx, q, e.log, companyOps, companies, e.flushSize)
	st.counts["companies"] = counts
	if err != nil {
		return err
	}
	e.log.Info("companies synced", "inserted", counts.Inserted, "updated", counts.Updated)
	return nil
}

var dealOps = entityOps[models.Deal]{
	name:   "deal",
	key:    func(d *models.Deal) string { return d.HubSpotID },
	find:   db.GetDealByHubSpotID,
	insert: db.InsertDeal,
	update: db.UpdateDeal,
	merge:  func(existing, incoming *models.Deal) { existing.MergeFrom(incoming) },
}

func (e *Engine) syncDeals(ctx context.Context, q db.Queryer, st *runState) error {
	records, err := e.fetchAllRecords(ctx, "deals")
	if err != nil {
		return err
	}

	var deals []*models.Deal
	for _, rec := range records {
		d, err := models.DealFromRecord(rec)
		if err != nil {
			e.log.Warn("skipping deal record", "error", err)
			continue
		}
		d.DealOwner = st.resolveOwner(d.DealOwner)
		deals = append(deals, d)
	}

	counts, err := upsertAll(ctx, q, e.log, dealOps, deals, e.flushSize)
	st.counts["deals"] = counts
	if err != nil {
		return err
	}
	e.log.Info("deals synced", "inserted", counts.Inserted, "updated", counts.Updated)
	return nil
}

var ticketOps = entityOps[models.Ticket]{
	name:   "ticket",
	key:    func(t *models.Ticket) string { return t.HubSpotID },
	find:   db.GetTicketByHubSpotID,
	insert: db.InsertTicket,
	update: db.UpdateTicket,
	merge:  func(existing, incoming *models.Ticket) { existing.MergeFrom(incoming) },
}

func (e *Engine) syncTickets(ctx context.Context, q db.Queryer, st *runState) error {
	records, err := e.fetchAllRecords(ctx, "tickets")
	if err != nil {
		return err
	}

	var tickets []*models.Ticket
	for _, rec := range records {
		t, err := models.TicketFromRecord(rec)
		if err != nil {
			e.log.Warn("skipping ticket record", "error", err)
			continue
		}
		t.TicketOwner = st.resolveOwner(t.TicketOwner)
		t.Pipeline = st.resolveTicketPipeline(t.Pipeline)
		t.TicketStatus = st.resolveTicketStage(t.TicketStatus)
		tickets = append(tickets, t)
	}

	counts, err := upsertAll(ctx, q, e.log, ticketOps, tickets, e.flushSize)
	st.counts["tickets"] = counts
	if err != nil {
		return err
	}
	e.log.Info("tickets synced", "inserted", counts.Inserted, "updated", counts.Updated)
	return nil
}

var communicationOps = entityOps[models.Communication]{
	name:   "communication",
	key:    func(c *models.Communication) string { return c.HubSpotID },
	find:   db.GetCommunicationByHubSpotID,
	insert: db.InsertCommunication,
	update: db.UpdateCommunication,
	merge:  func(existing, incoming *models.Communication) { existing.MergeFrom(incoming) },
}

func (e *Engine) syncCommunications(ctx context.Context, q db.Queryer, st *runState) error {
	records, err := e.fetchAllRecords(ctx, "communications")
	if err != nil {
		return err
	}

	var comms []*models.Communication
	for _, rec := range records {
		c, err := models.CommunicationFromRecord(rec)
		if err != nil {
			e.log.Warn("skipping communication record", "error", err)
			continue
		}
		c.AssignedTo = st.resolveOwner(c.AssignedTo)
		if info, ok := e.resolveContactInfo(ctx, q, st, c.AssociatedContactID); ok {
			c.AssociatedContactName = info.displayName
			c.AssociatedContactMail = info.email
		}
		comms = append(comms, c)
	}

	counts, err := upsertAll(ctx, q, e.log, communicationOps, comms, e.flushSize)
	st.counts["communications"] = counts
	if err != nil {
		return err
	}
	e.log.Info("communications synced", "inserted", counts.Inserted, "updated", counts.Updated)
	return nil
}

var emailOps = entityOps[models.Email]{
	name:   "email",
	key:    func(m *models.Email) string { return m.HubSpotID },
	find:   db.GetEmailByHubSpotID,
	insert: db.InsertEmail,
	update: db.UpdateEmail,
	merge:  func(existing, incoming *models.Email) { existing.MergeFrom(incoming) },
}

func (e *Engine) syncEmails(ctx context.Context, q db.Queryer, st *runState) error {
	records, err := e.fetchAllRecords(ctx, "emails")
	if err != nil {
		return err
	}

	var emails []*models.Email
	for _, rec := range records {
		m, err := models.EmailFromRecord(rec)
		if err != nil {
			e.log.Warn("skipping email record", "error", err)
			continue
		}
		m.AssignedTo = st.resolveOwner(m.AssignedTo)
		emails = append(emails, m)
	}

	counts, err := upsertAll(ctx, q, e.log, emailOps, emails, e.flushSize)
	st.counts["emails"] = counts
	if err != nil {
		return err
	}
	e.log.Info("emails synced", "inserted", counts.Inserted, "updated", counts.Updated)
	return nil
}

var noteOps = entityOps[models.Note]{
	name:   "note",
	key:    func(n *models.Note) string { return n.HubSpotID },
	find:   db.GetNoteByHubSpotID,
	insert: db.InsertNote,
	update: db.UpdateNote,
	merge:  func(existing, incoming *models.Note) { existing.MergeFrom(incoming) },
}

func (e *Engine) syncNotes(ctx context.Context, q db.Queryer, st *runState) error {
	records, err := e.fetchAllRecords(ctx, "notes")
	if err != nil {
		return err
	}

	var notes []*models.Note
	for _, rec := range records {
		n, err := models.NoteFromRecord(rec)
		if err != nil {
			e.log.Warn("skipping note record", "error", err)
			continue
		}
		n.AssignedTo = st.resolveOwner(n.AssignedTo)
		notes = append(notes, n)
	}

	counts, err := upsertAll(ctx, q, e.log, noteOps, notes, e.flushSize)
	st.counts["notes"] = counts
	if err != nil {
		return err
	}
	e.log.Info("notes synced", "inserted", counts.Inserted, "updated", counts.Updated)
	return nil
}
