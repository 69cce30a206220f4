// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hubspot_id TEXT NOT NULL UNIQUE,
	record_id TEXT,
	full_name TEXT,
	email TEXT,
	phone TEXT,
	contact_owner TEXT,
	company TEXT,
	last_activity_date DATETIME,
	lead_status TEXT,
	lifecycle_stage TEXT,
	postal_code TEXT,
	contact_type TEXT,
	inverter_brand TEXT,
	last_contacted DATETIME,
	created_at DATETIME,
	analytics_source TEXT,
	analytics_source_data_1 TEXT,
	analytics_source_data_2 TEXT,
	extracted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_record_id ON contacts(record_id);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
CREATE INDEX IF NOT EXISTS idx_contacts_extracted_at ON contacts(extracted_at);

CREATE TABLE IF NOT EXISTS companies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hubspot_id TEXT NOT NULL UNIQUE,
	name TEXT,
	company_owner TEXT,
	created_at DATETIME,
	phone TEXT,
	last_activity_date DATETIME,
	city TEXT,
	country TEXT,
	cvr TEXT,
	postal_code TEXT,
	type TEXT,
	extracted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_extracted_at ON companies(extracted_at);

CREATE TABLE IF NOT EXISTS deals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hubspot_id TEXT NOT NULL UNIQUE,
	deal_name TEXT,
	deal_stage TEXT,
	pipeline TEXT,
	close_date DATETIME,
	deal_owner TEXT,
	amount REAL,
	deal_type TEXT,
	created_at DATETIME,
	extracted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deals_extracted_at ON deals(extracted_at);

CREATE TABLE IF NOT EXISTS tickets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hubspot_id TEXT NOT NULL UNIQUE,
	ticket_name TEXT,
	pipeline TEXT,
	ticket_status TEXT,
	created_at DATETIME,
	priority TEXT,
	ticket_owner TEXT,
	source TEXT,
	last_activity_date DATETIME,
	extracted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tickets_extracted_at ON tickets(extracted_at);

CREATE TABLE IF NOT EXISTS communications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hubspot_id TEXT NOT NULL UNIQUE,
	channel_type TEXT,
	communication_body TEXT,
	associated_contact_id TEXT,
	associated_contact_name TEXT,
	associated_contact_mail TEXT,
	assigned_to TEXT,
	activity_date DATETIME,
	extracted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_communications_extracted_at ON communications(extracted_at);

CREATE TABLE IF NOT EXISTS emails (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hubspot_id TEXT NOT NULL UNIQUE,
	email_subject TEXT,
	activity_date DATETIME,
	associated_contact_id TEXT,
	assigned_to TEXT,
	email_body TEXT,
	email_send_status TEXT,
	extracted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_emails_extracted_at ON emails(extracted_at);

CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hubspot_id TEXT NOT NULL UNIQUE,
	body_preview TEXT,
	assigned_to TEXT,
	activity_date DATETIME,
	extracted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_extracted_at ON notes(extracted_at);

CREATE TABLE IF NOT EXISTS activities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hubspot_id TEXT NOT NULL UNIQUE,
	record_id TEXT,
	activity_type TEXT NOT NULL,
	subject TEXT,
	body TEXT,
	activity_owner TEXT,
	source_object_type TEXT,
	source_object_id TEXT,
	source_object_name TEXT,
	source_object_email TEXT,
	activity_date DATETIME,
	status TEXT,
	extracted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(activity_type);
CREATE INDEX IF NOT EXISTS idx_activities_source ON activities(source_object_type, source_object_id);
CREATE INDEX IF NOT EXISTS idx_activities_extracted_at ON activities(extracted_at);

CREATE TABLE IF NOT EXISTS activity_details (
	activity_hubspot_id TEXT PRIMARY KEY,
	detail_type TEXT NOT NULL,
	detail_json TEXT NOT NULL,
	extracted_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS contact_company_associations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	contact_hubspot_id TEXT NOT NULL,
	company_hubspot_id TEXT NOT NULL,
	label TEXT,
	labels_json TEXT,
	created_at DATETIME,
	updated_at DATETIME,
	source TEXT,
	source_id TEXT,
	extracted_at DATETIME NOT NULL,
	UNIQUE(contact_hubspot_id, company_hubspot_id)
);

CREATE TABLE IF NOT EXISTS activity_associations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	activity_hubspot_id TEXT NOT NULL,
	target_type TEXT NOT NULL,
	target_id TEXT NOT NULL,
	label TEXT,
	extracted_at DATETIME NOT NULL,
	UNIQUE(activity_hubspot_id, target_type, target_id)
);

CREATE TABLE IF NOT EXISTS object_associations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_type TEXT NOT NULL,
	source_id TEXT NOT NULL,
	target_type TEXT NOT NULL,
	target_id TEXT NOT NULL,
	label TEXT,
	labels_json TEXT,
	type_id INTEGER,
	category TEXT,
	created_at DATETIME,
	updated_at DATETIME,
	source TEXT,
	source_ref TEXT,
	is_primary INTEGER NOT NULL DEFAULT 0,
	extracted_at DATETIME NOT NULL,
	UNIQUE(source_type, source_id, target_type, target_id)
);

CREATE INDEX IF NOT EXISTS idx_object_associations_source ON object_associations(source_type, source_id);
CREATE INDEX IF NOT EXISTS idx_object_associations_target ON object_associations(target_type, target_id);

CREATE TABLE IF NOT EXISTS property_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	object_type TEXT NOT NULL,
	object_id TEXT NOT NULL,
	property_name TEXT NOT NULL,
	old_value TEXT,
	new_value TEXT,
	change_date DATETIME NOT NULL,
	source TEXT,
	source_id TEXT,
	extracted_at DATETIME NOT NULL,
	UNIQUE(object_type, object_id, property_name, change_date)
);

CREATE INDEX IF NOT EXISTS idx_property_history_property ON property_history(object_type, property_name);

CREATE TABLE IF NOT EXISTS timeline_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	contact_hubspot_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	event_date DATETIME NOT NULL,
	description TEXT,
	related_object_type TEXT,
	related_object_id TEXT,
	related_object_name TEXT,
	actor_id TEXT,
	actor_name TEXT,
	metadata_json TEXT,
	extracted_at DATETIME NOT NULL,
	UNIQUE(contact_hubspot_id, event_type, event_date, related_object_id)
);

CREATE INDEX IF NOT EXISTS idx_timeline_events_contact ON timeline_events(contact_hubspot_id, event_date);

CREATE TABLE IF NOT EXISTS sync_runs (
	id TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL,
	finished_at DATETIME,
	status TEXT NOT NULL,
	error TEXT,
	counts_json TEXT
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
