// ABOUTME: Read-only HubSpot CRM v3/v4 API client
// ABOUTME: Cursor-paginated object fetches, owners, property metadata, and
// ABOUTME: batched v4 association reads
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/hubsync/models"
)

const (
	ownersPageLimit = 100
	batchReadLimit  = 1000
)

// Client talks to the CRM REST API. All calls are reads.
type Client struct {
	baseURL  string
	token    string
	pageSize int
	hc       *http.Client
	log      *slog.Logger
}

// New builds a client. pageSize caps how many records one list call returns.
func New(baseURL, token string, pageSize int, log *slog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		pageSize: pageSize,
		hc:       &http.Client{Timeout: 60 * time.Second},
		log:      log,
	}
}

// Page is one cursor page of raw records. After is empty on the last page.
type Page struct {
	Records []*models.Record
	After   string
}

type objectSpec struct {
	properties   []string
	associations string
}

var objectSpecs = map[string]objectSpec{
	"contacts": {
		properties: []string{
			"firstname", "lastname", "email", "phone", "hubspot_owner_id",
			"company", "notes_last_activity_date", "notes_last_updated",
			"hs_lead_status", "lifecyclestage", "zip", "contact_type",
			"inverter_brand", "notes_last_contacted", "createdate",
			"hs_analytics_source", "hs_analytics_source_data_1",
			"hs_analytics_source_data_2", "hs_object_id",
		},
		associations: "companies",
	},
	"companies": {
		properties: []string{
			"name", "hubspot_owner_id", "createdate", "phone",
			"hs_last_activity_date", "notes_last_updated", "city", "country",
			"cvr", "company_registration_number", "zip", "postal_code",
			"type", "company_type", "hs_company_type",
		},
	},
	"deals": {
		properties: []string{
			"dealname", "dealstage", "pipeline", "closedate",
			"hubspot_owner_id", "amount", "dealtype", "createdate",
		},
	},
	"tickets": {
		properties: []string{
			"subject", "hs_ticket_subject", "hs_pipeline", "hs_pipeline_stage",
			"hs_ticket_status", "createdate", "hs_ticket_priority",
			"hubspot_owner_id", "source_type", "created_by_source",
			"hs_ticket_source", "hs_lastactivitydate",
		},
	},
	"communications": {
		properties: []string{
			"hs_communication_channel_type", "hs_channel_type",
			"hs_communication_body", "hs_body_preview", "hubspot_owner_id",
			"hs_timestamp", "hs_createdate",
		},
		associations: "contacts,companies,deals",
	},
	"emails": {
		properties: []string{
			"hs_email_subject", "hs_email_html", "hs_email_text",
			"hs_email_status", "hs_email_direction", "hs_email_open_rate",
			"hs_email_click_rate", "hs_email_reply_rate",
			"hs_num_email_opens", "hs_num_email_clicks", "hubspot_owner_id",
			"hs_timestamp", "hs_createdate", "hs_created_by_user_id",
			"hs_updated_by_user_id", "hs_lastmodifieddate",
		},
		associations: "contacts,companies,deals,tickets",
	},
	"notes": {
		properties: []string{
			"hs_note_body", "hubspot_owner_id", "hs_timestamp",
			"hs_createdate", "hs_created_by_user_id", "hs_lastmodifieddate",
		},
		associations: "contacts,companies,deals,tickets",
	},
	"calls": {
		properties: []string{
			"hs_call_title", "hs_call_body", "hs_call_direction",
			"hs_call_status", "hs_timestamp", "hs_createdate",
			"hs_created_by_user_id", "hs_lastmodifieddate", "hubspot_owner_id",
		},
		associations: "contacts,companies,deals,tickets",
	},
	"meetings": {
		properties: []string{
			"hs_meeting_title", "hs_meeting_body", "hs_meeting_start_time",
			"hs_meeting_end_time", "hs_meeting_location",
			"hs_meeting_location_type", "hs_meeting_source",
			"hs_contact_first_outreach_date", "hs_attendee_owner_ids",
			"hs_time_to_book_meeting_from_first_contact", "hubspot_team_id",
			"hs_timestamp", "hs_createdate", "hs_created_by_user_id",
			"hs_lastmodifieddate", "hubspot_owner_id",
		},
		associations: "contacts,companies,deals,tickets",
	},
	"tasks": {
		properties: []string{
			"hs_task_subject", "hs_task_body", "hs_task_status",
			"hs_task_priority", "hs_task_type", "hs_task_due_date",
			"hs_task_start_date", "hs_task_completion_timestamp",
			"hs_task_completion_date", "hs_task_is_overdue", "hs_timestamp",
			"hs_createdate", "hs_lastmodifieddate", "hs_updated_by_user_id",
			"hubspot_owner_id",
		},
		associations: "contacts,companies,deals,tickets",
	},
	"sms": {
		properties: []string{
			"hs_sms_title", "hs_sms_body", "hs_sms_text", "hs_sms_direction",
			"hs_sms_message_direction", "hs_sms_status",
			"hs_sms_message_status", "hs_sms_message_body",
			"hs_channel_account_name", "hs_channel_name",
			"hs_communication_channel_type", "hs_activity_assigned_to",
			"hs_activity_date", "hs_conversation_first_message_timestamp",
			"hs_created_by_user_id", "hubspot_team_id", "hs_logged_from",
			"hs_object_create_date", "hs_lastmodifieddate",
			"hs_owner_assigneddate", "hs_object_source",
			"hs_object_source_detail_1", "hs_updated_by_user_id",
			"hs_timestamp", "hubspot_owner_id",
		},
		associations: "contacts,companies,deals,tickets",
	},
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	// 207 Multi-Status shows up on batch reads with partial results.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(data)
		if len(snippet) > 300 {
			snippet = snippet[:300]
		}
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, snippet)
	}
	return data, nil
}

type listResponse struct {
	Results []json.RawMessage `json:"results"`
	Paging  *struct {
		Next struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

// FetchPage fetches one cursor page of the given object type. Malformed
// records are dropped with a warning; the rest of the page survives.
func (c *Client) FetchPage(ctx context.Context, objectType, after string) (*Page, error) {
	spec, ok := objectSpecs[objectType]
	if !ok {
		return nil, fmt.Errorf("unknown object type %q", objectType)
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageSize))
	q.Set("properties", strings.Join(spec.properties, ","))
	q.Set("archived", "false")
	if spec.associations != "" {
		q.Set("associations", spec.associations)
	}
	if after != "" {
		q.Set("after", after)
	}

	data, err := c.get(ctx, "crm/v3/objects/"+objectType+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode %s page: %w", objectType, err)
	}

	page := &Page{}
	for _, raw := range resp.Results {
		rec, err := models.ParseRecord(raw)
		if err != nil {
			c.log.Warn("dropping malformed record", "object_type", objectType, "error", err)
			continue
		}
		page.Records = append(page.Records, rec)
	}
	if resp.Paging != nil {
		page.After = resp.Paging.Next.After
	}
	return page, nil
}

// FetchContact fetches a single contact by id.
func (c *Client) FetchContact(ctx context.Context, id string) (*models.Record, error) {
	spec := objectSpecs["contacts"]
	q := url.Values{}
	q.Set("properties", strings.Join(spec.properties, ","))
	data, err := c.get(ctx, "crm/v3/objects/contacts/"+url.PathEscape(id)+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return models.ParseRecord(data)
}

type ownersResponse struct {
	Results []struct {
		ID        string `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	} `json:"results"`
	Paging *struct {
		Next struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

// Owners fetches every owner and maps id to display name. Name falls back to
// email, then to the id itself.
func (c *Client) Owners(ctx context.Context) (map[string]string, error) {
	owners := make(map[string]string)
	after := ""
	for {
		path := fmt.Sprintf("crm/v3/owners/?archived=false&limit=%d", ownersPageLimit)
		if after != "" {
			path += "&after=" + url.QueryEscape(after)
		}
		data, err := c.get(ctx, path)
		if err != nil {
			return nil, err
		}
		var resp ownersResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("decode owners: %w", err)
		}
		for _, o := range resp.Results {
			name := strings.TrimSpace(o.FirstName + " " + o.LastName)
			if name == "" {
				name = o.Email
			}
			if name == "" {
				name = o.ID
			}
			owners[o.ID] = name
		}
		if resp.Paging == nil || resp.Paging.Next.After == "" {
			return owners, nil
		}
		after = resp.Paging.Next.After
	}
}

// PropertyOptions fetches the option set of an enumerated property and maps
// each internal value to its display label.
func (c *Client) PropertyOptions(ctx context.Context, objectType, property string) (map[string]string, error) {
	data, err := c.get(ctx, "crm/v3/properties/"+url.PathEscape(objectType)+"/"+url.PathEscape(property))
	if err != nil {
		return nil, err
	}
	var resp struct {
		Options []struct {
			Value string `json:"value"`
			Label string `json:"label"`
		} `json:"options"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode %s/%s options: %w", objectType, property, err)
	}
	labels := make(map[string]string, len(resp.Options))
	for _, o := range resp.Options {
		labels[o.Value] = o.Label
	}
	return labels, nil
}

// PropertyHistory fetches the change history of one property on one object.
func (c *Client) PropertyHistory(ctx context.Context, objectType, objectID, property string) ([]models.PropertyEntry, error) {
	path := fmt.Sprintf("crm/v3/objects/%s/%s?propertiesWithHistory=%s",
		pluralize(objectType), url.PathEscape(objectID), url.QueryEscape(property))
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var resp struct {
		PropertiesWithHistory map[string][]struct {
			Value      string `json:"value"`
			Timestamp  string `json:"timestamp"`
			SourceType string `json:"sourceType"`
			SourceID   string `json:"sourceId"`
		} `json:"propertiesWithHistory"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode %s history: %w", property, err)
	}
	var entries []models.PropertyEntry
	for _, e := range resp.PropertiesWithHistory[property] {
		entries = append(entries, models.PropertyEntry{
			Value:     e.Value,
			Timestamp: parseAPITime(e.Timestamp),
			Source:    e.SourceType,
			SourceID:  e.SourceID,
		})
	}
	return entries, nil
}

func pluralize(objectType string) string {
	if objectType == "company" {
		return "companies"
	}
	if strings.HasSuffix(objectType, "s") {
		return objectType
	}
	return objectType + "s"
}

func parseAPITime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	return nil
}
