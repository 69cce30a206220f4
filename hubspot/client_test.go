// ABOUTME: Client tests against a local HTTP stub: paging, auth headers,
// ABOUTME: owners, and batched association reads
package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchPageWalksCursor(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if !strings.HasPrefix(r.URL.Path, "/crm/v3/objects/contacts") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("archived") != "false" {
			t.Error("archived=false not set")
		}
		if !strings.Contains(r.URL.Query().Get("properties"), "email") {
			t.Error("property list not forwarded")
		}
		switch r.URL.Query().Get("after") {
		case "":
			fmt.Fprint(w, `{
				"results": [
					{"id": "1", "properties": {"email": "a@example.com"}},
					{"id": "2", "properties": {"email": "b@example.com"}},
					"not an object"
				],
				"paging": {"next": {"after": "cursor-2"}}
			}`)
		case "cursor-2":
			fmt.Fprint(w, `{"results": [{"id": "3", "properties": {"email": "c@example.com"}}]}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("after"))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-token", 100, testLogger())
	ctx := context.Background()

	first, err := c.FetchPage(ctx, "contacts", "")
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("auth header: %q", gotAuth)
	}
	if len(first.Records) != 2 {
		t.Fatalf("malformed entry should be dropped, got %d records", len(first.Records))
	}
	if first.Records[0].HubSpotID() != "1" {
		t.Errorf("record id: %q", first.Records[0].HubSpotID())
	}
	if first.After != "cursor-2" {
		t.Errorf("cursor: %q", first.After)
	}

	second, err := c.FetchPage(ctx, "contacts", first.After)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(second.Records) != 1 || second.After != "" {
		t.Errorf("last page: %d records, cursor %q", len(second.Records), second.After)
	}
}

func TestFetchPageUnknownObjectType(t *testing.T) {
	c := New("http://localhost:1", "tok", 100, testLogger())
	if _, err := c.FetchPage(context.Background(), "widgets", ""); err == nil {
		t.Fatal("expected an error for an unknown object type")
	}
}

func TestFetchPageErrorCarriesStatusAndSnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"missing scope"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", 100, testLogger())
	_, err := c.FetchPage(context.Background(), "contacts", "")
	if err == nil {
		t.Fatal("expected an error on 401")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "missing scope") {
		t.Errorf("error should carry status and body snippet: %v", err)
	}
}

func TestOwnersPaginatesAndFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("after") == "" {
			fmt.Fprint(w, `{
				"results": [
					{"id": "1", "firstName": "Lise", "lastName": "Holm"},
					{"id": "2", "email": "owner2@example.com"}
				],
				"paging": {"next": {"after": "go-on"}}
			}`)
			return
		}
		fmt.Fprint(w, `{"results": [{"id": "3"}]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", 100, testLogger())
	owners, err := c.Owners(context.Background())
	if err != nil {
		t.Fatalf("Owners failed: %v", err)
	}
	want := map[string]string{"1": "Lise Holm", "2": "owner2@example.com", "3": "3"}
	for id, name := range want {
		if owners[id] != name {
			t.Errorf("owner %s: got %q, want %q", id, owners[id], name)
		}
	}
}

func TestBatchAssociationsChunksAndExtractsLabels(t *testing.T) {
	var posts int
	var batchSizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method %s", r.Method)
		}
		if r.URL.Path != "/crm/v4/associations/contacts/companies/batch/read" {
			t.Errorf("path %s", r.URL.Path)
		}
		posts++
		var body struct {
			Inputs []struct {
				ID json.RawMessage `json:"id"`
			} `json:"inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		batchSizes = append(batchSizes, len(body.Inputs))
		fmt.Fprint(w, `{
			"results": [{
				"from": {"id": 1},
				"to": [{
					"toObjectId": 9,
					"associationTypes": [
						{"category": "HUBSPOT_DEFINED", "typeId": 1, "label": ""},
						{"category": "USER_DEFINED", "typeId": 7, "label": "Primary"}
					]
				}]
			}]
		}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", 100, testLogger())
	ids := make([]string, 1500)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i+1)
	}
	out, err := c.BatchAssociations(context.Background(), "contacts", "companies", ids)
	if err != nil {
		t.Fatalf("BatchAssociations failed: %v", err)
	}
	if posts != 2 {
		t.Errorf("1500 ids should split into 2 chunks, got %d", posts)
	}
	if len(batchSizes) == 2 && (batchSizes[0] != 1000 || batchSizes[1] != 500) {
		t.Errorf("chunk sizes: %v", batchSizes)
	}

	details := out["1"]
	if len(details) == 0 {
		t.Fatal("no edges for source 1")
	}
	d := details[0]
	if d.TargetID != "9" {
		t.Errorf("target id: %q", d.TargetID)
	}
	if d.Label != "Primary" {
		t.Errorf("first non-empty label should win, got %q", d.Label)
	}
	if d.TypeID == nil || *d.TypeID != 1 {
		t.Errorf("first type id should win, got %v", d.TypeID)
	}
	if d.Category != "HUBSPOT_DEFINED" {
		t.Errorf("category: %q", d.Category)
	}
}

func TestBatchAssociationsSkipsFailedChunk(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		if posts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{
			"results": [{
				"from": {"id": "1400"},
				"to": [{"toObjectId": "9", "associationTypes": []}]
			}]
		}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", 100, testLogger())
	ids := make([]string, 1500)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i+1)
	}
	out, err := c.BatchAssociations(context.Background(), "contacts", "companies", ids)
	if err != nil {
		t.Fatalf("a failed chunk should not fail the read: %v", err)
	}
	if posts != 2 {
		t.Errorf("both chunks should be attempted, got %d posts", posts)
	}
	if len(out["1400"]) != 1 {
		t.Errorf("surviving chunk lost: %v", out)
	}
}

func TestPropertyHistoryParsesEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crm/v3/objects/tickets/42" {
			t.Errorf("path %s", r.URL.Path)
		}
		if r.URL.Query().Get("propertiesWithHistory") != "hs_pipeline_stage" {
			t.Errorf("query %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{
			"propertiesWithHistory": {
				"hs_pipeline_stage": [
					{"value": "4", "timestamp": "2024-01-02T10:00:00Z", "sourceType": "CRM_UI", "sourceId": "u1"},
					{"value": "1", "timestamp": "1704100000000"}
				]
			}
		}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", 100, testLogger())
	entries, err := c.PropertyHistory(context.Background(), "ticket", "42", "hs_pipeline_stage")
	if err != nil {
		t.Fatalf("PropertyHistory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Value != "4" || entries[0].Source != "CRM_UI" || entries[0].SourceID != "u1" {
		t.Errorf("entry 0: %+v", entries[0])
	}
	if entries[0].Timestamp == nil {
		t.Error("RFC 3339 timestamp should parse")
	}
	if entries[1].Timestamp == nil {
		t.Error("epoch millisecond timestamp should parse")
	}
}
