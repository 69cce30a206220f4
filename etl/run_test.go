// ABOUTME: End-to-end run tests covering paging, idempotence, and the
// ABOUTME: critical versus non-critical step distinction
package etl

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/harperreed/hubsync/db"
	"github.com/harperreed/hubsync/models"
)

func TestRunWalksPagesAndIsIdempotent(t *testing.T) {
	gw := newFakeGateway()
	var recs []*models.Record
	for i := 1; i <= 5; i++ {
		id := strconv.Itoa(i)
		recs = append(recs, contactRecord(t, id, "contact"+id+"@example.com"))
	}
	gw.setPages("contacts", 2, recs...)
	engine, database := newTestEngine(t, gw)
	ctx := context.Background()

	if err := engine.Run(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	ids, err := db.ListContactIDs(ctx, database)
	if err != nil {
		t.Fatalf("ListContactIDs failed: %v", err)
	}
	if len(ids) != 5 {
		t.Fatalf("expected 5 contacts across 3 pages, got %d", len(ids))
	}

	first, err := db.GetContactByHubSpotID(ctx, database, "3")
	if err != nil || first == nil {
		t.Fatalf("fetching contact 3 failed: %v", err)
	}
	if first.Email != "contact3@example.com" {
		t.Errorf("email: got %q", first.Email)
	}
	if first.ExtractedAt.IsZero() {
		t.Error("extracted_at not set")
	}

	counts := lastRunCounts(t, database)
	if !strings.Contains(counts, `"inserted":5`) {
		t.Errorf("first run counts should record 5 inserts: %s", counts)
	}

	// A second pass over identical data updates every row and inserts none.
	if err := engine.Run(ctx); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	ids, err = db.ListContactIDs(ctx, database)
	if err != nil {
		t.Fatalf("ListContactIDs failed: %v", err)
	}
	if len(ids) != 5 {
		t.Errorf("second run duplicated rows: %d contacts", len(ids))
	}
	counts = lastRunCounts(t, database)
	if !strings.Contains(counts, `"updated":5`) {
		t.Errorf("second run counts should record 5 updates: %s", counts)
	}
}

func TestRunResolvesOwners(t *testing.T) {
	gw := newFakeGateway()
	gw.owners["777"] = "Jonas Friis"
	gw.setPages("contacts", 10, record(t,
		`{"id":"10","properties":{"email":"x@example.dk","hubspot_owner_id":"777"}}`))
	engine, database := newTestEngine(t, gw)
	ctx := context.Background()

	if err := engine.Run(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	got, err := db.GetContactByHubSpotID(ctx, database, "10")
	if err != nil || got == nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got.ContactOwner != "Jonas Friis" {
		t.Errorf("owner id should resolve to a name, got %q", got.ContactOwner)
	}
}

func TestRunCriticalStepFailureRollsBack(t *testing.T) {
	gw := newFakeGateway()
	gw.fetchErr["contacts"] = errors.New("boom")
	engine, database := newTestEngine(t, gw)
	ctx := context.Background()

	err := engine.Run(ctx)
	if err == nil {
		t.Fatal("expected run to fail when the contacts step fails")
	}
	if !strings.Contains(err.Error(), "contacts") {
		t.Errorf("error should name the step: %v", err)
	}

	contactIDs, err := db.ListContactIDs(ctx, database)
	if err != nil {
		t.Fatalf("ListContactIDs failed: %v", err)
	}
	if len(contactIDs) != 0 {
		t.Errorf("expected empty store after rollback, got %d contacts", len(contactIDs))
	}

	status, errMsg := lastRunOutcome(t, database)
	if status != db.RunStatusFailed {
		t.Errorf("run status: got %q, want %q", status, db.RunStatusFailed)
	}
	if !strings.Contains(errMsg, "boom") {
		t.Errorf("run error not recorded: %q", errMsg)
	}
}

func TestRunNonCriticalStepFailureContinues(t *testing.T) {
	gw := newFakeGateway()
	gw.setPages("contacts", 2,
		contactRecord(t, "1", "one@example.com"),
		contactRecord(t, "2", "two@example.com"),
		contactRecord(t, "3", "three@example.com"))
	gw.fetchErr["communications"] = errors.New("comm endpoint down")
	engine, database := newTestEngine(t, gw)
	ctx := context.Background()

	if err := engine.Run(ctx); err != nil {
		t.Fatalf("run should survive a non-critical failure: %v", err)
	}

	contactIDs, err := db.ListContactIDs(ctx, database)
	if err != nil {
		t.Fatalf("ListContactIDs failed: %v", err)
	}
	if len(contactIDs) != 3 {
		t.Errorf("expected 3 contacts, got %d", len(contactIDs))
	}

	status, _ := lastRunOutcome(t, database)
	if status != db.RunStatusCompleted {
		t.Errorf("run status: got %q, want %q", status, db.RunStatusCompleted)
	}
}

func lastRunOutcome(t *testing.T, database *sql.DB) (status, errMsg string) {
	t.Helper()
	var e sql.NullString
	err := database.QueryRow(
		`SELECT status, error FROM sync_runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&status, &e)
	if err != nil {
		t.Fatalf("reading sync_runs failed: %v", err)
	}
	return status, e.String
}

func lastRunCounts(t *testing.T, database *sql.DB) string {
	t.Helper()
	var counts sql.NullString
	err := database.QueryRow(
		`SELECT counts_json FROM sync_runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&counts)
	if err != nil {
		t.Fatalf("reading sync_runs failed: %v", err)
	}
	return counts.String
}
