// ABOUTME: Tests for the property history fold and its field orientation
package models

import (
	"testing"
	"time"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestFoldPropertyHistoryOrientation(t *testing.T) {
	entries := []PropertyEntry{
		{Value: "NEW", Timestamp: ts("2024-01-01T00:00:00Z"), Source: "CRM_UI", SourceID: "u1"},
		{Value: "OPEN", Timestamp: ts("2024-02-01T00:00:00Z")},
		{Value: "CLOSED", Timestamp: ts("2024-03-01T00:00:00Z")},
	}

	rows := FoldPropertyHistory("ticket", "t1", "hs_pipeline_stage", entries)
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}

	// The entry's own value lands in OldValue; the previously threaded value
	// lands in NewValue. Downstream reports consume exactly this shape.
	if rows[0].OldValue != "NEW" || rows[0].NewValue != "" {
		t.Errorf("first row: old=%q new=%q", rows[0].OldValue, rows[0].NewValue)
	}
	if rows[1].OldValue != "OPEN" || rows[1].NewValue != "NEW" {
		t.Errorf("second row: old=%q new=%q", rows[1].OldValue, rows[1].NewValue)
	}
	if rows[2].OldValue != "CLOSED" || rows[2].NewValue != "OPEN" {
		t.Errorf("third row: old=%q new=%q", rows[2].OldValue, rows[2].NewValue)
	}

	if rows[0].Source != "CRM_UI" || rows[0].SourceID != "u1" {
		t.Errorf("source not carried: %+v", rows[0])
	}
}

func TestFoldSkipsBlankEntriesWithoutAdvancing(t *testing.T) {
	entries := []PropertyEntry{
		{Value: "A", Timestamp: ts("2024-01-01T00:00:00Z")},
		{Value: "", Timestamp: ts("2024-01-02T00:00:00Z")},
		{Value: "no-timestamp"},
		{Value: "B", Timestamp: ts("2024-01-03T00:00:00Z")},
	}

	rows := FoldPropertyHistory("contact", "c1", "hs_lead_status", entries)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Skipped entries must not become the threaded previous value.
	if rows[1].OldValue != "B" || rows[1].NewValue != "A" {
		t.Errorf("thread broken by skipped entry: old=%q new=%q", rows[1].OldValue, rows[1].NewValue)
	}
}

func TestFoldEmptyInput(t *testing.T) {
	if rows := FoldPropertyHistory("deal", "d1", "dealstage", nil); len(rows) != 0 {
		t.Errorf("got %d rows", len(rows))
	}
}
