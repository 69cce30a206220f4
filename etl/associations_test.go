// ABOUTME: Tests for contact-company pairing and the object edge matrix
package etl

import (
	"context"
	"testing"

	"github.com/harperreed/hubsync/db"
	"github.com/harperreed/hubsync/hubspot"
)

func TestContactCompanyPairingFromBatchRead(t *testing.T) {
	gw := newFakeGateway()
	gw.setPages("contacts", 10, contactRecord(t, "1", "a@example.com"))
	gw.setPages("companies", 10, record(t,
		`{"id":"9","properties":{"name":"Acme A/S"}}`))
	typeID := 279
	gw.assocs["contacts->companies"] = map[string][]hubspot.AssociationDetail{
		"1": {{TargetID: "9", Label: "Primary", AllLabels: []string{"Primary", "Billing"}, TypeID: &typeID}},
	}
	engine, database := newTestEngine(t, gw)
	ctx := context.Background()

	if err := engine.Run(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	n, err := db.CountContactCompanyAssociations(ctx, database)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pairing, got %d", n)
	}

	pairing, err := db.GetContactCompanyAssociation(ctx, database, "1", "9")
	if err != nil || pairing == nil {
		t.Fatalf("pairing lookup failed: %v %v", pairing, err)
	}
	if pairing.Label != "Primary" {
		t.Errorf("label not stored: %q", pairing.Label)
	}
	if pairing.LabelsJSON != `["Primary","Billing"]` {
		t.Errorf("labels json not stored: %q", pairing.LabelsJSON)
	}
	if pairing.Source != "ASSOCIATIONS_API" || pairing.SourceID != "279" {
		t.Errorf("provenance not stored: %q %q", pairing.Source, pairing.SourceID)
	}

	// A second run touches the same pairing rather than duplicating it.
	if err := engine.Run(ctx); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	n, err = db.CountContactCompanyAssociations(ctx, database)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("pairing duplicated on re-run: %d rows", n)
	}
}

func TestContactCompanyPairingFromEmbeddedLinks(t *testing.T) {
	gw := newFakeGateway()
	gw.setPages("contacts", 10, record(t, `{
		"id": "1",
		"properties": {"email": "a@example.com"},
		"associations": {
			"companies": {"results": [{"id": "9", "type": "contact_to_company"}]}
		}
	}`))
	gw.setPages("companies", 10, record(t,
		`{"id":"9","properties":{"name":"Acme A/S"}}`))
	engine, database := newTestEngine(t, gw)
	ctx := context.Background()

	if err := engine.Run(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	n, err := db.CountContactCompanyAssociations(ctx, database)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("embedded link should yield a pairing even without a batch read, got %d", n)
	}
}

func TestContactCompanyReverseFallback(t *testing.T) {
	gw := newFakeGateway()
	gw.setPages("contacts", 10, contactRecord(t, "1", "a@example.com"))
	gw.setPages("companies", 10, record(t,
		`{"id":"9","properties":{"name":"Acme A/S"}}`))
	// Forward direction empty; only the company side knows the link.
	gw.assocs["companies->contacts"] = map[string][]hubspot.AssociationDetail{
		"9": {{TargetID: "1"}},
	}
	engine, database := newTestEngine(t, gw)
	ctx := context.Background()

	if err := engine.Run(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	n, err := db.CountContactCompanyAssociations(ctx, database)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("reverse read should recover the pairing, got %d", n)
	}
}

func TestObjectEdgeUpsertAndLabelRefresh(t *testing.T) {
	gw := newFakeGateway()
	gw.setPages("contacts", 10, contactRecord(t, "1", "a@example.com"))
	gw.setPages("deals", 10, record(t,
		`{"id":"50","properties":{"dealname":"Big deal"}}`))
	typeID := 4
	gw.assocs["contacts->deals"] = map[string][]hubspot.AssociationDetail{
		"1": {{TargetID: "50", Label: "Primary", AllLabels: []string{"Primary", "Decision maker"}, TypeID: &typeID, Category: "HUBSPOT_DEFINED"}},
	}
	engine, database := newTestEngine(t, gw)
	ctx := context.Background()

	if err := engine.Run(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	edge, err := db.GetObjectAssociation(ctx, database, "contact", "1", "deal", "50")
	if err != nil {
		t.Fatalf("edge lookup failed: %v", err)
	}
	if edge == nil {
		t.Fatal("edge not stored")
	}
	if edge.Label != "Primary" || !edge.IsPrimary {
		t.Errorf("label handling: %+v", edge)
	}
	if edge.TypeID == nil || *edge.TypeID != 4 {
		t.Errorf("type id: %v", edge.TypeID)
	}

	// Label changes upstream; the re-run rewrites the stored edge in place.
	gw.assocs["contacts->deals"]["1"][0].Label = "Billing contact"
	gw.assocs["contacts->deals"]["1"][0].AllLabels = []string{"Billing contact"}
	if err := engine.Run(ctx); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	edge, err = db.GetObjectAssociation(ctx, database, "contact", "1", "deal", "50")
	if err != nil || edge == nil {
		t.Fatalf("edge re-lookup failed: %v", err)
	}
	if edge.Label != "Billing contact" {
		t.Errorf("label not refreshed: %q", edge.Label)
	}
	if edge.IsPrimary {
		t.Error("primary flag should be recomputed from the new label")
	}

	edges, err := db.ListObjectAssociations(ctx, database, "contact", "deal")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(edges) != 1 {
		t.Errorf("edge duplicated on re-run: %d rows", len(edges))
	}
}
