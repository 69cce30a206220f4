// ABOUTME: Tests for embedded association extraction and label precedence
package models

import (
	"testing"
	"time"
)

func TestLabelPrecedenceModernArrayWins(t *testing.T) {
	rec := mustParse(t, `{"id": "1", "properties": {}, "associations": {
		"companies": {"results": [{
			"id": "99",
			"type": "contact_to_company",
			"associationTypes": [
				{"label": "", "associationTypeId": 1, "category": "HUBSPOT_DEFINED"},
				{"label": "Primary employer", "associationTypeId": 2}
			],
			"types": [{"label": "should not be used"}]
		}]}
	}}`)

	assocs := ExtractRecordAssociations(rec)
	if len(assocs) != 1 {
		t.Fatalf("got %d associations", len(assocs))
	}
	a := assocs[0]
	if a.Label != "Primary employer" {
		t.Errorf("label: got %q", a.Label)
	}
	if a.TypeID == nil || *a.TypeID != 1 {
		t.Errorf("typeID should come from the first entry, got %v", a.TypeID)
	}
	if a.Category != "HUBSPOT_DEFINED" {
		t.Errorf("category: got %q", a.Category)
	}
	if a.TargetID != "99" {
		t.Errorf("target: got %q", a.TargetID)
	}
}

func TestLabelPrecedenceTypesArrayFallback(t *testing.T) {
	rec := mustParse(t, `{"id": "1", "properties": {}, "associations": {
		"deals": {"results": [{
			"id": "7",
			"type": "ignored",
			"types": [{"label": "Advising deal", "associationTypeId": 5}]
		}]}
	}}`)

	assocs := ExtractRecordAssociations(rec)
	if len(assocs) != 1 || assocs[0].Label != "Advising deal" {
		t.Fatalf("types array label not used: %+v", assocs)
	}
}

func TestLabelPrecedenceLegacyScalar(t *testing.T) {
	rec := mustParse(t, `{"id": "1", "properties": {}, "associations": {
		"deals": {"results": [{"id": "7", "type": "contact_to_deal"}]}
	}}`)

	assocs := ExtractRecordAssociations(rec)
	if len(assocs) != 1 || assocs[0].Label != "contact_to_deal" {
		t.Fatalf("legacy scalar type not used as label: %+v", assocs)
	}
}

func TestPrimaryAssociationPreferenceOrder(t *testing.T) {
	rec := mustParse(t, `{"id": "1", "properties": {}, "associations": {
		"companies": {"results": [{"id": "c1"}]},
		"deals": {"results": [{"id": "d1"}]}
	}}`)

	objectType, objectID := rec.PrimaryAssociation()
	if objectType != "deals" || objectID != "d1" {
		t.Errorf("got %s/%s, want deals/d1", objectType, objectID)
	}
}

func TestPrimaryAssociationFallsBackToAnyGroup(t *testing.T) {
	rec := mustParse(t, `{"id": "1", "properties": {}, "associations": {
		"quotes": {"results": [{"id": "q1"}]}
	}}`)

	objectType, objectID := rec.PrimaryAssociation()
	if objectType != "quotes" || objectID != "q1" {
		t.Errorf("got %s/%s, want quotes/q1", objectType, objectID)
	}
}

func TestFirstAssociatedID(t *testing.T) {
	rec := mustParse(t, `{"id": "1", "properties": {}, "associations": {
		"contacts": {"results": [{"id": 42}, {"id": 43}]}
	}}`)
	if got := rec.FirstAssociatedID("contacts"); got != "42" {
		t.Errorf("got %q", got)
	}
	if got := rec.FirstAssociatedID("companies"); got != "" {
		t.Errorf("absent group: got %q", got)
	}
}

func TestIsPrimaryLabel(t *testing.T) {
	if !IsPrimaryLabel("Primary") || !IsPrimaryLabel("primary employer") {
		t.Error("primary labels not detected")
	}
	if IsPrimaryLabel("Billing contact") || IsPrimaryLabel("") {
		t.Error("non-primary label detected as primary")
	}
}

func TestBuildLabelsJSONDedupesCaseInsensitively(t *testing.T) {
	got := BuildLabelsJSON("Primary", []string{"primary", "Billing", "PRIMARY"})
	want := `["Primary","Billing"]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if BuildLabelsJSON("", nil) != "" {
		t.Error("empty input should yield empty string")
	}
}

func TestObjectEdgeMergeRederivesPrimaryFlag(t *testing.T) {
	stored := &ObjectAssociation{
		SourceType: "contact", SourceID: "1",
		TargetType: "company", TargetID: "2",
		Label: "Primary contact", IsPrimary: true,
	}

	stored.MergeFrom(&ObjectAssociation{
		SourceType: "contact", SourceID: "1",
		TargetType: "company", TargetID: "2",
	})
	if stored.Label != "Primary contact" {
		t.Fatalf("label-less merge lost the label: %q", stored.Label)
	}
	if !stored.IsPrimary {
		t.Error("IsPrimary blanked although merged label is still primary")
	}

	stored.MergeFrom(&ObjectAssociation{Label: "Billing contact"})
	if stored.IsPrimary {
		t.Error("IsPrimary kept after label changed to a non-primary one")
	}
}

func TestContactCompanyMergePatchesSparsely(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	stored := &ContactCompanyAssociation{
		ContactHubSpotID: "1", CompanyHubSpotID: "2",
		Label: "Primary", LabelsJSON: `["Primary"]`,
		CreatedAt: &created, Source: "ASSOCIATIONS_API", SourceID: "279",
	}
	updated := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	stored.MergeFrom(&ContactCompanyAssociation{
		ContactHubSpotID: "1", CompanyHubSpotID: "2",
		UpdatedAt: &updated, Source: "EMBEDDED",
	})

	if stored.Label != "Primary" || stored.LabelsJSON != `["Primary"]` {
		t.Errorf("label metadata lost: %q %q", stored.Label, stored.LabelsJSON)
	}
	if stored.CreatedAt == nil || !stored.CreatedAt.Equal(created) {
		t.Error("stored created_at not kept")
	}
	if stored.UpdatedAt == nil || !stored.UpdatedAt.Equal(updated) {
		t.Error("incoming updated_at not taken")
	}
	if stored.Source != "EMBEDDED" || stored.SourceID != "279" {
		t.Errorf("provenance patch wrong: %q %q", stored.Source, stored.SourceID)
	}
	if stored.ExtractedAt.IsZero() {
		t.Error("merge must touch extracted_at")
	}
}

func TestSingularType(t *testing.T) {
	cases := map[string]string{
		"deals":     "deal",
		"contacts":  "contact",
		"companies": "companie",
		"call":      "call",
	}
	for in, want := range cases {
		if got := SingularType(in); got != want {
			t.Errorf("SingularType(%q) = %q, want %q", in, got, want)
		}
	}
}
