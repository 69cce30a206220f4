// ABOUTME: Tests for raw record parsing, property extraction, and HTML strip
package models

import (
	"encoding/json"
	"testing"
)

func mustParse(t *testing.T, payload string) *Record {
	t.Helper()
	rec, err := ParseRecord(json.RawMessage(payload))
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}
	return rec
}

func TestHubSpotIDStringAndNumeric(t *testing.T) {
	rec := mustParse(t, `{"id": "123", "properties": {}}`)
	if got := rec.HubSpotID(); got != "123" {
		t.Errorf("string id: got %q", got)
	}

	rec = mustParse(t, `{"id": 456, "properties": {}}`)
	if got := rec.HubSpotID(); got != "456" {
		t.Errorf("numeric id: got %q", got)
	}

	rec = mustParse(t, `{"properties": {}}`)
	if got := rec.HubSpotID(); got != "" {
		t.Errorf("missing id: got %q", got)
	}
}

func TestPropsDegradeToZeroValues(t *testing.T) {
	rec := mustParse(t, `{"id": "1", "properties": {"email": "a@b.dk", "zip": null, "amount": 42}}`)
	p := rec.Props()

	if got := p.String("email"); got != "a@b.dk" {
		t.Errorf("email: got %q", got)
	}
	if got := p.String("zip"); got != "" {
		t.Errorf("null property should read empty, got %q", got)
	}
	if got := p.String("missing"); got != "" {
		t.Errorf("absent property should read empty, got %q", got)
	}
	// wrong JSON shape degrades to absent rather than failing the record
	if got := p.String("amount"); got != "" {
		t.Errorf("non-string property should read empty, got %q", got)
	}
}

func TestPropsTimeForms(t *testing.T) {
	rec := mustParse(t, `{"id": "1", "properties": {
		"createdate": "2024-03-01T10:00:00Z",
		"hs_timestamp": "1709287200000",
		"garbage": "not a date"
	}}`)
	p := rec.Props()

	if ts := p.Time("createdate"); ts == nil || ts.Year() != 2024 {
		t.Errorf("RFC 3339 timestamp not parsed: %v", ts)
	}
	if ts := p.Time("hs_timestamp"); ts == nil || ts.Year() != 2024 {
		t.Errorf("epoch millis timestamp not parsed: %v", ts)
	}
	if ts := p.Time("garbage"); ts != nil {
		t.Errorf("unparseable timestamp should be nil, got %v", ts)
	}
}

func TestRawPropsDefaultsToEmptyObject(t *testing.T) {
	rec := mustParse(t, `{"id": "1"}`)
	if got := rec.RawProps(); got != "{}" {
		t.Errorf("got %q, want {}", got)
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Line1<br>Line2<b>bold</b>", "Line1\nLine2bold"},
		{"Line1<br/>Line2", "Line1\nLine2"},
		{"Line1<BR />Line2", "Line1\nLine2"},
		{"<p>hello</p>", "hello"},
		{"no markup", "no markup"},
		{"", ""},
		{"   ", "   "},
		{"<div>multi\nline</div>", "multi\nline"},
	}
	for _, tc := range cases {
		if got := StripHTML(tc.in); got != tc.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripHTMLSpansLines(t *testing.T) {
	in := "before<span\nattr=\"x\">inside</span>after"
	if got := StripHTML(in); got != "beforeinsideafter" {
		t.Errorf("got %q", got)
	}
}
