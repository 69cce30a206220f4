// ABOUTME: Raw CRM record wrapper with fault-tolerant property extraction
// ABOUTME: Tolerates absent, null, and mistyped JSON fields, degrading to zero values
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	brTag   = regexp.MustCompile(`<(br|BR)\s*/?>`)
	htmlTag = regexp.MustCompile(`(?s)<.*?>`)
)

// ErrMissingID is returned when a raw record carries no usable external id.
var ErrMissingID = errors.New("missing or invalid HubSpot id")

// UnsupportedTypeError marks a record whose type discriminator is not recognized.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported activity type: %s", e.Type)
}

// MalformedPayloadError wraps a decode failure for one raw record.
type MalformedPayloadError struct {
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed record payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// Record is one raw object as returned by the CRM API.
type Record struct {
	ID           json.RawMessage       `json:"id"`
	Properties   json.RawMessage       `json:"properties"`
	Associations map[string]AssocGroup `json:"associations"`

	props Props
}

// AssocGroup is one relationship-type group embedded in a record.
type AssocGroup struct {
	Results []json.RawMessage `json:"results"`
}

// ParseRecord decodes one raw API object. A decode failure is a
// MalformedPayloadError; the caller drops the record and keeps its siblings.
func ParseRecord(raw json.RawMessage) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &MalformedPayloadError{Err: err}
	}
	return &rec, nil
}

// HubSpotID returns the record's external id, tolerating both string and
// numeric JSON forms. Empty when absent or unusable.
func (r *Record) HubSpotID() string {
	return parseID(r.ID)
}

func parseID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return ""
}

// Props decodes and caches the record's property bag.
func (r *Record) Props() Props {
	if r.props == nil {
		r.props = Props{}
		if len(r.Properties) > 0 {
			_ = json.Unmarshal(r.Properties, &r.props)
		}
	}
	return r.props
}

// RawProps returns the verbatim JSON of the property bag, "{}" when absent.
func (r *Record) RawProps() string {
	if len(r.Properties) == 0 {
		return "{}"
	}
	return string(r.Properties)
}

// Props is a loosely typed property bag.
type Props map[string]any

// String reads a string property; absent, null, or non-string values yield "".
func (p Props) String(name string) string {
	v, ok := p[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// FirstString returns the first non-empty string among the named properties.
func (p Props) FirstString(names ...string) string {
	for _, name := range names {
		if s := p.String(name); s != "" {
			return s
		}
	}
	return ""
}

// Time reads a timestamp property. The API emits RFC 3339 strings and
// occasionally epoch milliseconds; both forms are accepted.
func (p Props) Time(name string) *time.Time {
	s := p.String(name)
	if s == "" {
		return nil
	}
	return parseTimestamp(s)
}

// FirstTime returns the first parseable timestamp among the named properties.
func (p Props) FirstTime(names ...string) *time.Time {
	for _, name := range names {
		if t := p.Time(name); t != nil {
			return t
		}
	}
	return nil
}

// Float reads a numeric property carried as a string.
func (p Props) Float(name string) *float64 {
	s := p.String(name)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Int reads an integer property carried as a string, nil when unparseable.
func (p Props) Int(name string) *int {
	s := p.String(name)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func parseTimestamp(s string) *time.Time {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999",
		"2006-01-02",
	}
	for _, layout := range layouts {
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

// StripHTML converts line-break tags to newlines, removes the remaining
// markup, and trims the result. Empty input passes through untouched.
func StripHTML(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	normalized := brTag.ReplaceAllString(value, "\n")
	return strings.TrimSpace(htmlTag.ReplaceAllString(normalized, ""))
}
