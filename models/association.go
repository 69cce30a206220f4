// ABOUTME: Association extraction from embedded record payloads plus the
// ABOUTME: stored relationship entities and their label precedence rules
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// RecordAssociation is one relationship lifted out of a record's embedded
// associations block.
type RecordAssociation struct {
	TargetType string
	TargetID   string
	Label      string
	AllLabels  []string
	TypeID     *int
	Category   string
}

type assocResult struct {
	ID               json.RawMessage `json:"id"`
	ToObjectID       json.RawMessage `json:"toObjectId"`
	Type             string          `json:"type"`
	AssociationTypes []assocType     `json:"associationTypes"`
	Types            []assocType     `json:"types"`
}

type assocType struct {
	Label             string `json:"label"`
	AssociationTypeID *int   `json:"associationTypeId"`
	TypeID            *int   `json:"typeId"`
	Category          string `json:"category"`
}

func (r *assocResult) targetID() string {
	if id := parseID(r.ID); id != "" {
		return id
	}
	return parseID(r.ToObjectID)
}

// label resolves the display label for one association result. The modern
// associationTypes array wins, then the older types array, then the legacy
// scalar type field. Within an array the first non-empty label is taken.
func (r *assocResult) label() (label string, typeID *int, category string) {
	pick := func(entries []assocType, altTypeID bool) bool {
		if len(entries) == 0 {
			return false
		}
		for _, e := range entries {
			if typeID == nil {
				typeID = e.AssociationTypeID
				if typeID == nil && altTypeID {
					typeID = e.TypeID
				}
			}
			if category == "" {
				category = e.Category
			}
			if label == "" && e.Label != "" {
				label = e.Label
				break
			}
		}
		return true
	}
	if pick(r.AssociationTypes, true) {
		return label, typeID, category
	}
	if pick(r.Types, false) {
		return label, typeID, category
	}
	return r.Type, nil, ""
}

func (r *assocResult) allLabels() []string {
	var labels []string
	add := func(entries []assocType) {
		for _, e := range entries {
			if e.Label != "" {
				labels = append(labels, e.Label)
			}
		}
	}
	add(r.AssociationTypes)
	if len(labels) == 0 {
		add(r.Types)
	}
	return labels
}

// SingularType trims trailing plural markers off a relationship group name.
func SingularType(t string) string {
	return strings.TrimRight(t, "s")
}

// ExtractRecordAssociations flattens every embedded relationship group of a
// record into target type, id, and resolved label tuples.
func ExtractRecordAssociations(rec *Record) []RecordAssociation {
	var out []RecordAssociation
	for groupType, group := range rec.Associations {
		target := SingularType(groupType)
		for _, raw := range group.Results {
			var res assocResult
			if err := json.Unmarshal(raw, &res); err != nil {
				continue
			}
			id := res.targetID()
			if id == "" {
				continue
			}
			label, typeID, category := res.label()
			out = append(out, RecordAssociation{
				TargetType: target,
				TargetID:   id,
				Label:      label,
				AllLabels:  res.allLabels(),
				TypeID:     typeID,
				Category:   category,
			})
		}
	}
	return out
}

// FirstAssociatedID returns the id of the first result in the named embedded
// relationship group, or "" when the group is absent or empty.
func (r *Record) FirstAssociatedID(group string) string {
	g, ok := r.Associations[group]
	if !ok || len(g.Results) == 0 {
		return ""
	}
	var res assocResult
	if err := json.Unmarshal(g.Results[0], &res); err != nil {
		return ""
	}
	return res.targetID()
}

// primaryPreference orders relationship groups by how specific a source
// object they name for an activity.
var primaryPreference = []string{"contacts", "deals", "tickets", "companies"}

// PrimaryAssociation picks the most specific embedded relationship of a
// record: the first preferred group with a result, otherwise the first
// non-empty group encountered. The plural group name is returned.
func (r *Record) PrimaryAssociation() (objectType, objectID string) {
	for _, group := range primaryPreference {
		if id := r.FirstAssociatedID(group); id != "" {
			return group, id
		}
	}
	for group := range r.Associations {
		if id := r.FirstAssociatedID(group); id != "" {
			return group, id
		}
	}
	return "", ""
}

// IsPrimaryLabel reports whether an association label marks the primary
// relationship of its pair.
func IsPrimaryLabel(label string) bool {
	return strings.Contains(strings.ToLower(label), "primary")
}

// BuildLabelsJSON serializes the primary label plus the remaining labels as a
// JSON array, deduplicated case-insensitively.
func BuildLabelsJSON(primary string, all []string) string {
	seen := make(map[string]bool)
	var labels []string
	for _, l := range append([]string{primary}, all...) {
		if l == "" {
			continue
		}
		key := strings.ToLower(l)
		if seen[key] {
			continue
		}
		seen[key] = true
		labels = append(labels, l)
	}
	if len(labels) == 0 {
		return ""
	}
	b, err := json.Marshal(labels)
	if err != nil {
		return ""
	}
	return string(b)
}

// ContactCompanyAssociation links a contact to a company, carrying the label
// metadata and provenance of the pairing.
type ContactCompanyAssociation struct {
	ID               int64
	ContactHubSpotID string
	CompanyHubSpotID string
	Label            string
	LabelsJSON       string
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
	Source           string
	SourceID         string
	ExtractedAt      time.Time
}

// MergeFrom patches a stored pairing with populated incoming metadata.
func (a *ContactCompanyAssociation) MergeFrom(in *ContactCompanyAssociation) {
	patchString(&a.Label, in.Label)
	patchString(&a.LabelsJSON, in.LabelsJSON)
	patchTime(&a.CreatedAt, in.CreatedAt)
	patchTime(&a.UpdatedAt, in.UpdatedAt)
	patchString(&a.Source, in.Source)
	patchString(&a.SourceID, in.SourceID)
	a.ExtractedAt = time.Now().UTC()
}

// ActivityAssociation links an activity to any other object it references.
type ActivityAssociation struct {
	ID                int64
	ActivityHubSpotID string
	TargetType        string
	TargetID          string
	Label             string
	ExtractedAt       time.Time
}

// ObjectAssociation is one directed edge in the generic relationship matrix.
type ObjectAssociation struct {
	ID          int64
	SourceType  string
	SourceID    string
	TargetType  string
	TargetID    string
	Label       string
	LabelsJSON  string
	TypeID      *int
	Category    string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
	Source      string
	SourceRef   string
	IsPrimary   bool
	ExtractedAt time.Time
}

// MergeFrom patches the label metadata of a stored edge with populated
// incoming values. IsPrimary is re-derived from the merged label, never taken
// from the incoming flag: a label-less re-read must not blank it.
func (a *ObjectAssociation) MergeFrom(in *ObjectAssociation) {
	patchString(&a.Label, in.Label)
	patchString(&a.LabelsJSON, in.LabelsJSON)
	if in.TypeID != nil {
		a.TypeID = in.TypeID
	}
	patchString(&a.Category, in.Category)
	patchTime(&a.CreatedAt, in.CreatedAt)
	patchTime(&a.UpdatedAt, in.UpdatedAt)
	patchString(&a.Source, in.Source)
	patchString(&a.SourceRef, in.SourceRef)
	a.IsPrimary = IsPrimaryLabel(a.Label)
	a.ExtractedAt = time.Now().UTC()
}
