// ABOUTME: Property change-history folding from API history arrays into
// ABOUTME: stored old/new transition rows
package models

import "time"

// PropertyEntry is one raw history entry for a tracked property.
type PropertyEntry struct {
	Value     string
	Timestamp *time.Time
	Source    string
	SourceID  string
}

// PropertyHistory is one stored transition of a tracked property. Note the
// field orientation: OldValue holds the entry's own value and NewValue the
// value that preceded it in the fold. Downstream reports depend on this
// orientation, so it must not be flipped.
type PropertyHistory struct {
	ID           int64
	ObjectType   string
	ObjectID     string
	PropertyName string
	OldValue     string
	NewValue     string
	ChangeDate   time.Time
	Source       string
	SourceID     string
	ExtractedAt  time.Time
}

// FoldPropertyHistory walks the raw history entries in API order, threading
// the previously seen value through, and emits one transition row per entry.
// Entries without a timestamp or with an empty value are skipped without
// advancing the thread.
func FoldPropertyHistory(objectType, objectID, property string, entries []PropertyEntry) []*PropertyHistory {
	var out []*PropertyHistory
	previous := ""
	for _, e := range entries {
		if e.Timestamp == nil || e.Value == "" {
			continue
		}
		out = append(out, &PropertyHistory{
			ObjectType:   objectType,
			ObjectID:     objectID,
			PropertyName: property,
			OldValue:     e.Value,
			NewValue:     previous,
			ChangeDate:   e.Timestamp.UTC(),
			Source:       e.Source,
			SourceID:     e.SourceID,
			ExtractedAt:  time.Now().UTC(),
		})
		previous = e.Value
	}
	return out
}

// MergeFrom patches a stored transition with populated incoming values. The
// change date is part of the identity and never moves.
func (h *PropertyHistory) MergeFrom(in *PropertyHistory) {
	patchString(&h.OldValue, in.OldValue)
	patchString(&h.NewValue, in.NewValue)
	patchString(&h.Source, in.Source)
	patchString(&h.SourceID, in.SourceID)
	h.ExtractedAt = time.Now().UTC()
}
