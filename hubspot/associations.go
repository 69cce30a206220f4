// ABOUTME: Batched v4 association reads with per-chunk pagination
// ABOUTME: A failed chunk is skipped with a warning so its siblings survive
package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// AssociationDetail is one resolved edge from a batch association read.
type AssociationDetail struct {
	TargetID  string
	Label     string
	AllLabels []string
	TypeID    *int
	Category  string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

type batchInput struct {
	ID json.RawMessage `json:"id"`
}

type batchResponse struct {
	Results []struct {
		From struct {
			ID json.RawMessage `json:"id"`
		} `json:"from"`
		To []struct {
			ToObjectID       json.RawMessage `json:"toObjectId"`
			AssociationTypes []struct {
				Category string `json:"category"`
				TypeID   *int   `json:"typeId"`
				Label    string `json:"label"`
			} `json:"associationTypes"`
		} `json:"to"`
	} `json:"results"`
	Paging *struct {
		Next struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

// BatchAssociations resolves associations from every source id to the target
// type, in chunks. The result maps source id to its outgoing edges; sources
// without edges are absent.
func (c *Client) BatchAssociations(ctx context.Context, sourceType, targetType string, ids []string) (map[string][]AssociationDetail, error) {
	out := make(map[string][]AssociationDetail)
	for start := 0; start < len(ids); start += batchReadLimit {
		end := start + batchReadLimit
		if end > len(ids) {
			end = len(ids)
		}
		if err := c.readAssociationChunk(ctx, sourceType, targetType, ids[start:end], out); err != nil {
			c.log.Warn("association chunk failed, skipping",
				"source_type", sourceType, "target_type", targetType,
				"chunk_start", start, "chunk_size", end-start, "error", err)
		}
	}
	return out, nil
}

func (c *Client) readAssociationChunk(ctx context.Context, sourceType, targetType string, ids []string, out map[string][]AssociationDetail) error {
	inputs := make([]batchInput, 0, len(ids))
	for _, id := range ids {
		inputs = append(inputs, batchInput{ID: encodeID(id)})
	}
	body, err := json.Marshal(map[string]any{"inputs": inputs})
	if err != nil {
		return fmt.Errorf("encode batch inputs: %w", err)
	}

	base := fmt.Sprintf("crm/v4/associations/%s/%s/batch/read", sourceType, targetType)
	after := ""
	for {
		path := base
		if after != "" {
			path += "?after=" + after
		}
		data, err := c.do(ctx, "POST", path, body)
		if err != nil {
			return err
		}
		var resp batchResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return fmt.Errorf("decode batch response: %w", err)
		}
		for _, res := range resp.Results {
			fromID := rawToString(res.From.ID)
			if fromID == "" {
				continue
			}
			for _, to := range res.To {
				toID := rawToString(to.ToObjectID)
				if toID == "" {
					continue
				}
				detail := AssociationDetail{TargetID: toID}
				for _, at := range to.AssociationTypes {
					if detail.TypeID == nil {
						detail.TypeID = at.TypeID
					}
					if detail.Category == "" {
						detail.Category = at.Category
					}
					if at.Label != "" {
						detail.AllLabels = append(detail.AllLabels, at.Label)
						if detail.Label == "" {
							detail.Label = at.Label
						}
					}
				}
				out[fromID] = append(out[fromID], detail)
			}
		}
		if resp.Paging == nil || resp.Paging.Next.After == "" {
			return nil
		}
		after = resp.Paging.Next.After
	}
}

// encodeID sends numeric-looking ids as JSON numbers, matching what the
// batch endpoint expects for CRM object ids.
func encodeID(id string) json.RawMessage {
	if _, err := strconv.ParseInt(id, 10, 64); err == nil {
		return json.RawMessage(id)
	}
	b, _ := json.Marshal(id)
	return b
}

func rawToString(raw json.RawMessage) string {
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
