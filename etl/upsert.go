// ABOUTME: Generic upsert walk shared by every entity step
// ABOUTME: Lookup by external id, insert when absent, merge-and-update otherwise
package etl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harperreed/hubsync/db"
)

// entityOps binds one entity kind to its repository functions and merge rule.
type entityOps[T any] struct {
	name   string
	key    func(*T) string
	find   func(ctx context.Context, q db.Queryer, id string) (*T, error)
	insert func(ctx context.Context, q db.Queryer, e *T) error
	update func(ctx context.Context, q db.Queryer, e *T) error
	merge  func(existing, incoming *T)
}

// upsertAll reconciles every incoming entity against the store. A second run
// over unchanged input updates in place and inserts nothing.
func upsertAll[T any](ctx context.Context, q db.Queryer, log *slog.Logger, ops entityOps[T], incoming []*T, flushSize int) (Counts, error) {
	var counts Counts
	for i, item := range incoming {
		id := ops.key(item)
		existing, err := ops.find(ctx, q, id)
		if err != nil {
			return counts, fmt.Errorf("find %s %s: %w", ops.name, id, err)
		}
		if existing == nil {
			if err := ops.insert(ctx, q, item); err != nil {
				return counts, fmt.Errorf("insert %s %s: %w", ops.name, id, err)
			}
			counts.Inserted++
		} else {
			ops.merge(existing, item)
			if err := ops.update(ctx, q, existing); err != nil {
				return counts, fmt.Errorf("update %s %s: %w", ops.name, id, err)
			}
			counts.Updated++
		}
		if (i+1)%flushSize == 0 {
			log.Debug("upsert progress", "entity", ops.name, "processed", i+1, "total", len(incoming))
		}
	}
	return counts, nil
}
