// ABOUTME: Reconciliation engine wiring the gateway, the store, and logging
package etl

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/harperreed/hubsync/models"
)

// Engine drives one reconciliation pass at a time.
type Engine struct {
	db        *sql.DB
	gw        Gateway
	log       *slog.Logger
	flushSize int
}

// New builds an engine. flushSize controls how often progress is reported
// while walking large entity sets.
func New(sqldb *sql.DB, gw Gateway, log *slog.Logger, flushSize int) *Engine {
	if flushSize < 1 {
		flushSize = 500
	}
	return &Engine{db: sqldb, gw: gw, log: log, flushSize: flushSize}
}

// Counts summarizes the outcome of one entity step.
type Counts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed,omitempty"`
}

func (c Counts) total() int { return c.Inserted + c.Updated }

// fetchAllRecords walks the cursor to exhaustion for one object type.
func (e *Engine) fetchAllRecords(ctx context.Context, objectType string) ([]*models.Record, error) {
	var records []*models.Record
	after := ""
	for {
		page, err := e.gw.FetchPage(ctx, objectType, after)
		if err != nil {
			return nil, err
		}
		records = append(records, page.Records...)
		if page.After == "" {
			return records, nil
		}
		after = page.After
	}
}
