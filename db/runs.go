// ABOUTME: Sync run bookkeeping: one row per reconciliation pass
package db

import (
	"context"
	"time"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

func InsertSyncRun(ctx context.Context, q Queryer, id string, startedAt time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO sync_runs (id, started_at, status) VALUES (?, ?, ?)
	`, id, startedAt.UTC(), RunStatusRunning)
	return err
}

func FinishSyncRun(ctx context.Context, q Queryer, id, status, errMsg, countsJSON string) error {
	_, err := q.ExecContext(ctx, `
		UPDATE sync_runs SET finished_at = ?, status = ?, error = ?, counts_json = ?
		WHERE id = ?
	`, time.Now().UTC(), status, nullStr(errMsg), nullStr(countsJSON), id)
	return err
}
