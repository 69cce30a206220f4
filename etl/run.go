// ABOUTME: Run orchestration: the ordered step table, transaction discipline,
// ABOUTME: and the post-commit best-effort phases
package etl

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/hubsync/db"
)

// syncStep is one entity phase of a run. A critical step failing aborts the
// run and rolls the transaction back; a non-critical one is logged and the
// run continues.
type syncStep struct {
	name     string
	critical bool
	fn       func(ctx context.Context, q db.Queryer, st *runState) error
}

func (e *Engine) steps() []syncStep {
	return []syncStep{
		{"contacts", true, e.syncContacts},
		{"companies", true, e.syncCompanies},
		{"contact-company associations", false, e.syncContactCompanyAssociations},
		{"object associations", false, e.syncObjectAssociations},
		{"deals", true, e.syncDeals},
		{"tickets", true, e.syncTickets},
		{"communications", false, e.syncCommunications},
		{"emails", false, e.syncEmails},
		{"notes", false, e.syncNotes},
	}
}

// Run performs one full reconciliation pass: reference data, the entity steps
// in one transaction, then activities, property history, and the timeline as
// independent best-effort phases against the committed store.
func (e *Engine) Run(ctx context.Context) error {
	runID := ulid.Make().String()
	started := time.Now().UTC()
	if err := db.InsertSyncRun(ctx, e.db, runID, started); err != nil {
		e.log.Warn("recording run start failed", "run_id", runID, "error", err)
	}
	e.log.Info("sync run starting", "run_id", runID)

	st := e.newRunState(ctx, runID)

	if err := e.runEntitySteps(ctx, st); err != nil {
		e.finishRun(ctx, runID, db.RunStatusFailed, err.Error(), st)
		return err
	}

	// Post-commit phases run against the committed store; a failure here
	// never unwinds the entity data above.
	if err := e.syncActivities(ctx, st); err != nil {
		e.log.Warn("activity phase failed", "error", err)
	}
	if err := e.syncPropertyHistory(ctx, st); err != nil {
		e.log.Warn("property history phase failed", "error", err)
	}
	if err := e.syncTimeline(ctx, st); err != nil {
		e.log.Warn("timeline phase failed", "error", err)
	}

	e.finishRun(ctx, runID, db.RunStatusCompleted, "", st)
	e.log.Info("sync run finished", "run_id", runID, "elapsed", time.Since(started).Round(time.Millisecond).String())
	return nil
}

func (e *Engine) runEntitySteps(ctx context.Context, st *runState) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, step := range e.steps() {
		if err := step.fn(ctx, tx, st); err != nil {
			if step.critical {
				if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
					e.log.Error("rollback failed", "step", step.name, "error", rbErr)
				}
				return fmt.Errorf("step %s: %w", step.name, err)
			}
			e.log.Warn("non-critical step failed, continuing", "step", step.name, "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			e.log.Error("rollback after failed commit also failed", "error", rbErr)
		}
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (e *Engine) finishRun(ctx context.Context, runID, status, errMsg string, st *runState) {
	countsJSON := ""
	if b, err := json.Marshal(st.counts); err == nil {
		countsJSON = string(b)
	}
	if err := db.FinishSyncRun(ctx, e.db, runID, status, errMsg, countsJSON); err != nil {
		e.log.Warn("recording run outcome failed", "run_id", runID, "error", err)
	}
}
