// ABOUTME: Shared test fixtures: an in-memory gateway fake and engine setup
package etl

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/harperreed/hubsync/db"
	"github.com/harperreed/hubsync/hubspot"
	"github.com/harperreed/hubsync/models"
)

// fakeGateway serves canned pages and associations. Cursors are page indexes
// rendered as strings, matching how the builder links pages together.
type fakeGateway struct {
	pages    map[string][]*hubspot.Page
	fetchErr map[string]error
	owners   map[string]string
	options  map[string]map[string]string
	history  map[string][]models.PropertyEntry
	// keyed "source->target", then source id
	assocs   map[string]map[string][]hubspot.AssociationDetail
	contacts map[string]*models.Record
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		pages:    map[string][]*hubspot.Page{},
		fetchErr: map[string]error{},
		owners:   map[string]string{},
		options:  map[string]map[string]string{},
		history:  map[string][]models.PropertyEntry{},
		assocs:   map[string]map[string][]hubspot.AssociationDetail{},
		contacts: map[string]*models.Record{},
	}
}

// setPages splits records into linked pages of the given size.
func (g *fakeGateway) setPages(objectType string, pageSize int, records ...*models.Record) {
	var pages []*hubspot.Page
	for start := 0; start < len(records); start += pageSize {
		end := start + pageSize
		if end > len(records) {
			end = len(records)
		}
		page := &hubspot.Page{Records: records[start:end]}
		if end < len(records) {
			page.After = strconv.Itoa(len(pages) + 1)
		}
		pages = append(pages, page)
	}
	g.pages[objectType] = pages
}

func (g *fakeGateway) FetchPage(ctx context.Context, objectType, after string) (*hubspot.Page, error) {
	if err := g.fetchErr[objectType]; err != nil {
		return nil, err
	}
	pages := g.pages[objectType]
	idx := 0
	if after != "" {
		idx, _ = strconv.Atoi(after)
	}
	if idx >= len(pages) {
		return &hubspot.Page{}, nil
	}
	return pages[idx], nil
}

func (g *fakeGateway) FetchContact(ctx context.Context, id string) (*models.Record, error) {
	rec, ok := g.contacts[id]
	if !ok {
		return nil, fmt.Errorf("contact %s not found", id)
	}
	return rec, nil
}

func (g *fakeGateway) Owners(ctx context.Context) (map[string]string, error) {
	return g.owners, nil
}

func (g *fakeGateway) PropertyOptions(ctx context.Context, objectType, property string) (map[string]string, error) {
	return g.options[property], nil
}

func (g *fakeGateway) PropertyHistory(ctx context.Context, objectType, objectID, property string) ([]models.PropertyEntry, error) {
	return g.history[objectType+"|"+objectID+"|"+property], nil
}

func (g *fakeGateway) BatchAssociations(ctx context.Context, sourceType, targetType string, ids []string) (map[string][]hubspot.AssociationDetail, error) {
	all := g.assocs[sourceType+"->"+targetType]
	out := map[string][]hubspot.AssociationDetail{}
	for _, id := range ids {
		if details, ok := all[id]; ok {
			out[id] = details
		}
	}
	return out, nil
}

var _ Gateway = (*fakeGateway)(nil)

func newTestEngine(t *testing.T, gw Gateway) (*Engine, *sql.DB) {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(database, gw, log, 500), database
}

func record(t *testing.T, payload string) *models.Record {
	t.Helper()
	rec, err := models.ParseRecord([]byte(payload))
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}
	return rec
}

func contactRecord(t *testing.T, id, email string) *models.Record {
	return record(t, fmt.Sprintf(
		`{"id":%q,"properties":{"hs_object_id":%q,"email":%q,"firstname":"Test","lastname":"Contact %s"}}`,
		id, id, email, id))
}
