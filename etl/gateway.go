// ABOUTME: Gateway interface the reconciler pulls CRM data through
// ABOUTME: Satisfied by the live API client and by fakes under test
package etl

import (
	"context"

	"github.com/harperreed/hubsync/hubspot"
	"github.com/harperreed/hubsync/models"
)

// Gateway is the read surface of the CRM API.
type Gateway interface {
	FetchPage(ctx context.Context, objectType, after string) (*hubspot.Page, error)
	FetchContact(ctx context.Context, id string) (*models.Record, error)
	Owners(ctx context.Context) (map[string]string, error)
	PropertyOptions(ctx context.Context, objectType, property string) (map[string]string, error)
	PropertyHistory(ctx context.Context, objectType, objectID, property string) ([]models.PropertyEntry, error)
	BatchAssociations(ctx context.Context, sourceType, targetType string, ids []string) (map[string][]hubspot.AssociationDetail, error)
}

var _ Gateway = (*hubspot.Client)(nil)
