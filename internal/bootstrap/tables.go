package bootstrap

import (
	"fmt"

	"github.com/leapstack-labs/sqllab/pkg/core"
)

// dataPreviewKey is the description member that references the table's
// data preview query.
const dataPreviewKey = "dataPreviewQueryId"

// materializeTables builds tables from the active tab's table schemas.
// Schemas without a description were never fetched and are skipped.
func materializeTables(active *core.TabState) collection[core.Table] {
	tables := newCollection[core.Table]()
	if active == nil {
		return tables
	}

	for _, ts := range active.TableSchemas {
		if ts.Description == nil {
			continue
		}

		previewID, persist := splitDescription(ts.Description)
		owner := ts.TabStateID
		if owner == "" {
			owner = active.ID
		}

		tables.put(ts.ID, core.Table{
			ID:                 ts.ID,
			QueryEditorID:      owner,
			DBID:               cloneInt64(ts.DatabaseID),
			Catalog:            cloneString(ts.Catalog),
			Schema:             ts.Schema,
			Name:               ts.Table,
			Expanded:           ts.Expanded,
			DataPreviewQueryID: previewID,
			PersistData:        persist,
			Initialized:        true,
		})
	}

	return tables
}

// splitDescription separates the data preview query id from the rest of a
// table description.
func splitDescription(description map[string]any) (*string, map[string]any) {
	persist := make(map[string]any, len(description))
	var previewID *string

	for k, v := range description {
		if k != dataPreviewKey {
			persist[k] = v
			continue
		}
		switch id := v.(type) {
		case nil:
		case string:
			previewID = &id
		default:
			s := fmt.Sprint(id)
			previewID = &s
		}
	}

	return previewID, persist
}
