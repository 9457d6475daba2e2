package bootstrap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/sqllab/pkg/core"
)

// LegacyStorageKey is the browser storage slot holding pre-migration state.
const LegacyStorageKey = "redux"

// legacyState is the top-level shape of the legacy slot.
type legacyState struct {
	SQLLab json.RawMessage `json:"sqlLab"`
}

// legacySQLLabJSON holds the members of the sqlLab object undecoded, so one
// malformed member or entry does not discard the others.
type legacySQLLabJSON struct {
	QueryEditors       []json.RawMessage `json:"queryEditors"`
	UnsavedQueryEditor json.RawMessage   `json:"unsavedQueryEditor"`
	Tables             json.RawMessage   `json:"tables"`
	Queries            json.RawMessage   `json:"queries"`
	TabHistory         json.RawMessage   `json:"tabHistory"`
}

// legacySQLLab is the SQL Lab slice of the legacy slot. Editors and tables
// stay as patches so only the members they actually carry are merged.
type legacySQLLab struct {
	// Migrated is set when the slot's editor list is empty.
	Migrated bool

	QueryEditors       []core.Patch
	UnsavedQueryEditor core.Patch
	Tables             []core.Patch
	Queries            map[string]core.Query
	TabHistory         []core.ID
}

// readLegacy loads the legacy SQL Lab state. It reports false when the slot
// is absent, unreadable, or does not hold a SQL Lab object with an editor list.
func readLegacy(storage core.LegacyStorage, logger *slog.Logger) (*legacySQLLab, bool) {
	if storage == nil {
		return nil, false
	}

	raw, ok, err := storage.GetItem(LegacyStorageKey)
	if err != nil {
		logger.Debug("legacy storage unreadable, ignoring", "key", LegacyStorageKey, "error", err)
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}

	snapshot, err := parseLegacy([]byte(raw), logger)
	if err != nil {
		logger.Debug("legacy SQL Lab state unusable, ignoring", "key", LegacyStorageKey, "error", err)
		return nil, false
	}
	return snapshot, true
}

// parseLegacy checks the slot's shape and decodes what it can. Only a slot
// that is not JSON, has no sqlLab object or no queryEditors list is an
// error; malformed entries inside it are skipped one by one.
func parseLegacy(data []byte, logger *slog.Logger) (*legacySQLLab, error) {
	var state legacyState
	if err := decodeJSON(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse legacy state: %w", err)
	}
	if isNull(state.SQLLab) {
		return nil, errors.New("legacy state has no sqlLab object")
	}

	var raw legacySQLLabJSON
	if err := decodeJSON(state.SQLLab, &raw); err != nil {
		return nil, fmt.Errorf("legacy sqlLab is not an object: %w", err)
	}
	if raw.QueryEditors == nil {
		return nil, errors.New("legacy sqlLab has no queryEditors list")
	}

	skip := func(what string, err error) {
		logger.Debug("skipping malformed legacy entry", "entry", what, "error", err)
	}

	out := &legacySQLLab{
		Migrated:     len(raw.QueryEditors) == 0,
		QueryEditors: make([]core.Patch, 0, len(raw.QueryEditors)),
		Queries:      map[string]core.Query{},
	}
	for i, entry := range raw.QueryEditors {
		if p, err := decodePatch(entry); err != nil {
			skip(fmt.Sprintf("queryEditors[%d]", i), err)
		} else {
			out.QueryEditors = append(out.QueryEditors, p)
		}
	}

	if !isNull(raw.UnsavedQueryEditor) {
		if p, err := decodePatch(raw.UnsavedQueryEditor); err != nil {
			skip("unsavedQueryEditor", err)
		} else {
			out.UnsavedQueryEditor = p
		}
	}

	for i, entry := range decodeList(raw.Tables, "tables", skip) {
		if p, err := decodePatch(entry); err != nil {
			skip(fmt.Sprintf("tables[%d]", i), err)
		} else {
			out.Tables = append(out.Tables, p)
		}
	}

	if !isNull(raw.Queries) {
		var queries map[string]json.RawMessage
		if err := decodeJSON(raw.Queries, &queries); err != nil {
			skip("queries", err)
		}
		for key, entry := range queries {
			var q core.Query
			if err := decodeJSON(entry, &q); err != nil {
				skip("queries."+key, err)
				continue
			}
			if q != nil {
				out.Queries[key] = q
			}
		}
	}

	for i, entry := range decodeList(raw.TabHistory, "tabHistory", skip) {
		var id core.ID
		if err := json.Unmarshal(entry, &id); err != nil {
			skip(fmt.Sprintf("tabHistory[%d]", i), err)
			continue
		}
		if id != "" {
			out.TabHistory = append(out.TabHistory, id)
		}
	}

	return out, nil
}

// decodeJSON decodes data keeping numbers as json.Number.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// decodePatch decodes one JSON object. null and non-objects are errors.
func decodePatch(data json.RawMessage) (core.Patch, error) {
	var p core.Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.New("entry is null")
	}
	return p, nil
}

// decodeList decodes an optional JSON array, reporting a non-array through skip.
func decodeList(data json.RawMessage, what string, skip func(string, error)) []json.RawMessage {
	if isNull(data) {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		skip(what, err)
		return nil
	}
	return list
}

func isNull(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}

// overlayLegacy merges a legacy snapshot over the server-derived workspace.
// Entries that cannot be merged are skipped; the rest still apply.
func overlayLegacy(ws workspace, legacy *legacySQLLab, logger *slog.Logger) workspace {
	out := workspace{
		editors: ws.editors.clone(),
		tables:  ws.tables.clone(),
		queries: cloneQueries(ws.queries),
		history: append(slices.Clone(ws.history), legacy.TabHistory...),
		unsaved: ws.unsaved,
	}
	if legacy.UnsavedQueryEditor != nil {
		out.unsaved = legacy.UnsavedQueryEditor
	}

	for _, entry := range legacy.QueryEditors {
		id := entry.ID()
		if id == "" {
			continue
		}
		qe, err := overlayEditor(out.editors, id, entry, out.unsaved, logger)
		if err != nil {
			logger.Debug("skipping legacy editor", "id", id, "error", err)
			continue
		}
		out.editors.put(id, qe)
	}

	// The first legacy table seen for an editor is the expanded one. The
	// owner is read from the legacy record itself.
	expandedFor := make(map[core.ID]struct{})
	for _, entry := range legacy.Tables {
		id := entry.ID()
		if id == "" {
			continue
		}
		owner := entry.IDMember("queryEditorId")
		_, seen := expandedFor[owner]
		expandedFor[owner] = struct{}{}

		var existing *core.Table
		if prev, ok := out.tables.get(id); ok {
			existing = &prev
		}
		tbl, rejected, err := mergeRecord(existing, entry)
		if err != nil {
			logger.Debug("skipping legacy table", "id", id, "error", err)
			continue
		}
		if len(rejected) > 0 {
			logger.Debug("ignored mistyped legacy table members", "id", id, "members", rejected)
		}
		tbl.ID = id
		tbl.Expanded = !seen

		out.tables.put(id, tbl)
	}

	for key, q := range legacy.Queries {
		id := key
		if id == "" {
			id = q.ID()
		}
		if id == "" {
			continue
		}
		stamped := q.Clone()
		stamped["inLocalStorage"] = true
		out.queries[id] = stamped
	}

	return out
}

func overlayEditor(editors collection[core.QueryEditor], id core.ID, entry, unsaved core.Patch, logger *slog.Logger) (core.QueryEditor, error) {
	var existing *core.QueryEditor
	if prev, ok := editors.get(id); ok {
		existing = &prev
	}

	patches := []core.Patch{normalizeEditorPatch(entry)}
	if unsavedID := unsaved.ID(); unsavedID != "" && unsavedID == id {
		patches = append(patches, normalizeEditorPatch(unsaved))
	}

	qe, rejected, err := mergeRecord(existing, patches...)
	if err != nil {
		return core.QueryEditor{}, fmt.Errorf("legacy editor %s: %w", id, err)
	}
	if len(rejected) > 0 {
		logger.Debug("ignored mistyped legacy editor members", "id", id, "members", rejected)
	}
	qe.ID = id
	qe.InLocalStorage = true
	qe.Loaded = true
	return qe, nil
}
