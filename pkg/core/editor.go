package core

import (
	"encoding/json"
)

// QueryEditor is one SQL editor tab of the workspace.
type QueryEditor struct {
	ID             ID      `json:"id"`
	Name           string  `json:"name"`
	SQL            string  `json:"sql"`
	DBID           *int64  `json:"dbId"`
	Catalog        *string `json:"catalog,omitempty"`
	Schema         *string `json:"schema"`
	QueryLimit     int     `json:"queryLimit"`
	LatestQueryID  *string `json:"latestQueryId"`
	RemoteID       *int64  `json:"remoteId"`
	Autorun        bool    `json:"autorun"`
	TemplateParams string  `json:"templateParams,omitempty"`
	HideLeftBar    bool    `json:"hideLeftBar"`
	Version        int     `json:"version,omitempty"`
	UpdatedAt      int64   `json:"updatedAt,omitempty"`

	// Loaded is false for placeholders whose content is fetched on activation.
	Loaded bool `json:"loaded"`
	// InLocalStorage marks editors merged in from browser-persisted state.
	InLocalStorage bool `json:"inLocalStorage,omitempty"`

	// Extra keeps members without a dedicated field.
	Extra Fields `json:"-"`
}

type queryEditorJSON QueryEditor

// MarshalJSON encodes the editor including its extra members.
func (e QueryEditor) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(queryEditorJSON(e), e.Extra)
}

// UnmarshalJSON decodes the editor and collects unknown members into Extra.
func (e *QueryEditor) UnmarshalJSON(data []byte) error {
	var decoded queryEditorJSON
	extra, err := unmarshalWithExtra(data, &decoded)
	if err != nil {
		return err
	}
	*e = QueryEditor(decoded)
	e.Extra = extra
	return nil
}

// Patch is a partial JSON object applied on top of an entity.
// Members present in the patch win; members absent keep their prior value.
type Patch map[string]json.RawMessage

// ID returns the patch's "id" member, or "" if it has none.
func (p Patch) ID() ID {
	return p.IDMember("id")
}

// IDMember returns the member key decoded as an ID, or "" when it is
// missing or not an id.
func (p Patch) IDMember(key string) ID {
	raw, ok := p[key]
	if !ok {
		return ""
	}
	var id ID
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id
}

// MarshalJSON encodes a nil patch as an empty object.
func (p Patch) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]json.RawMessage(p))
}

// UnsavedQueryEditor holds in-flight edits to the active editor that were
// never persisted. At most one exists per workspace.
type UnsavedQueryEditor = Patch
