package core

// Table is a table whose schema is shown in an editor's side panel.
type Table struct {
	ID                 ID             `json:"id"`
	QueryEditorID      ID             `json:"queryEditorId"`
	DBID               *int64         `json:"dbId"`
	Catalog            *string        `json:"catalog,omitempty"`
	Schema             string         `json:"schema"`
	Name               string         `json:"name"`
	Expanded           bool           `json:"expanded"`
	DataPreviewQueryID *string        `json:"dataPreviewQueryId"`
	PersistData        map[string]any `json:"persistData,omitempty"`
	Initialized        bool           `json:"initialized"`

	Extra Fields `json:"-"`
}

type tableJSON Table

// MarshalJSON encodes the table including its extra members.
func (t Table) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(tableJSON(t), t.Extra)
}

// UnmarshalJSON decodes the table and collects unknown members into Extra.
func (t *Table) UnmarshalJSON(data []byte) error {
	var decoded tableJSON
	extra, err := unmarshalWithExtra(data, &decoded)
	if err != nil {
		return err
	}
	*t = Table(decoded)
	t.Extra = extra
	return nil
}
