package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Server configuration keys read by the workspace.
const (
	ConfDefaultDBID  = "SQLLAB_DEFAULT_DBID"
	ConfDefaultLimit = "DEFAULT_SQLLAB_LIMIT"
)

// BootstrapPayload is the server-persisted session state handed to the
// workspace on load.
type BootstrapPayload struct {
	Common      CommonPayload       `json:"common"`
	ActiveTab   *TabState           `json:"active_tab,omitempty"`
	TabStateIDs []TabRecord         `json:"tab_state_ids"`
	Databases   map[string]Database `json:"databases"`
	Queries     map[string]Query    `json:"queries,omitempty"`
	User        *User               `json:"user"`
}

// CommonPayload carries the server configuration block and pending flash
// messages.
type CommonPayload struct {
	Conf          ServerConf     `json:"conf"`
	FlashMessages []FlashMessage `json:"flash_messages"`
}

// ServerConf is the server configuration block. Only a few keys are read;
// the rest is passed through untouched.
type ServerConf map[string]any

// DefaultDBID returns SQLLAB_DEFAULT_DBID, or nil when unset.
func (c ServerConf) DefaultDBID() *int64 {
	n, ok := c.int64(ConfDefaultDBID)
	if !ok {
		return nil
	}
	return &n
}

// DefaultQueryLimit returns DEFAULT_SQLLAB_LIMIT, or 0 when unset.
func (c ServerConf) DefaultQueryLimit() int {
	n, _ := c.int64(ConfDefaultLimit)
	return int(n)
}

func (c ServerConf) int64(key string) (int64, bool) {
	switch v := c[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// FlashMessage is a server-side notice queued for display, encoded on the
// wire as a [category, message] pair.
type FlashMessage struct {
	Category string
	Message  string
}

// MarshalJSON encodes the message as a two-element array.
func (m FlashMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{m.Category, m.Message})
}

// UnmarshalJSON decodes a [category, message] pair.
func (m *FlashMessage) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("flash message must be a [category, message] pair, got %d elements", len(pair))
	}
	m.Category, m.Message = pair[0], pair[1]
	return nil
}

// TabRecord is the minimal descriptor of one open editor tab.
type TabRecord struct {
	ID    ID     `json:"id"`
	Label string `json:"label"`
}

// TabState is the full server record of an editor tab.
type TabState struct {
	ID             ID             `json:"id"`
	Label          string         `json:"label"`
	Active         bool           `json:"active"`
	SQL            string         `json:"sql"`
	LatestQuery    *QueryRef      `json:"latest_query,omitempty"`
	SavedQuery     *SavedQueryRef `json:"saved_query,omitempty"`
	Autorun        bool           `json:"autorun"`
	TemplateParams string         `json:"template_params,omitempty"`
	DatabaseID     *int64         `json:"database_id"`
	Catalog        *string        `json:"catalog,omitempty"`
	Schema         *string        `json:"schema"`
	QueryLimit     int            `json:"query_limit"`
	HideLeftBar    bool           `json:"hide_left_bar"`
	ExtraJSON      *TabExtra      `json:"extra_json,omitempty"`
	TableSchemas   []TableSchema  `json:"table_schemas"`
}

// QueryRef points at the latest query run from a tab.
type QueryRef struct {
	ID string `json:"id"`
}

// SavedQueryRef points at the saved query a tab was opened from.
type SavedQueryRef struct {
	ID int64 `json:"id"`
}

// TabExtra holds versioning metadata stored alongside a tab.
type TabExtra struct {
	Version   int   `json:"version,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// TableSchema is a table pinned to a tab's schema browser.
// A nil Description means the table metadata was never fetched.
type TableSchema struct {
	ID          ID             `json:"id"`
	TabStateID  ID             `json:"tab_state_id"`
	DatabaseID  *int64         `json:"database_id"`
	Catalog     *string        `json:"catalog,omitempty"`
	Schema      string         `json:"schema"`
	Table       string         `json:"table"`
	Description map[string]any `json:"description"`
	Expanded    bool           `json:"expanded"`
}

// Database is a database connection available to SQL Lab.
type Database struct {
	ID             int64  `json:"id"`
	DatabaseName   string `json:"database_name"`
	Backend        string `json:"backend"`
	AllowRunAsync  bool   `json:"allow_run_async"`
	ExposeInSQLLab bool   `json:"expose_in_sqllab"`
}

// User is the session user.
type User struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}
