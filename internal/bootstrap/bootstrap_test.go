package bootstrap

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqllab/internal/legacy"
	"github.com/leapstack-labs/sqllab/internal/testutil"
	"github.com/leapstack-labs/sqllab/internal/toast"
	"github.com/leapstack-labs/sqllab/pkg/core"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func testOptions(t *testing.T, storage core.LegacyStorage) Options {
	t.Helper()
	return Options{
		Legacy: storage,
		Toasts: toast.NewWithIDs(func() string { return "fixed" }).FromFlashMessages,
		Now:    func() time.Time { return fixedNow },
		Logger: testutil.NewTestLogger(t),
	}
}

// serverPayload has tabs 5 (active) and 6, two schema entries on tab 5
// of which one was never fetched, and one finished query.
func serverPayload() *core.BootstrapPayload {
	return &core.BootstrapPayload{
		Common: core.CommonPayload{
			Conf: core.ServerConf{
				core.ConfDefaultDBID:  int64(1),
				core.ConfDefaultLimit: 500,
			},
			FlashMessages: []core.FlashMessage{{Category: "info", Message: "welcome"}},
		},
		ActiveTab: &core.TabState{
			ID:          "5",
			Label:       "Query 5",
			Active:      true,
			SQL:         "SELECT * FROM orders",
			LatestQuery: &core.QueryRef{ID: "q1"},
			SavedQuery:  &core.SavedQueryRef{ID: 42},
			DatabaseID:  ptr(int64(2)),
			Schema:      ptr("public"),
			QueryLimit:  100,
			HideLeftBar: true,
			ExtraJSON:   &core.TabExtra{Version: 1, UpdatedAt: 1700000000000},
			TableSchemas: []core.TableSchema{
				{
					ID:          "11",
					TabStateID:  "5",
					DatabaseID:  ptr(int64(2)),
					Schema:      "public",
					Table:       "orders",
					Description: map[string]any{"columns": []any{"id"}, "dataPreviewQueryId": "dp1"},
					Expanded:    true,
				},
				{ID: "12", TabStateID: "5", Schema: "public", Table: "pending"},
			},
		},
		TabStateIDs: []core.TabRecord{{ID: "5", Label: "Query 5"}, {ID: "6", Label: "Query 6"}},
		Databases:   map[string]core.Database{"2": {ID: 2, DatabaseName: "main", ExposeInSQLLab: true}},
		Queries:     map[string]core.Query{"q1": {"id": "q1", "status": core.QueryStatusSuccess}},
		User:        &core.User{UserID: 1, Username: "admin"},
	}
}

func serverOnly(t *testing.T) *core.InitialState {
	t.Helper()
	res, err := Build(serverPayload(), testOptions(t, nil))
	require.NoError(t, err)
	return res.State
}

func legacyStore(sqlLab string) *legacy.Memory {
	return legacy.NewMemory(map[string]string{LegacyStorageKey: `{"sqlLab":` + sqlLab + `}`})
}

func editorByID(t *testing.T, s *core.InitialState, id core.ID) core.QueryEditor {
	t.Helper()
	for _, qe := range s.SQLLab.QueryEditors {
		if qe.ID == id {
			return qe
		}
	}
	t.Fatalf("editor %s not found", id)
	return core.QueryEditor{}
}

func tableByID(t *testing.T, s *core.InitialState, id core.ID) core.Table {
	t.Helper()
	for _, tbl := range s.SQLLab.Tables {
		if tbl.ID == id {
			return tbl
		}
	}
	t.Fatalf("table %s not found", id)
	return core.Table{}
}

func TestBuild_EmptyPayload(t *testing.T) {
	for _, payload := range []*core.BootstrapPayload{nil, {}} {
		res, err := Build(payload, testOptions(t, nil))
		require.NoError(t, err)

		s := res.State.SQLLab
		assert.NotNil(t, s.QueryEditors)
		assert.Empty(t, s.QueryEditors)
		assert.NotNil(t, s.Tables)
		assert.Empty(t, s.Tables)
		assert.NotNil(t, s.TabHistory)
		assert.Empty(t, s.TabHistory)
		assert.Empty(t, s.Queries)
		assert.Equal(t, core.ID(""), s.LastUpdatedActiveTab)
		assert.False(t, res.LegacyCleared)
		assert.Nil(t, res.State.User)
	}
}

func TestBuild_ServerOnly(t *testing.T) {
	state := serverOnly(t)
	s := state.SQLLab

	require.Len(t, s.QueryEditors, 2)
	assert.Equal(t, core.ID("5"), s.QueryEditors[0].ID)
	assert.Equal(t, core.ID("6"), s.QueryEditors[1].ID)

	active := s.QueryEditors[0]
	assert.Equal(t, "Query 5", active.Name)
	assert.Equal(t, "SELECT * FROM orders", active.SQL)
	assert.Equal(t, ptr(int64(2)), active.DBID)
	assert.Equal(t, ptr("public"), active.Schema)
	assert.Equal(t, 100, active.QueryLimit)
	assert.Equal(t, ptr("q1"), active.LatestQueryID)
	assert.Equal(t, ptr(int64(42)), active.RemoteID)
	assert.True(t, active.HideLeftBar)
	assert.True(t, active.Loaded)
	assert.False(t, active.InLocalStorage)
	assert.Equal(t, 1, active.Version)
	assert.Equal(t, int64(1700000000000), active.UpdatedAt)

	placeholder := s.QueryEditors[1]
	assert.Equal(t, "Query 6", placeholder.Name)
	assert.False(t, placeholder.Loaded)
	assert.Equal(t, "SELECT ...", placeholder.SQL)
	assert.Equal(t, ptr(int64(1)), placeholder.DBID)
	assert.Equal(t, 500, placeholder.QueryLimit)
	assert.False(t, placeholder.Autorun)
	assert.False(t, placeholder.HideLeftBar)
	assert.Nil(t, placeholder.RemoteID)

	require.Len(t, s.Tables, 1)
	tbl := s.Tables[0]
	assert.Equal(t, core.ID("11"), tbl.ID)
	assert.Equal(t, core.ID("5"), tbl.QueryEditorID)
	assert.Equal(t, "orders", tbl.Name)
	assert.True(t, tbl.Expanded)
	assert.True(t, tbl.Initialized)
	assert.Equal(t, ptr("dp1"), tbl.DataPreviewQueryID)
	assert.Equal(t, map[string]any{"columns": []any{"id"}}, tbl.PersistData)

	assert.Equal(t, []core.ID{"5"}, s.TabHistory)
	assert.Equal(t, core.ID("5"), s.LastUpdatedActiveTab)
	assert.Equal(t, fixedNow.UnixMilli(), s.QueriesLastUpdate)
	assert.Equal(t, fixedNow.UnixMilli(), s.EditorTabLastUpdatedAt)
	assert.Equal(t, DefaultSouthPaneTab, s.ActiveSouthPaneTab)
	assert.False(t, s.Offline)
	assert.Empty(t, s.Alerts)
	assert.Empty(t, s.QueryCostEstimates)
	assert.Empty(t, s.UnsavedQueryEditor)
	assert.Equal(t, core.QueryStatusSuccess, s.Queries["q1"]["status"])

	assert.Equal(t, []core.Toast{{ID: "INFO_TOAST-fixed", ToastType: core.ToastInfo, Text: "welcome", Duration: toast.DefaultDuration}}, state.MessageToasts)
	assert.Equal(t, 0, state.LocalStorageUsageInKilobytes)
	assert.Equal(t, "admin", state.User.Username)
	assert.Len(t, state.Common.FlashMessages, 1)
	assert.Equal(t, 500, state.Common.Conf.DefaultQueryLimit())
}

func TestBuild_NoActiveTab(t *testing.T) {
	payload := serverPayload()
	payload.ActiveTab = nil

	res, err := Build(payload, testOptions(t, nil))
	require.NoError(t, err)

	s := res.State.SQLLab
	require.Len(t, s.QueryEditors, 2)
	for _, qe := range s.QueryEditors {
		assert.False(t, qe.Loaded, "editor %s", qe.ID)
	}
	assert.Empty(t, s.Tables)
	assert.Empty(t, s.TabHistory)
}

func TestBuild_CleanSlate(t *testing.T) {
	storage := legacyStore(`{"queryEditors":[],"tables":[{"id":99}],"tabHistory":["6"]}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)

	assert.True(t, res.LegacyCleared)
	assert.Equal(t, serverOnly(t), res.State)

	_, ok, _ := storage.GetItem(LegacyStorageKey)
	assert.False(t, ok, "legacy slot should be removed")
}

type failingRemove struct {
	*legacy.Memory
}

func (failingRemove) RemoveItem(string) error {
	return errors.New("storage locked")
}

func TestBuild_CleanSlateRemoveFails(t *testing.T) {
	storage := failingRemove{legacyStore(`{"queryEditors":[]}`)}

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage locked")

	require.NotNil(t, res)
	assert.False(t, res.LegacyCleared)
	assert.Equal(t, serverOnly(t), res.State)
}

type failingGet struct{}

func (failingGet) GetItem(string) (string, bool, error) { return "", false, errors.New("quota") }
func (failingGet) RemoveItem(string) error              { return nil }

func TestBuild_UnusableLegacy(t *testing.T) {
	tests := []struct {
		name    string
		storage core.LegacyStorage
	}{
		{name: "not json", storage: legacy.NewMemory(map[string]string{LegacyStorageKey: "{not json"})},
		{name: "empty string", storage: legacy.NewMemory(map[string]string{LegacyStorageKey: ""})},
		{name: "no sqlLab", storage: legacy.NewMemory(map[string]string{LegacyStorageKey: `{"explore":{}}`})},
		{name: "sqlLab null", storage: legacyStore(`null`)},
		{name: "no editor list", storage: legacyStore(`{"tables":[{"id":1,"queryEditorId":"5"}]}`)},
		{name: "editor list null", storage: legacyStore(`{"queryEditors":null}`)},
		{name: "editor list wrong type", storage: legacyStore(`{"queryEditors":"5"}`)},
		{name: "slot missing", storage: legacy.NewMemory(nil)},
		{name: "read error", storage: failingGet{}},
	}

	want := serverOnly(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Build(serverPayload(), testOptions(t, tt.storage))
			require.NoError(t, err)
			assert.False(t, res.LegacyCleared)
			assert.Equal(t, want, res.State)
		})
	}
}

func TestBuild_UnusableLegacyKeepsSlot(t *testing.T) {
	storage := legacy.NewMemory(map[string]string{LegacyStorageKey: "{not json"})

	_, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)

	v, ok, _ := storage.GetItem(LegacyStorageKey)
	assert.True(t, ok)
	assert.Equal(t, "{not json", v)
}

func TestBuild_MalformedEntriesAreSkipped(t *testing.T) {
	storage := legacyStore(`{
		"queryEditors":[
			{"id":"7","title":"Important work","sql":"SELECT hours_of_work"},
			{"id":"5","autorun":"yes","sql":"SELECT fixed"},
			"junk",
			null
		],
		"tables":[
			{"id":"20","queryEditorId":"7","name":"timesheets"},
			42,
			{"id":"21","queryEditorId":"7","name":"projects","persistData":"bad"}
		],
		"queries":{"q9":{"status":"running"},"q10":"junk"},
		"tabHistory":["7",{},"5"]
	}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)
	assert.False(t, res.LegacyCleared)

	seven := editorByID(t, res.State, "7")
	assert.Equal(t, "Important work", seven.Name)
	assert.Equal(t, "SELECT hours_of_work", seven.SQL)
	assert.True(t, seven.InLocalStorage)

	// The mistyped member is dropped; its siblings still merge.
	five := editorByID(t, res.State, "5")
	assert.Equal(t, "SELECT fixed", five.SQL)
	assert.False(t, five.Autorun)
	assert.Equal(t, "Query 5", five.Name)
	assert.True(t, five.InLocalStorage)

	assert.Equal(t, "timesheets", tableByID(t, res.State, "20").Name)
	projects := tableByID(t, res.State, "21")
	assert.Equal(t, "projects", projects.Name)
	assert.Nil(t, projects.PersistData)

	assert.Equal(t, "running", res.State.SQLLab.Queries["q9"]["status"])
	assert.NotContains(t, res.State.SQLLab.Queries, "q10")
	assert.Equal(t, []core.ID{"5", "7", "5"}, res.State.SQLLab.TabHistory)
}

func TestBuild_MalformedListsAreSkipped(t *testing.T) {
	storage := legacyStore(`{
		"queryEditors":[{"id":"5","title":"Renamed"}],
		"tables":{"id":1},
		"queries":[1],
		"tabHistory":"5",
		"unsavedQueryEditor":"draft"
	}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)

	want := serverOnly(t)
	assert.Equal(t, "Renamed", editorByID(t, res.State, "5").Name)
	assert.Equal(t, want.SQLLab.Tables, res.State.SQLLab.Tables)
	assert.Equal(t, want.SQLLab.Queries, res.State.SQLLab.Queries)
	assert.Equal(t, want.SQLLab.TabHistory, res.State.SQLLab.TabHistory)
	assert.Equal(t, want.SQLLab.UnsavedQueryEditor, res.State.SQLLab.UnsavedQueryEditor)
}

func TestBuild_AllEditorsMalformedKeepsSlot(t *testing.T) {
	storage := legacyStore(`{"queryEditors":["junk",7]}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)
	assert.False(t, res.LegacyCleared)
	assert.Equal(t, serverOnly(t), res.State)

	_, ok, _ := storage.GetItem(LegacyStorageKey)
	assert.True(t, ok)
}

func TestBuild_EditorPrecedence(t *testing.T) {
	storage := legacyStore(`{"queryEditors":[{"id":5,"title":"Renamed"}]}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)

	qe := editorByID(t, res.State, "5")
	assert.Equal(t, "Renamed", qe.Name)
	assert.True(t, qe.InLocalStorage)
	assert.True(t, qe.Loaded)
	// Members the legacy entry omits keep their server value.
	assert.Equal(t, "SELECT * FROM orders", qe.SQL)
	assert.Equal(t, ptr("q1"), qe.LatestQueryID)
	assert.NotContains(t, qe.Extra, "title")

	placeholder := editorByID(t, res.State, "6")
	assert.False(t, placeholder.InLocalStorage)
	assert.False(t, placeholder.Loaded)
}

func TestBuild_LegacyEditorOverridesFields(t *testing.T) {
	storage := legacyStore(`{"queryEditors":[
		{"id":"6","name":"Local six","sql":"SELECT 6","dbId":3,"schema":null,"autorun":true,"selectedText":"6"},
		{"id":"7","title":"","name":"Local only","sql":"SELECT 7"}
	]}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)

	editors := res.State.SQLLab.QueryEditors
	require.Len(t, editors, 3)
	assert.Equal(t, []core.ID{"5", "6", "7"}, []core.ID{editors[0].ID, editors[1].ID, editors[2].ID})

	six := editors[1]
	assert.Equal(t, "Local six", six.Name)
	assert.Equal(t, "SELECT 6", six.SQL)
	assert.Equal(t, ptr(int64(3)), six.DBID)
	assert.Nil(t, six.Schema)
	assert.True(t, six.Autorun)
	assert.True(t, six.Loaded)
	assert.Equal(t, 500, six.QueryLimit, "template value kept")
	assert.JSONEq(t, `"6"`, string(six.Extra["selectedText"]))

	seven := editors[2]
	assert.Equal(t, "Local only", seven.Name)
	assert.True(t, seven.InLocalStorage)
	assert.True(t, seven.Loaded)
}

func TestBuild_BlankTitleKeepsName(t *testing.T) {
	storage := legacyStore(`{"queryEditors":[{"id":"5","title":"","name":"","sql":"SELECT 1"}]}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)

	qe := editorByID(t, res.State, "5")
	assert.Equal(t, "Query 5", qe.Name)
	assert.Equal(t, "SELECT 1", qe.SQL)
}

func TestBuild_ExpansionTieBreak(t *testing.T) {
	storage := legacyStore(`{
		"queryEditors":[{"id":"A"},{"id":"B"}],
		"tables":[
			{"id":1,"queryEditorId":"A","expanded":false},
			{"id":2,"queryEditorId":"A","expanded":true},
			{"id":3,"queryEditorId":"B"}
		]
	}`)

	res, err := Build(&core.BootstrapPayload{}, testOptions(t, storage))
	require.NoError(t, err)

	tables := res.State.SQLLab.Tables
	require.Len(t, tables, 3)
	assert.Equal(t, core.ID("1"), tables[0].ID)
	assert.True(t, tables[0].Expanded)
	assert.Equal(t, core.ID("2"), tables[1].ID)
	assert.False(t, tables[1].Expanded)
	assert.Equal(t, core.ID("3"), tables[2].ID)
	assert.True(t, tables[2].Expanded)
}

func TestBuild_LegacyTableMergesOntoServerTable(t *testing.T) {
	storage := legacyStore(`{
		"queryEditors":[{"id":"5"}],
		"tables":[
			{"id":"13","queryEditorId":"5","name":"customers"},
			{"id":"11","queryEditorId":"5","expanded":true,"name":"orders_local"}
		]
	}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)

	tables := res.State.SQLLab.Tables
	require.Len(t, tables, 2)

	// Server table keeps its position and its unmentioned members.
	merged := tableByID(t, res.State, "11")
	assert.Equal(t, core.ID("11"), tables[0].ID)
	assert.Equal(t, "orders_local", merged.Name)
	assert.Equal(t, "public", merged.Schema)
	assert.Equal(t, ptr("dp1"), merged.DataPreviewQueryID)
	assert.True(t, merged.Initialized)
	assert.False(t, merged.Expanded, "second legacy table for editor 5")

	added := tableByID(t, res.State, "13")
	assert.True(t, added.Expanded)
	assert.False(t, added.Initialized)
}

func TestBuild_ExpansionUsesLegacyOwner(t *testing.T) {
	// Table 11 belongs to editor 5 on the server, but the legacy record
	// carries no owner, so it does not use up editor 5's expanded slot.
	storage := legacyStore(`{
		"queryEditors":[{"id":"5"}],
		"tables":[
			{"id":"11","name":"orders_local"},
			{"id":"13","queryEditorId":"5","name":"customers"}
		]
	}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)

	merged := tableByID(t, res.State, "11")
	assert.Equal(t, core.ID("5"), merged.QueryEditorID)
	assert.True(t, merged.Expanded)

	assert.True(t, tableByID(t, res.State, "13").Expanded)
}

func TestBuild_LegacyQueriesKeyedByMapKey(t *testing.T) {
	tests := []struct {
		name    string
		queries string
		key     string
	}{
		{name: "inner id differs", queries: `{"q2":{"id":"other","status":"running"}}`, key: "q2"},
		{name: "inner id missing", queries: `{"q2":{"status":"running"}}`, key: "q2"},
		{name: "empty key falls back to inner id", queries: `{"":{"id":"q3","status":"running"}}`, key: "q3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := legacyStore(`{"queryEditors":[{"id":"5"}],"queries":` + tt.queries + `}`)

			res, err := Build(serverPayload(), testOptions(t, storage))
			require.NoError(t, err)

			queries := res.State.SQLLab.Queries
			assert.ElementsMatch(t, []string{"q1", tt.key}, slices.Collect(maps.Keys(queries)))
			assert.Equal(t, "running", queries[tt.key]["status"])
			assert.Equal(t, true, queries[tt.key]["inLocalStorage"])
		})
	}
}

func TestBuild_QueryOverwrite(t *testing.T) {
	payload := serverPayload()
	storage := legacyStore(`{
		"queryEditors":[{"id":"5"}],
		"queries":{
			"q1":{"id":"q1","status":"failed"},
			"q2":{"status":"running","rows":10}
		}
	}`)

	res, err := Build(payload, testOptions(t, storage))
	require.NoError(t, err)

	queries := res.State.SQLLab.Queries
	assert.Equal(t, "failed", queries["q1"]["status"])
	assert.Equal(t, true, queries["q1"]["inLocalStorage"])
	assert.Equal(t, "running", queries["q2"]["status"])
	assert.Equal(t, json.Number("10"), queries["q2"]["rows"])
	assert.Equal(t, true, queries["q2"]["inLocalStorage"])

	// The payload itself is left untouched.
	assert.Equal(t, core.QueryStatusSuccess, payload.Queries["q1"]["status"])
	assert.NotContains(t, payload.Queries["q1"], "inLocalStorage")
}

func TestBuild_UnsavedEditorTargetsMatchingID(t *testing.T) {
	storage := legacyStore(`{
		"queryEditors":[{"id":"5"},{"id":"6","title":"Six"}],
		"unsavedQueryEditor":{"id":"5","sql":"SELECT draft","title":"Draft"}
	}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)

	five := editorByID(t, res.State, "5")
	assert.Equal(t, "SELECT draft", five.SQL)
	assert.Equal(t, "Draft", five.Name)

	six := editorByID(t, res.State, "6")
	assert.Equal(t, "Six", six.Name)
	assert.Equal(t, "SELECT ...", six.SQL)

	unsaved := res.State.SQLLab.UnsavedQueryEditor
	assert.Equal(t, core.ID("5"), unsaved.ID())
	assert.JSONEq(t, `"SELECT draft"`, string(unsaved["sql"]))
}

func TestBuild_UnsavedEditorWithoutMatch(t *testing.T) {
	storage := legacyStore(`{
		"queryEditors":[{"id":"5"}],
		"unsavedQueryEditor":{"id":"99","sql":"SELECT draft"}
	}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)

	for _, qe := range res.State.SQLLab.QueryEditors {
		assert.NotEqual(t, "SELECT draft", qe.SQL, "editor %s", qe.ID)
	}
	assert.Equal(t, core.ID("99"), res.State.SQLLab.UnsavedQueryEditor.ID())
}

func TestBuild_TabHistory(t *testing.T) {
	storage := legacyStore(`{"queryEditors":[{"id":"5"}],"tabHistory":["5","5",6,"5"]}`)

	res, err := Build(serverPayload(), testOptions(t, storage))
	require.NoError(t, err)

	assert.Equal(t, []core.ID{"5", "6", "5"}, res.State.SQLLab.TabHistory)
	assert.Equal(t, core.ID("5"), res.State.SQLLab.LastUpdatedActiveTab)
}

func TestBuild_StaleLegacyIsReapplied(t *testing.T) {
	storage := legacyStore(`{"queryEditors":[{"id":"5","title":"Renamed"}]}`)

	for range 2 {
		res, err := Build(serverPayload(), testOptions(t, storage))
		require.NoError(t, err)
		assert.False(t, res.LegacyCleared)
		assert.Equal(t, "Renamed", editorByID(t, res.State, "5").Name)
	}

	_, ok, _ := storage.GetItem(LegacyStorageKey)
	assert.True(t, ok)
}

func TestBuild_OutputShape(t *testing.T) {
	res, err := Build(&core.BootstrapPayload{}, testOptions(t, nil))
	require.NoError(t, err)

	data, err := json.Marshal(res.State)
	require.NoError(t, err)

	var out struct {
		SQLLab map[string]json.RawMessage `json:"sqlLab"`
		Common map[string]json.RawMessage `json:"common"`
		Usage  json.RawMessage            `json:"localStorageUsageInKilobytes"`
		Toasts json.RawMessage            `json:"messageToasts"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.JSONEq(t, `[]`, string(out.SQLLab["alerts"]))
	assert.JSONEq(t, `[]`, string(out.SQLLab["queryEditors"]))
	assert.JSONEq(t, `[]`, string(out.SQLLab["tables"]))
	assert.JSONEq(t, `[]`, string(out.SQLLab["tabHistory"]))
	assert.JSONEq(t, `{}`, string(out.SQLLab["queries"]))
	assert.JSONEq(t, `{}`, string(out.SQLLab["queryCostEstimates"]))
	assert.JSONEq(t, `{}`, string(out.SQLLab["unsavedQueryEditor"]))
	assert.JSONEq(t, `{}`, string(out.SQLLab["databases"]))
	assert.JSONEq(t, `false`, string(out.SQLLab["offline"]))
	assert.JSONEq(t, `"Results"`, string(out.SQLLab["activeSouthPaneTab"]))
	assert.JSONEq(t, `[]`, string(out.Common["flash_messages"]))
	assert.JSONEq(t, `{}`, string(out.Common["conf"]))
	assert.JSONEq(t, `0`, string(out.Usage))
	assert.JSONEq(t, `[]`, string(out.Toasts))
}
