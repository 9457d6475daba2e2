package bootstrap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqllab/pkg/core"
)

func patch(t *testing.T, s string) core.Patch {
	t.Helper()
	var p core.Patch
	require.NoError(t, json.Unmarshal([]byte(s), &p))
	return p
}

func TestMergeRecord(t *testing.T) {
	existing := &core.QueryEditor{
		ID:         "1",
		Name:       "orig",
		SQL:        "SELECT 1",
		Schema:     ptr("public"),
		QueryLimit: 10,
		Loaded:     true,
	}

	t.Run("incoming wins on conflict", func(t *testing.T) {
		got, rejected, err := mergeRecord(existing, patch(t, `{"sql":"SELECT 2"}`))
		require.NoError(t, err)
		assert.Empty(t, rejected)
		assert.Equal(t, "SELECT 2", got.SQL)
		assert.Equal(t, "orig", got.Name)
		assert.Equal(t, 10, got.QueryLimit)
		assert.True(t, got.Loaded)
	})

	t.Run("explicit null clears", func(t *testing.T) {
		got, _, err := mergeRecord(existing, patch(t, `{"schema":null}`))
		require.NoError(t, err)
		assert.Nil(t, got.Schema)
	})

	t.Run("patches apply left to right", func(t *testing.T) {
		got, _, err := mergeRecord(existing, patch(t, `{"sql":"a","name":"x"}`), patch(t, `{"sql":"b"}`))
		require.NoError(t, err)
		assert.Equal(t, "b", got.SQL)
		assert.Equal(t, "x", got.Name)
	})

	t.Run("no existing", func(t *testing.T) {
		got, _, err := mergeRecord[core.QueryEditor](nil, patch(t, `{"id":7,"sql":"x"}`))
		require.NoError(t, err)
		assert.Equal(t, core.ID("7"), got.ID)
		assert.Equal(t, "x", got.SQL)
		assert.False(t, got.Loaded)
	})

	t.Run("mismatched member keeps previous value", func(t *testing.T) {
		got, rejected, err := mergeRecord(existing,
			patch(t, `{"queryLimit":"many","autorun":"yes","sql":"SELECT 3"}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"autorun", "queryLimit"}, rejected)
		assert.Equal(t, 10, got.QueryLimit)
		assert.False(t, got.Autorun)
		assert.Equal(t, "SELECT 3", got.SQL, "well-typed members still merge")
	})

	t.Run("mismatched member without previous value", func(t *testing.T) {
		got, rejected, err := mergeRecord[core.Table](nil, patch(t, `{"id":"t1","persistData":"blob","name":"orders"}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"persistData"}, rejected)
		assert.Nil(t, got.PersistData)
		assert.Equal(t, "orders", got.Name)
	})

	t.Run("existing untouched", func(t *testing.T) {
		_, _, err := mergeRecord(existing, patch(t, `{"name":"changed"}`))
		require.NoError(t, err)
		assert.Equal(t, "orig", existing.Name)
	})
}

func TestNormalizeEditorPatch(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "title becomes name", in: `{"title":"T","name":"N"}`, want: `{"name":"T"}`},
		{name: "blank title keeps name", in: `{"title":"","name":"N"}`, want: `{"name":"N"}`},
		{name: "blank name dropped", in: `{"name":""}`, want: `{}`},
		{name: "null title dropped", in: `{"title":null,"sql":"x"}`, want: `{"sql":"x"}`},
		{name: "untouched", in: `{"id":"1","sql":"x"}`, want: `{"id":"1","sql":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := patch(t, tt.in)
			got, err := json.Marshal(normalizeEditorPatch(in))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))

			orig, err := json.Marshal(in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.in, string(orig), "input should not be modified")
		})
	}
}
