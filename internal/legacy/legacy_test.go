package legacy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqllab/pkg/core"
)

var (
	_ core.LegacyStorage = (*Memory)(nil)
	_ core.LegacyStorage = (*File)(nil)
)

func TestMemory(t *testing.T) {
	seed := map[string]string{"redux": `{"sqlLab":{}}`}
	m := NewMemory(seed)
	seed["redux"] = "mutated"

	v, ok, err := m.GetItem("redux")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"sqlLab":{}}`, v)

	_, ok, err = m.GetItem("other")
	require.NoError(t, err)
	assert.False(t, ok)

	m.SetItem("other", "x")
	require.NoError(t, m.RemoveItem("redux"))
	require.NoError(t, m.RemoveItem("missing"))
	assert.Equal(t, map[string]string{"other": "x"}, m.Items())
}

func TestFile_GetItem(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
		want    string
		found   bool
		wantErr bool
	}{
		{name: "string value", content: `{"redux":"{\"sqlLab\":null}"}`, key: "redux", want: `{"sqlLab":null}`, found: true},
		{name: "object value kept as text", content: `{"redux":{"sqlLab":{}}}`, key: "redux", want: `{"sqlLab":{}}`, found: true},
		{name: "missing key", content: `{"other":"x"}`, key: "redux"},
		{name: "invalid file", content: `not json`, key: "redux", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "storage.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			v, ok, err := NewFile(path).GetItem(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestFile_MissingFile(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "none.json"))

	_, ok, err := f.GetItem("redux")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, f.RemoveItem("redux"))
}

func TestFile_RemoveItem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"redux":"x","theme":"dark"}`), 0600))

	f := NewFile(path)
	require.NoError(t, f.RemoveItem("redux"))

	_, ok, err := f.GetItem("redux")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := f.GetItem("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}
