package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqllab/internal/cli/config"
	"github.com/leapstack-labs/sqllab/internal/cli/output"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"version", "migrate", "serve", "bootstrap", "tabs", "users", "databases", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, "command %q should exist", name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "state", "verbose", "output", "log-format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCmd_PersistentPreRunStoresContext(t *testing.T) {
	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	root := NewRootCmd()
	var captured context.Context
	root.AddCommand(&cobra.Command{
		Use: "probe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			captured = cmd.Context()
			return nil
		},
	})

	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"probe", "-o", "json", "--state", ":memory:"})
	require.NoError(t, root.Execute())
	require.NotNil(t, captured)

	cfg := GetConfig(captured)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, ":memory:", cfg.StatePath)
	assert.Equal(t, output.ModeJSON, GetRenderer(captured).EffectiveMode())
	assert.NotNil(t, config.GetLogger(captured))
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"version", "--log-format", "xml"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_format")
}

func TestCompletionCommand(t *testing.T) {
	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"completion", "bash"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "sqllab")
}

func TestGetConfig_Defaults(t *testing.T) {
	cfg := GetConfig(context.Background())
	assert.Equal(t, config.DefaultStateFile, cfg.StatePath)
	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
}
