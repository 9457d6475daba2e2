package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqllab/internal/cli/output"
)

// MigrateOutput is the JSON result of the migrate command.
type MigrateOutput struct {
	StatePath string `json:"state_path"`
	Version   int64  `json:"version"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply state database migrations",
		Long: `Create the state database if needed and apply all pending schema migrations.

Every command that opens the state database migrates it first, so running
migrate explicitly is only needed to prepare a database ahead of time.`,
		Example: `  # Migrate the default state database
  sqllab migrate

  # Migrate a specific database
  sqllab migrate --state /var/lib/sqllab/state.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd)
		},
	}
}

func runMigrate(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, cleanup, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	version, err := store.GetMigrationVersion()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(MigrateOutput{StatePath: store.Path(), Version: version})
	}

	r.Success(fmt.Sprintf("State database at version %d", version))
	r.KeyValue("Path", store.Path())
	return nil
}
