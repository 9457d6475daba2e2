package commands

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqllab/internal/cli/output"
	"github.com/leapstack-labs/sqllab/pkg/core"
)

// NewDatabasesCommand creates the databases command group.
func NewDatabasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "databases",
		Short: "Manage the databases offered in SQL Lab",
		Long: `Manage the database connections listed in the workspace. Only exposed
databases reach the bootstrap payload.`,
	}

	cmd.AddCommand(newDatabasesAddCommand())
	cmd.AddCommand(newDatabasesListCommand())
	return cmd
}

func newDatabasesAddCommand() *cobra.Command {
	db := &core.Database{}
	var hidden bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a database connection",
		Example: `  # Register a database and expose it in SQL Lab
  sqllab databases add --name examples --backend sqlite`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if db.DatabaseName == "" {
				return errors.New("--name is required")
			}
			db.ExposeInSQLLab = !hidden

			cmdCtx := NewCommandContext(cmd)
			store, cleanup, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.CreateDatabase(cmd.Context(), db); err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(db)
			}
			r.Success(fmt.Sprintf("Registered database %s", db.DatabaseName))
			r.KeyValue("ID", strconv.FormatInt(db.ID, 10))
			return nil
		},
	}

	cmd.Flags().Int64Var(&db.ID, "id", 0, "Database id (assigned when omitted)")
	cmd.Flags().StringVar(&db.DatabaseName, "name", "", "Unique database name")
	cmd.Flags().StringVar(&db.Backend, "backend", "", "Backend engine, e.g. postgresql")
	cmd.Flags().BoolVar(&db.AllowRunAsync, "allow-run-async", false, "Run queries asynchronously")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Do not expose the database in SQL Lab")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newDatabasesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the databases exposed in SQL Lab",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, cleanup, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer cleanup()

			byID, err := store.ListDatabases(cmd.Context())
			if err != nil {
				return err
			}
			databases := make([]core.Database, 0, len(byID))
			for _, db := range byID {
				databases = append(databases, db)
			}
			slices.SortFunc(databases, func(a, b core.Database) int {
				return cmp.Compare(a.ID, b.ID)
			})

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(databases)
			}

			r.Header(1, fmt.Sprintf("Databases (%d total)", len(databases)))
			if len(databases) == 0 {
				r.Muted("No databases")
				return nil
			}
			rows := make([][]string, 0, len(databases))
			for _, db := range databases {
				rows = append(rows, []string{
					strconv.FormatInt(db.ID, 10),
					db.DatabaseName,
					displayOrNone(db.Backend),
					strconv.FormatBool(db.AllowRunAsync),
				})
			}
			r.Table([]string{"ID", "Name", "Backend", "Async"}, rows)
			return nil
		},
	}
}
