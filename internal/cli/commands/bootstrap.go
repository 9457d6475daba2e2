package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqllab/internal/bootstrap"
	"github.com/leapstack-labs/sqllab/internal/cli/output"
	"github.com/leapstack-labs/sqllab/internal/legacy"
	"github.com/leapstack-labs/sqllab/pkg/core"
)

// BootstrapOptions holds options for the bootstrap command.
type BootstrapOptions struct {
	UserID     int64
	LegacyFile string
	Summary    bool
}

// NewBootstrapCommand creates the bootstrap command.
func NewBootstrapCommand() *cobra.Command {
	opts := &BootstrapOptions{}

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Compute a user's initial SQL Lab workspace",
		Long: `Compute the initial workspace state for a user from the tabs persisted in the
state database, merged with a dump of the browser's legacy storage.

The legacy file is a JSON object of storage keys to string values, as
exported from the browser (for example {"redux": "..."}). When its SQL Lab
state turns out to be already migrated, the slot is removed from the file.

Prints the state as JSON, or a summary with --summary.`,
		Example: `  # Initial state for user 1
  sqllab bootstrap --user 1

  # Merge a legacy storage dump and print a summary
  sqllab bootstrap --user 1 --legacy-file storage.json --summary`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBootstrap(cmd, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.UserID, "user", 0, "User id")
	cmd.Flags().StringVar(&opts.LegacyFile, "legacy-file", "", "JSON dump of the browser's legacy storage")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "Print a summary instead of the full state")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runBootstrap(cmd *cobra.Command, opts *BootstrapOptions) error {
	if opts.UserID <= 0 {
		return errors.New("--user must be a positive user id")
	}

	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	sqllab := cmdCtx.Cfg.SQLLab

	store, cleanup, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	payload, err := store.LoadBootstrap(cmd.Context(), opts.UserID, core.CommonPayload{Conf: sqllab.ServerConf()})
	if err != nil {
		return fmt.Errorf("failed to load bootstrap payload: %w", err)
	}

	buildOpts := bootstrap.Options{
		DefaultSQL: sqllab.DefaultSQL,
		Logger:     cmdCtx.Logger,
	}
	if opts.LegacyFile != "" {
		buildOpts.Legacy = legacy.NewFile(opts.LegacyFile)
	}

	result, buildErr := bootstrap.Build(payload, buildOpts)
	if result.LegacyCleared {
		r.Warning(fmt.Sprintf("legacy SQL Lab state already migrated, removed from %s", opts.LegacyFile))
	}

	if opts.Summary && r.EffectiveMode() != output.ModeJSON {
		renderBootstrapSummary(r, payload.User, result)
	} else if err := r.JSON(result.State); err != nil {
		return err
	}

	return buildErr
}

func renderBootstrapSummary(r *output.Renderer, user *core.User, result *bootstrap.Result) {
	st := result.State.SQLLab

	title := "Workspace"
	if user != nil {
		title = fmt.Sprintf("Workspace for %s", user.Username)
	}
	r.Header(1, title)

	history := make([]string, len(st.TabHistory))
	for i, id := range st.TabHistory {
		history[i] = id.String()
	}
	r.KeyValue("Active tab", displayOrNone(st.LastUpdatedActiveTab.String()))
	r.KeyValue("Tab history", displayOrNone(strings.Join(history, ", ")))
	r.KeyValue("Queries", strconv.Itoa(len(st.Queries)))
	r.KeyValue("Legacy cleared", strconv.FormatBool(result.LegacyCleared))
	r.Println("")

	if len(result.State.MessageToasts) > 0 {
		r.Header(2, "Notifications")
		for _, t := range result.State.MessageToasts {
			r.StatusLine(t.Text, toastStatus(t.ToastType), "")
		}
		r.Println("")
	}

	r.Header(2, fmt.Sprintf("Editors (%d)", len(st.QueryEditors)))
	if len(st.QueryEditors) == 0 {
		r.Muted("No editors")
	} else {
		rows := make([][]string, 0, len(st.QueryEditors))
		for _, qe := range st.QueryEditors {
			source := "server"
			if qe.InLocalStorage {
				source = "legacy"
			}
			rows = append(rows, []string{
				qe.ID.String(),
				qe.Name,
				strconv.FormatBool(qe.Loaded),
				formatInt64Ptr(qe.DBID),
				formatStringPtr(qe.Schema),
				strconv.Itoa(qe.QueryLimit),
				source,
			})
		}
		r.Table([]string{"ID", "Name", "Loaded", "Database", "Schema", "Limit", "Source"}, rows)
	}
	r.Println("")

	r.Header(2, fmt.Sprintf("Tables (%d)", len(st.Tables)))
	if len(st.Tables) == 0 {
		r.Muted("No tables")
		return
	}
	rows := make([][]string, 0, len(st.Tables))
	for _, t := range st.Tables {
		rows = append(rows, []string{
			t.ID.String(),
			t.QueryEditorID.String(),
			t.Schema,
			t.Name,
			strconv.FormatBool(t.Expanded),
		})
	}
	r.Table([]string{"ID", "Editor", "Schema", "Name", "Expanded"}, rows)
}

// toastStatus maps a toast type onto a status marker.
func toastStatus(t core.ToastType) string {
	switch t {
	case core.ToastDanger:
		return "error"
	case core.ToastWarning:
		return "warning"
	case core.ToastSuccess:
		return "success"
	default:
		return "info"
	}
}

func formatInt64Ptr(p *int64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatInt(*p, 10)
}

func formatStringPtr(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

func displayOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
