package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqllab/internal/cli/output"
	"github.com/leapstack-labs/sqllab/pkg/core"
)

// TabInfo is one tab in the tabs command output.
type TabInfo struct {
	ID     core.ID `json:"id"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// NewTabsCommand creates the tabs command.
func NewTabsCommand() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "List a user's persisted editor tabs",
		Long: `List the editor tabs persisted for a user, in creation order, marking the
active one.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table

Use --output json for machine-readable output.`,
		Example: `  # List tabs for user 1
  sqllab tabs --user 1

  # As JSON
  sqllab tabs --user 1 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTabs(cmd, userID)
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User id")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runTabs(cmd *cobra.Command, userID int64) error {
	if userID <= 0 {
		return errors.New("--user must be a positive user id")
	}

	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, cleanup, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	records, err := store.ListTabStates(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list tabs: %w", err)
	}
	active, err := store.GetActiveTabState(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load active tab: %w", err)
	}

	tabs := make([]TabInfo, 0, len(records))
	for _, rec := range records {
		tabs = append(tabs, TabInfo{
			ID:     rec.ID,
			Label:  rec.Label,
			Active: active != nil && active.ID == rec.ID,
		})
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(tabs)
	}

	r.Header(1, fmt.Sprintf("Tabs (%d total)", len(tabs)))
	if len(tabs) == 0 {
		r.Muted("No tabs")
		return nil
	}

	rows := make([][]string, 0, len(tabs))
	for _, tab := range tabs {
		marker := ""
		if tab.Active {
			marker = "*"
		}
		rows = append(rows, []string{marker, tab.ID.String(), tab.Label})
	}
	r.Table([]string{"", "ID", "Label"}, rows)
	return nil
}
