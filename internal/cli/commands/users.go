package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqllab/internal/cli/output"
	"github.com/leapstack-labs/sqllab/pkg/core"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage SQL Lab users",
		Long: `Manage the users that can start a session. The server only signs in users
that exist in the state database.`,
	}

	cmd.AddCommand(newUsersCreateCommand())
	cmd.AddCommand(newUsersListCommand())
	return cmd
}

func newUsersCreateCommand() *cobra.Command {
	user := &core.User{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Example: `  # Create the first user
  sqllab users create --username admin --first-name Ada --last-name Admin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user.Username == "" {
				return errors.New("--username is required")
			}

			cmdCtx := NewCommandContext(cmd)
			store, cleanup, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.CreateUser(cmd.Context(), user); err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(user)
			}
			r.Success(fmt.Sprintf("Created user %s", user.Username))
			r.KeyValue("ID", strconv.FormatInt(user.UserID, 10))
			return nil
		},
	}

	cmd.Flags().Int64Var(&user.UserID, "id", 0, "User id (assigned when omitted)")
	cmd.Flags().StringVar(&user.Username, "username", "", "Unique user name")
	cmd.Flags().StringVar(&user.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&user.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&user.Email, "email", "", "Email address")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newUsersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, cleanup, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer cleanup()

			users, err := store.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(users)
			}

			r.Header(1, fmt.Sprintf("Users (%d total)", len(users)))
			if len(users) == 0 {
				r.Muted("No users")
				return nil
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{
					strconv.FormatInt(u.UserID, 10),
					u.Username,
					displayOrNone(fullName(u)),
					displayOrNone(u.Email),
				})
			}
			r.Table([]string{"ID", "Username", "Name", "Email"}, rows)
			return nil
		},
	}
}

func fullName(u core.User) string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
