package command

import (
	"fmt"

	commandHandler "scoreboard/internal/command/handler"
	cErr "scoreboard/internal/pkg/error"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(NewCommand, commandHandler.NewUsersHandler)

type Command struct {
	usersCommandHandler *commandHandler.UsersHandler
}

// NewCommand .
func NewCommand(
	usersCommandHandler *commandHandler.UsersHandler,
) *Command {
	return &Command{
		usersCommandHandler: usersCommandHandler,
	}
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	users := &cobra.Command{
		Use:   "users",
		Short: "manage the user registry",
	}

	// run 建立依賴後執行，結束時 cleanup 會把 registry 寫回 storage
	run := func(fn func(command *Command) error) error {
		command, cleanup, err := newCmd()
		if err != nil {
			return err
		}
		defer cleanup()
		return describe(fn(command))
	}

	var blacklistOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "list registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(command *Command) error {
				return command.usersCommandHandler.List(cmd, blacklistOnly)
			})
		},
	}
	list.Flags().BoolVar(&blacklistOnly, "blacklist", false, "only blacklisted users")

	var output string
	export := &cobra.Command{
		Use:   "export",
		Short: "export the registry as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(command *Command) error {
				return command.usersCommandHandler.Export(cmd, output)
			})
		},
	}
	export.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "replace the registry with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(command *Command) error {
				return command.usersCommandHandler.Import(cmd, args[0])
			})
		},
	}

	var off bool
	blacklist := &cobra.Command{
		Use:   "blacklist <key>",
		Short: "blacklist a user by id (unknown ids are still listed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(command *Command) error {
				return command.usersCommandHandler.Blacklist(cmd, args[0], !off)
			})
		},
	}
	blacklist.Flags().BoolVar(&off, "off", false, "remove from blacklist")

	deleteCmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "delete a user record by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(command *Command) error {
				return command.usersCommandHandler.Delete(cmd, args[0])
			})
		},
	}

	var confirmed bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "remove every user and blacklist entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to clear the registry without --yes")
			}
			return run(func(command *Command) error {
				command.usersCommandHandler.Clear(cmd)
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVar(&confirmed, "yes", false, "confirm clearing")

	users.AddCommand(list, export, importCmd, blacklist, deleteCmd, clearCmd)
	rootCmd.AddCommand(users)
}

// describe 把應用錯誤轉成可讀訊息
func describe(err error) error {
	if appErr := cErr.AsError(err); appErr != nil {
		return fmt.Errorf("%s: %s", appErr.Error(), appErr.ErrorDesc())
	}
	return err
}
