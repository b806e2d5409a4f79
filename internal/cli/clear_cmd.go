package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newClearAllCmd удаляет все записи реестра.
//
// Команда намеренно работает только offline: разрушительная операция
// не выставляется в REST API, чтобы ее нельзя было вызвать удаленно.
func newClearAllCmd(app *App) *cobra.Command {
	var listenersOnly bool

	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Remove every bot (or every listener) from the registry",
		Long: `Removes every bot together with its listeners from the state file.
With --listeners-only the bots themselves are kept and only their
listeners are removed.

Only available in offline mode.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.reg == nil {
				return fmt.Errorf("clear-all is not available in --online mode")
			}

			if listenersOnly {
				if err := app.reg.ClearListeners(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(app.out, "All listeners removed")
				return nil
			}

			if err := app.reg.ClearBots(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "Registry cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&listenersOnly, "listeners-only", false,
		"keep bots, remove only their listeners")

	return cmd
}
