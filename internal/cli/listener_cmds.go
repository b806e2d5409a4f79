package cli

import (
	"fmt"

	"botregistry/internal/models"

	"github.com/spf13/cobra"
)

// Команды управления листенерами.

func newAddListenerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-listener <bot-id>",
		Short: "Attach a webhook listener to a bot",
		Args:  cobra.ExactArgs(1),
		Example: `  botctl add-listener my-bot --service TradingView --secret s3cret
  botctl add-listener my-bot --listener-id tv-long --service TradingView`,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, _ := cmd.Flags().GetString("service")

			view, err := app.svc.AddListener(cmd.Context(), models.ListenerInsertArgs{
				BotID:      args[0],
				ListenerID: optFlagString(cmd, "listener-id"),
				Service:    service,
				Secret:     optFlagString(cmd, "secret"),
				Msg:        optFlagString(cmd, "msg"),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(app.out, view)
			return nil
		},
	}

	cmd.Flags().String("listener-id", "", "listener ID (generated when omitted)")
	cmd.Flags().String("service", "", "alert source service, e.g. TradingView (required)")
	cmd.Flags().String("secret", "", "shared secret the alert payload must carry")
	cmd.Flags().String("msg", "", "alert payload template (defaults per service)")
	cmd.MarkFlagRequired("service")

	return cmd
}

func newListListenersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-listeners <bot-id>",
		Short: "List a bot's listeners, optionally filtered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := &models.ListenerListArgs{
				ListenerID: optFlagString(cmd, "listener-id"),
				Service:    optFlagString(cmd, "service"),
			}

			views, err := app.svc.ListListeners(cmd.Context(), args[0], filter)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Fprintln(app.out, "No listeners found")
				return nil
			}

			fmt.Fprintln(app.out, models.FormatListenerViews(views))
			return nil
		},
	}

	cmd.Flags().String("listener-id", "", "filter by exact listener ID")
	cmd.Flags().String("service", "", "filter by service")

	return cmd
}

func newGetListenerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get-listener <bot-id> <listener-id>",
		Short: "Show a single listener",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.svc.GetListener(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintln(app.out, view)
			return nil
		},
	}
}

func newUpdateListenerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-listener <bot-id> <listener-id>",
		Short: "Update listener fields; omitted flags stay unchanged",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.svc.UpdateListener(cmd.Context(), models.ListenerUpdateArgs{
				BotID:      args[0],
				ListenerID: args[1],
				Service:    optFlagString(cmd, "service"),
				Secret:     optFlagString(cmd, "secret"),
				Msg:        optFlagString(cmd, "msg"),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(app.out, view)
			return nil
		},
	}

	cmd.Flags().String("service", "", "new service name")
	cmd.Flags().String("secret", "", "new shared secret")
	cmd.Flags().String("msg", "", "new payload template")

	return cmd
}

func newDeleteListenerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-listener <bot-id> <listener-id>",
		Short: "Delete a single listener",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.svc.DeleteListener(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(app.out, "Deleted:\n%s\n", view)
			return nil
		},
	}
}

func newDeleteListenersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-listeners <bot-id>",
		Short: "Delete all of a bot's listeners matching the filter",
		Args:  cobra.ExactArgs(1),
		Example: `  botctl delete-listeners my-bot --service TradingView
  botctl delete-listeners my-bot   # removes every listener`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := &models.ListenerListArgs{
				ListenerID: optFlagString(cmd, "listener-id"),
				Service:    optFlagString(cmd, "service"),
			}

			views, err := app.svc.DeleteListeners(cmd.Context(), args[0], filter)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Fprintln(app.out, "No listeners matched")
				return nil
			}

			fmt.Fprintf(app.out, "Deleted %d listener(s):\n%s\n",
				len(views), models.FormatListenerViews(views))
			return nil
		},
	}

	cmd.Flags().String("listener-id", "", "filter by exact listener ID")
	cmd.Flags().String("service", "", "filter by service")

	return cmd
}
