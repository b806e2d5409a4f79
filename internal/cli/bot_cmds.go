package cli

import (
	"fmt"

	"botregistry/internal/models"

	"github.com/spf13/cobra"
)

// Команды управления ботами.
//
// Флаги повторяют поля API один к одному, у list-команд те же имена
// работают фильтрами.

func newAddBotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-bot",
		Short: "Register a new bot",
		Example: `  botctl add-bot --name "DCA bot" --exchange binance
  botctl add-bot --bot-id my-bot --name "Grid" --exchange bybit --trading-fee 0.1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			exchange, _ := cmd.Flags().GetString("exchange")

			view, err := app.svc.AddBot(cmd.Context(), models.BotInsertArgs{
				BotID:           optFlagString(cmd, "bot-id"),
				Name:            name,
				Exchange:        exchange,
				APIKey:          optFlagString(cmd, "api-key"),
				APISecret:       optFlagString(cmd, "api-secret"),
				RestEndpoint:    optFlagString(cmd, "rest-endpoint"),
				RPCEndpoint:     optFlagString(cmd, "rpc-endpoint"),
				WebhookSecret:   optFlagString(cmd, "webhook-secret"),
				TradingFee:      optFlagFloat(cmd, "trading-fee"),
				PrivateKey:      optFlagString(cmd, "private-key"),
				ContractAddress: optFlagString(cmd, "contract-address"),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(app.out, view)
			return nil
		},
	}

	cmd.Flags().String("bot-id", "", "bot ID (generated when omitted)")
	cmd.Flags().String("name", "", "bot name (required)")
	cmd.Flags().String("exchange", "", "venue name (required)")
	cmd.Flags().String("api-key", "", "venue API key")
	cmd.Flags().String("api-secret", "", "venue API secret")
	cmd.Flags().String("rest-endpoint", "", "venue REST endpoint")
	cmd.Flags().String("rpc-endpoint", "", "venue RPC endpoint")
	cmd.Flags().String("webhook-secret", "", "shared secret for webhook alerts")
	cmd.Flags().Float64("trading-fee", 0, "trading fee in percent")
	cmd.Flags().String("private-key", "", "on-chain private key")
	cmd.Flags().String("contract-address", "", "on-chain contract address")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("exchange")

	return cmd
}

func newListBotsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-bots",
		Short: "List bots, optionally filtered",
		Example: `  botctl list-bots
  botctl list-bots --exchange binance`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := &models.BotListArgs{
				BotID:           optFlagString(cmd, "bot-id"),
				Name:            optFlagString(cmd, "name"),
				Exchange:        optFlagString(cmd, "exchange"),
				APIKey:          optFlagString(cmd, "api-key"),
				RestEndpoint:    optFlagString(cmd, "rest-endpoint"),
				RPCEndpoint:     optFlagString(cmd, "rpc-endpoint"),
				TradingFee:      optFlagFloat(cmd, "trading-fee"),
				PrivateKey:      optFlagString(cmd, "private-key"),
				ContractAddress: optFlagString(cmd, "contract-address"),
			}

			views, err := app.svc.ListBots(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Fprintln(app.out, "No bots found")
				return nil
			}

			fmt.Fprintln(app.out, models.FormatBotViews(views))
			return nil
		},
	}

	cmd.Flags().String("bot-id", "", "filter by exact bot ID")
	cmd.Flags().String("name", "", "filter by name")
	cmd.Flags().String("exchange", "", "filter by venue")
	cmd.Flags().String("api-key", "", "filter by API key")
	cmd.Flags().String("rest-endpoint", "", "filter by REST endpoint")
	cmd.Flags().String("rpc-endpoint", "", "filter by RPC endpoint")
	cmd.Flags().Float64("trading-fee", 0, "filter by trading fee")
	cmd.Flags().String("private-key", "", "filter by private key")
	cmd.Flags().String("contract-address", "", "filter by contract address")

	return cmd
}

func newGetBotCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get-bot <bot-id>",
		Short: "Show a single bot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.svc.GetBot(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(app.out, view)
			return nil
		},
	}
}

func newUpdateBotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-bot <bot-id>",
		Short: "Update bot fields; omitted flags stay unchanged",
		Args:  cobra.ExactArgs(1),
		Example: `  botctl update-bot my-bot --name "Renamed"
  botctl update-bot my-bot --trading-fee 0.2 --rest-endpoint https://api.example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.svc.UpdateBot(cmd.Context(), models.BotUpdateArgs{
				BotID:           args[0],
				Name:            optFlagString(cmd, "name"),
				Exchange:        optFlagString(cmd, "exchange"),
				APIKey:          optFlagString(cmd, "api-key"),
				APISecret:       optFlagString(cmd, "api-secret"),
				RestEndpoint:    optFlagString(cmd, "rest-endpoint"),
				RPCEndpoint:     optFlagString(cmd, "rpc-endpoint"),
				WebhookSecret:   optFlagString(cmd, "webhook-secret"),
				TradingFee:      optFlagFloat(cmd, "trading-fee"),
				PrivateKey:      optFlagString(cmd, "private-key"),
				ContractAddress: optFlagString(cmd, "contract-address"),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(app.out, view)
			return nil
		},
	}

	cmd.Flags().String("name", "", "new bot name")
	cmd.Flags().String("exchange", "", "new venue name")
	cmd.Flags().String("api-key", "", "new API key")
	cmd.Flags().String("api-secret", "", "new API secret")
	cmd.Flags().String("rest-endpoint", "", "new REST endpoint")
	cmd.Flags().String("rpc-endpoint", "", "new RPC endpoint")
	cmd.Flags().String("webhook-secret", "", "new webhook secret")
	cmd.Flags().Float64("trading-fee", 0, "new trading fee")
	cmd.Flags().String("private-key", "", "new private key")
	cmd.Flags().String("contract-address", "", "new contract address")

	return cmd
}

func newDeleteBotCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-bot <bot-id>",
		Short: "Delete a bot and all of its listeners",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.svc.DeleteBot(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(app.out, "Deleted:\n%s\n", view)
			return nil
		},
	}
}
