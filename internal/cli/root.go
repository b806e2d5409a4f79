package cli

import (
	"fmt"
	"io"
	"os"

	"botregistry/internal/client"
	"botregistry/internal/config"
	"botregistry/internal/registry"
	"botregistry/internal/storage"
	"botregistry/pkg/utils"

	"github.com/spf13/cobra"
)

// App - общее состояние CLI команд.
//
// svc - фасад реестра: offline это сам реестр поверх файла состояния,
// online это REST клиент. Команды работают через интерфейс и не знают,
// какой из фасадов под ними.
type App struct {
	svc registry.Service
	reg *registry.Registry // только offline; nil в online режиме
	out io.Writer
}

// NewRootCmd собирает дерево команд botctl.
func NewRootCmd() *cobra.Command {
	app := &App{out: os.Stdout}

	var (
		online    bool
		remoteURL string
		stateFile string
	)

	rootCmd := &cobra.Command{
		Use:   "botctl",
		Short: "Manage trading bots and their webhook listeners",
		Long: `botctl manages the bot registry: trading bot records and the
webhook listeners attached to them.

By default commands operate directly on the local state file (offline mode).
With --online they go through the REST API of a running server instead;
both modes accept the same arguments and produce the same output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.out = cmd.OutOrStdout()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// CLI пишет результат в stdout; логи уходят в stderr
			// и по умолчанию ограничены ошибками
			utils.InitGlobalLogger(utils.LogConfig{
				Level:  getEnvDefault("LOG_LEVEL", "error"),
				Format: "text",
			})

			if !cmd.Flags().Changed("url") {
				remoteURL = cfg.Client.RemoteURL
			}
			if !cmd.Flags().Changed("state-file") {
				stateFile = cfg.Storage.StateFile
			}

			if online {
				app.svc = client.New(remoteURL, cfg.Client.RequestTimeout)
				return nil
			}

			store := storage.NewStore(stateFile)
			reg, err := registry.New(store)
			if err != nil {
				return err
			}
			app.reg = reg
			app.svc = reg
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&online, "online", false,
		"operate through the REST API of a running server")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "url", "http://localhost:8080",
		"server base URL for --online mode (env: REMOTE_URL)")
	rootCmd.PersistentFlags().StringVar(&stateFile, "state-file", "state.json",
		"path to the registry state file for offline mode (env: STATE_FILE)")

	rootCmd.AddCommand(
		newAddBotCmd(app),
		newListBotsCmd(app),
		newGetBotCmd(app),
		newUpdateBotCmd(app),
		newDeleteBotCmd(app),
		newAddListenerCmd(app),
		newListListenersCmd(app),
		newGetListenerCmd(app),
		newUpdateListenerCmd(app),
		newDeleteListenerCmd(app),
		newDeleteListenersCmd(app),
		newClearAllCmd(app),
	)

	return rootCmd
}

// Execute запускает CLI и возвращает код завершения процесса.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func getEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// optFlagString возвращает указатель на значение флага, если флаг был
// передан явно, иначе nil. Разница важна для частичных обновлений:
// непереданный флаг значит "не трогать", а не "записать пустую строку".
func optFlagString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetString(name)
	return &value
}

// optFlagFloat - то же для числовых флагов.
func optFlagFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetFloat64(name)
	return &value
}
