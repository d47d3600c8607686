package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-api/internal/config"
	"github.com/rezonia/invoice-api/internal/server"
)

var helloCmd = &cobra.Command{
	Use:   "hello",
	Short: "Start a listener answering \"Hello <name>!\"",
	Long: `Start a plain HTTP listener whose GET / answers "Hello <name>!".

Examples:
  invoice-api hello
  invoice-api hello --address :9001 --name Ada`,
	RunE: runHello,
}

func init() {
	rootCmd.AddCommand(helloCmd)

	flags := helloCmd.Flags()
	flags.String("address", config.DefaultHelloAddress, "Listen address (env: HELLO_ADDRESS)")
	flags.String("name", config.DefaultHelloName, "Name to greet (env: HELLO_NAME)")

	setConfigKey(flags, "address", "hello-address")
	setConfigKey(flags, "name", "hello-name")
}

func runHello(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewHelloServer(&server.Config{
		Address:         cfg.HelloAddress,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Debug:           cfg.Debug,
		Logger:          logger,
	}, cfg.HelloName)

	return srv.Run(ctx)
}
