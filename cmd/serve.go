package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/widgetkit/internal/config"
	"github.com/conneroisu/widgetkit/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the widget demo host",
	Long: `Start the demo host. Every browser session gets its own table, inputs and
carousel; interactions are posted with htmx and widget events are streamed
over a websocket.

Examples:
  widgetkit serve                              # Serve the built-in fixtures
  widgetkit serve --port 3000                  # Serve on another port
  widgetkit serve --fixtures data.yaml --watch # Reload rows when the file changes`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().StringP("fixtures", "f", "", "Fixtures YAML file (default is the built-in document)")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the fixtures file when it changes")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("fixtures.path", serveCmd.Flags().Lookup("fixtures"))
	_ = viper.BindPFlag("fixtures.watch", serveCmd.Flags().Lookup("watch"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Logging)

	if result := config.Validate(cfg); result.HasWarnings() {
		fmt.Fprint(cmd.ErrOrStderr(), result.String())
	}

	srv, err := server.New(cfg, server.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting widgetkit at http://%s\n", cfg.Server.Addr())
	return srv.Start(ctx)
}
