package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/linkstash/internal/mcp"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Run the MCP server on stdio.

Stdout carries the MCP protocol, so all logging goes to stderr.
Background link enrichment runs every enrich.interval and the
prometheus endpoint is served on metrics.addr when set.`,
		Example: `  # Serve with the default configuration
  linkstash serve

  # Expose metrics on a local port
  linkstash serve --metrics-addr 127.0.0.1:9464`,
		RunE: runServe,
	}

	cmd.Flags().String("metrics-addr", "", "metrics listen address (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cliCtx := GetCLIContext(cmd)
	if cliCtx == nil {
		return fmt.Errorf("CLI context not initialized")
	}

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		cliCtx.Config.Metrics.Addr = addr
	}

	a, err := cliCtx.App()
	if err != nil {
		return err
	}

	srv, err := mcp.NewServer(a)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := cliCtx.Log()
	log.Info().Str("storage", cliCtx.Config.Storage.Path).Msg("starting linkstash")

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return nil
	case err := <-errChan:
		return err
	}
}
