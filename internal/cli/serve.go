package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stagekit/imageseq/internal/server"
	"github.com/stagekit/imageseq/pkg/buildinfo"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		bind    string
		port    int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the arrangement HTTP API",
		Long: `Serve runs the HTTP API for computing layouts and arrangements.

Endpoints:
  GET  /api/v1/health   liveness and version
  POST /api/v1/layout   compute per-image transforms
  POST /api/v1/arrange  full pipeline, artifacts inline

The server shuts down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), bind, port, noCache)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", c.Config.Server.Bind, "address to bind")
	cmd.Flags().IntVar(&port, "port", c.Config.Server.Port, "port to listen on")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, bind string, port int, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	api := server.New(server.Config{
		Runner:  runner,
		Logger:  c.Logger,
		Version: buildinfo.Version,
		Timeout: c.Config.Server.Timeout(),
	})

	addr := net.JoinHostPort(bind, strconv.Itoa(port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router(c.Config.Server.Timeout()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
