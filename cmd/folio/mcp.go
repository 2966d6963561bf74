// ABOUTME: MCP server command implementation for folio.
// ABOUTME: Starts the MCP server in stdio mode, optionally exposing Prometheus metrics over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	mcppkg "github.com/2389-research/folio/internal/mcp"
)

var metricsAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio, allowing AI agents like Claude
to browse, react to, comment on, and publish blog posts.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	server, err := mcppkg.NewServer(globalStore,
		mcppkg.WithUserID(globalConfig.UserID()),
		mcppkg.WithLogger(globalLogger),
	)
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		stop := serveMetrics(metricsAddr)
		defer stop()
	}

	return server.Serve(ctx)
}

// serveMetrics exposes /metrics in the background and returns a shutdown func.
func serveMetrics(addr string) func() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		globalLogger.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
