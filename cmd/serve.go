package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/driveretriever/internal/config"
	"github.com/teemow/driveretriever/internal/google"
	"github.com/teemow/driveretriever/internal/instrumentation"
	"github.com/teemow/driveretriever/internal/logging"
	"github.com/teemow/driveretriever/internal/retriever"
	"github.com/teemow/driveretriever/internal/server"
	"github.com/teemow/driveretriever/internal/tools/retriever_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: false)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var metricsConfig MetricsConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP (Model Context Protocol) server over stdio to expose the
Drive document retriever as tools for AI assistants.

Tools:
  - drive_retrieve_documents: retrieve the text of the files in the configured folder
  - drive_list_folder: list the configured folder without downloading content

The server starts without a stored credential; tool calls fail with a hint
until the credential file exists.

Metrics are exported with OpenTelemetry (METRICS_EXPORTER, TRACING_EXPORTER,
OTEL_EXPORTER_OTLP_ENDPOINT). With --metrics-enabled a Prometheus endpoint and
health checks are served on --metrics-addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadMetricsEnv(cmd, &metricsConfig)
			return runServe(cmd, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&metricsConfig.Enabled, "metrics-enabled", false, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsConfig.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadMetricsEnv fills metrics settings from the environment unless the
// corresponding flag was set.
func loadMetricsEnv(cmd *cobra.Command, mc *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if v, err := strconv.ParseBool(os.Getenv("METRICS_ENABLED")); err == nil {
			mc.Enabled = v
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			mc.Addr = addr
		}
	}
}

func runServe(cmd *cobra.Command, metricsConfig MetricsConfig) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogging(cfg)
	ctx := cmd.Context()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	instrConfig.FolderID = cfg.FolderID
	instrConfig.NumResults = cfg.NumResults

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	serverContext, err := newServerContext(ctx, cfg, logger, provider)
	if err != nil {
		return err
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	if metricsConfig.Enabled && provider.Enabled() {
		metricsServer, err := startMetricsServer(metricsConfig, provider, server.NewHealthChecker(serverContext))
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	mcpSrv := newMCPServer()
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	logger.Info("starting MCP server",
		"transport", "stdio",
		logging.FolderID(cfg.FolderID),
		"num_results", cfg.NumResults)

	return runStdioServer(ctx, mcpSrv, logger)
}

// newServerContext wires the retriever factory to the loaded configuration.
// The retriever is built on the first tool call.
func newServerContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, provider *instrumentation.Provider) (*server.ServerContext, error) {
	factory := func(ctx context.Context) (*retriever.Retriever, error) {
		return retriever.NewFromConfig(ctx, cfg, logging.NewSlogAdapter(logger), provider.Metrics())
	}

	serverContext, err := server.NewServerContext(ctx, factory, google.NewFileTokenProvider(cfg.TokenPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}

	serverContext.SetLogger(logger)
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
	}
	return serverContext, nil
}

func startMetricsServer(mc MetricsConfig, provider *instrumentation.Provider, health *server.HealthChecker) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    mc.Addr,
		InstrumentationProvider: provider,
		HealthChecker:           health,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		slog.Info("metrics server started", "addr", metricsServer.Addr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func newMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("driveretriever", version,
		mcpserver.WithToolCapabilities(true),
	)
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := retriever_tools.RegisterRetrieverTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register retriever tools: %w", err)
	}
	return nil
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, logger *slog.Logger) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
