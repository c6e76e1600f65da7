package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/weather-mcp-server/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-mcp-server/internal/adapter/kafka"
	"github.com/couchcryptid/weather-mcp-server/internal/config"
	"github.com/couchcryptid/weather-mcp-server/internal/mcpserver"
	"github.com/couchcryptid/weather-mcp-server/internal/pipeline"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long:  "Runs the MCP server on stdio (default) or, with MCP_TRANSPORT=http, on HTTP_ADDR at /mcp. Health, readiness and metrics endpoints are served on HTTP_ADDR in both modes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), a)
		},
	}
}

func serve(parent context.Context, a *app) error {
	cfg, logger := a.cfg, a.logger

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Lookup events are optional (LOOKUP_EVENTS_ENABLED / KAFKA_BROKERS).
	var (
		events    mcpserver.EventPublisher
		ready     httpadapter.ReadinessChecker = httpadapter.AlwaysReady{}
		writer    *kafkaadapter.Writer
		publisher *pipeline.Publisher
		wg        sync.WaitGroup
	)
	if cfg.LookupEventsEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = pipeline.NewPublisher(writer, logger, a.metrics, cfg.BatchSize, cfg.BatchFlushInterval, nil)
		events, ready = publisher, publisher
		logger.Info("lookup events enabled", "topic", cfg.KafkaLookupTopic, "brokers", cfg.KafkaBrokers)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := publisher.Run(ctx); err != nil {
				logger.Error("publisher error", "error", err)
			}
		}()
	} else {
		logger.Info("lookup events disabled")
	}

	srv := mcpserver.New(version, a.resolver, a.weather, events, a.metrics, logger)

	var mcpHandler http.Handler
	if cfg.Transport == config.TransportHTTP {
		mcpHandler = srv.Handler()
	}
	httpSrv := httpadapter.NewServer(cfg.HTTPAddr, ready, mcpHandler, logger)

	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	var runErr error
	if cfg.Transport == config.TransportStdio {
		// Returns when the client closes stdin or ctx is cancelled.
		runErr = srv.Run(ctx, &mcp.StdioTransport{})
		if ctx.Err() != nil {
			runErr = nil
		}
	} else {
		logger.Info("mcp server listening", "addr", cfg.HTTPAddr, "path", "/mcp")
		<-ctx.Done()
	}
	stop()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		logger.Warn("publisher did not drain before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return runErr
}
