// cmd/mcp-server/main.go: HTTP tool server for intbound
//
// Exposes the certificate search as an HTTP endpoint for AI agent frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server -port 8080 [-config intbound.yaml]
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/njchilds90/intbound"
	"github.com/njchilds90/intbound/internal/config"
	"github.com/njchilds90/intbound/internal/logging"
	"github.com/njchilds90/intbound/internal/metrics"
)

func main() {
	port := flag.Int("port", 0, "Port to listen on (overrides server.addr)")
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	if err := serve(*configPath, *port); err != nil {
		fmt.Fprintln(os.Stderr, "mcp-server:", err)
		os.Exit(1)
	}
}

func serve(configPath string, port int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Addr = fmt.Sprintf(":%d", port)
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tb := &intbound.Toolbox{
		Cache: intbound.NewCache(),
		Searcher: &intbound.Searcher{
			Limit:    cfg.Limit,
			Logger:   logger,
			Observer: metrics.New(reg),
		},
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(tb, reg, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	logger.Info("intbound tool server listening", "addr", cfg.Server.Addr)
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
