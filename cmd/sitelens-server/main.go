// Command sitelens-server exposes the ingestion pipeline to the web
// app: HTTP endpoints for the in-app upload flows and stored-example
// reads, or an MCP stdio transport when MCP_TRANSPORT=stdio.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/sitelens/sitelens/api"
	"github.com/sitelens/sitelens/capture"
	"github.com/sitelens/sitelens/catalog"
	"github.com/sitelens/sitelens/ingest"
	"github.com/sitelens/sitelens/vision"
)

func main() {
	port := env("PORT", "8086")
	logLevel := env("LOG_LEVEL", "info")
	dbPath := env("DB_PATH", "db/sitelens.db")
	mediaDir := env("MEDIA_DIR", "media")
	mediaBaseURL := env("MEDIA_BASE_URL", "http://localhost:"+port+"/media")
	mcpTransport := env("MCP_TRANSPORT", "")

	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	analyzer, err := vision.New(vision.Config{
		APIKey:  apiKey,
		Model:   env("VISION_MODEL", ""),
		BaseURL: env("VISION_BASE_URL", ""),
		Logger:  logger,
	})
	if err != nil {
		slog.Error("vision client", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		slog.Error("create db dir", "error", err)
		os.Exit(1)
	}
	store, err := catalog.OpenStore(dbPath)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	media, err := catalog.NewFileStore(mediaDir, mediaBaseURL)
	if err != nil {
		slog.Error("open media store", "error", err)
		os.Exit(1)
	}

	pipe, err := ingest.New(ingest.Config{
		Capturer: capture.New(capture.Config{Logger: logger}),
		Analyzer: analyzer,
		Uploader: media,
		Store:    store,
		Logger:   logger,
	})
	if err != nil {
		slog.Error("pipeline", "error", err)
		os.Exit(1)
	}

	if mcpTransport == "stdio" {
		srv := mcp.NewServer(&mcp.Implementation{Name: "sitelens", Version: "1.0.0"}, nil)
		pipe.RegisterMCP(srv)
		slog.Info("mcp server listening on stdio")
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			slog.Error("mcp server", "error", err)
			os.Exit(1)
		}
		return
	}

	server := api.New(pipe, store, media, logger)
	httpSrv := &http.Server{
		Addr:              ":" + port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	slog.Info("http server listening", "port", port)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server", "error", err)
		os.Exit(1)
	}
	slog.Info("http server stopped")
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
