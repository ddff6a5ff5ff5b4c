// LexAgent - personalized legal LLM agent service
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lexlabs/lexagent/internal/agent"
	"github.com/lexlabs/lexagent/internal/config"
	"github.com/lexlabs/lexagent/internal/gateway"
	"github.com/lexlabs/lexagent/internal/search"
	"github.com/lexlabs/lexagent/internal/server"
	"github.com/lexlabs/lexagent/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("LexAgent %s\n", server.Version)
		os.Exit(0)
	}

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting LexAgent", "version", server.Version)

	if cfg.Gateway.APIKey == "" {
		slog.Error("LEXAGENT_INFERENCE_KEY is not set; refusing to start without credentials")
		os.Exit(1)
	}

	// Initialize the configuration store
	var st store.Store
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.Path)
		if err != nil {
			slog.Error("Failed to initialize store", "error", err)
			os.Exit(1)
		}
		slog.Info("Store initialized", "driver", "sqlite", "path", cfg.Store.Path)
	default:
		st = store.NewMemoryStore()
		slog.Info("Store initialized", "driver", "memory")
	}
	defer st.Close()

	// Initialize services
	gw := gateway.New(gateway.Config{
		BaseURL:      cfg.Gateway.BaseURL,
		APIKey:       cfg.Gateway.APIKey,
		Model:        cfg.Gateway.Model,
		ChatTimeout:  cfg.Gateway.ChatTimeout(),
		ProbeTimeout: cfg.Gateway.ProbeTimeout(),
	})
	agentSvc := agent.New(st, gw)
	searchSvc := search.New(st)

	srv := server.New(cfg, st, agentSvc, searchSvc)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("Shutdown error", "error", err)
		}
	}()

	slog.Info("Server listening", "addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
