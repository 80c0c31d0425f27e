package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/me/taskflow/internal/config"
	"github.com/me/taskflow/internal/logging"
	"github.com/me/taskflow/internal/scheduler"
	"github.com/me/taskflow/internal/server"
	"github.com/me/taskflow/internal/service"
	"github.com/me/taskflow/internal/store"
)

func main() {
	defaults := config.DefaultServerConfig()

	configFile := flag.String("config", "", "Path to a YAML server config file")
	addr := flag.String("addr", defaults.Addr, "Listen address")
	logLevel := flag.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", defaults.LogFormat, "Log format (text, json)")
	dbPath := flag.String("db", "", "Database path (default ~/.taskflow/taskflow.db)")
	origins := flag.String("allowed-origins", strings.Join(defaults.AllowedOrigins, ","), "Comma-separated CORS origins")
	dpMax := flag.Int("dp-max-tasks", defaults.MaxDPTasks, "Largest batch the dynamic programming strategy accepts")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")

	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// Flags given on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "db":
			cfg.DBPath = *dbPath
		case "allowed-origins":
			cfg.AllowedOrigins = splitList(*origins)
		case "dp-max-tasks":
			cfg.MaxDPTasks = *dpMax
		}
	})
	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Resolve database path.
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot determine home directory: %v\n", err)
			os.Exit(1)
		}
		dir := filepath.Join(home, ".taskflow")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "cannot create %s: %v\n", dir, err)
			os.Exit(1)
		}
		cfg.DBPath = filepath.Join(dir, "taskflow.db")
	}

	// Open store and run migrations.
	st, err := store.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", cfg.DBPath)

	reg := scheduler.NewDefaultRegistry(scheduler.Config{MaxDPTasks: cfg.MaxDPTasks}, logger)
	svc := service.New(reg, logger, service.WithStore(st))
	srv := server.New(cfg, svc, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "strategies", len(svc.Strategies()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
