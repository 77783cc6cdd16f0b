package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tableside/internal/app/api"
	"tableside/internal/app/notifier"
	"tableside/internal/app/seed"
	"tableside/internal/app/sweep"
	"tableside/internal/common/config"
	"tableside/internal/common/logger"
)

func main() {
	mode := flag.String("mode", "", "api | sweeper | notifier | seed")
	cfgPath := flag.String("config", "", "path to YAML config (default: config.yaml, then deploy/config.example.yaml)")
	port := flag.Int("port", 0, "api: http port override")
	flag.Parse()

	_ = godotenv.Load()

	lg := logger.New("bootstrap")

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.FindConfig(); err != nil {
			lg.Error("config_not_found", err, nil)
			os.Exit(1)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "api":
		if *port == 0 {
			*port = cfg.Server.Port
		}
		lg.Info("service_started", map[string]any{"service": "api", "port": *port})
		if err := api.Run(ctx, cfg, *port); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "sweeper":
		lg.Info("service_started", map[string]any{"service": "sweeper"})
		if err := sweep.Run(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notifier":
		lg.Info("service_started", map[string]any{"service": "notifier"})
		if err := notifier.Run(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "seed":
		lg.Info("service_started", map[string]any{"service": "seed"})
		if err := seed.Run(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: api | sweeper | notifier | seed")
		os.Exit(2)
	}
}
