package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hirestack/screening-agent/internal/agent"
	"github.com/hirestack/screening-agent/internal/api"
	"github.com/hirestack/screening-agent/internal/config"
	"github.com/hirestack/screening-agent/internal/logger"
)

func main() {
	// Best-effort; a missing .env just means everything comes from the
	// config file or the real environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyToEnv()

	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	screeningAgent := agent.New(cfg, log)
	defer screeningAgent.Close()

	server := api.NewServer(screeningAgent, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info("starting resume screening agent",
		zap.String("port", port),
		zap.String("provider", cfg.Provider),
	)

	if err := http.ListenAndServe(":"+port, server.Router()); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
