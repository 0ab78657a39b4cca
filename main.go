package main

import (
	"fmt"
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload" // loads .env automatically if present

	"go.uber.org/zap"

	"pfp/config"
	"pfp/helpers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := helpers.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("profile lookups go to", zap.String("lookup_base", cfg.LookupBaseURL),
		zap.Bool("graph_token", cfg.GraphToken != ""))

	// no client timeout; a lookup lives as long as the inbound request
	srv := NewServer(cfg, logger, &http.Client{})

	addr := fmt.Sprintf(":%s", cfg.Port)
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
