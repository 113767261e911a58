package main

import (
	"log"

	"interview-backend/internal/bootstrap"
	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s (llm=%s store=%s)", addr, app.Config.LLMProvider, cfg.ObjectStoreType)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
