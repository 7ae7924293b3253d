package main

import (
	"context"
	"log"

	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/bootstrap"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/config"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/server"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.Env)
	defer telemetry.Sync()

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Engine.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
