// Package main is the host process entry point: it loads configuration,
// assembles the modules and serves HTTP until SIGINT or SIGTERM.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/R3E-Network/modulith/internal/app"
	"github.com/R3E-Network/modulith/internal/config"
	"github.com/R3E-Network/modulith/modules"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.New(cfg, modules.All())
	if err != nil {
		log.Fatalf("Failed to start host: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		log.Fatalf("Host stopped with error: %v", err)
	}
	log.Println("Host stopped")
}
