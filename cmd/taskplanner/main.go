package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"taskPlanner/internal/app"
	"taskPlanner/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	a, err := app.New(cfg).Init(ctx)
	if err != nil {
		log.Fatalf("инициализация: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("сервер: %v", err)
	}
}
