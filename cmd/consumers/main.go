package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"ovation/internal/config"
	"ovation/internal/consumers"
	"ovation/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	cfg.NATS.ClientID = "ovation-consumers"
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	service, err := consumers.NewService(cfg)
	if err != nil {
		log.Fatalf("Failed to create consumer service: %v", err)
	}

	if err := service.Start(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	log.Println("Consumers service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down consumers service...")

	if err := service.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Consumers service stopped")
}
