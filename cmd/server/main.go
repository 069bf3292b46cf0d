// @title Supplier Quotation Comparison API
// @version 1.0
// @description API для извлечения, хранения и сравнения коммерческих предложений поставщиков. LLM-извлечение данных из документов, детерминированный взвешенный рейтинг, экспорт в JSON/CSV/Excel.

// @contact.name API Support

// @host localhost:8080
// @BasePath /api
// @schemes http https

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"quoteserver/internal/config"
	"quoteserver/server"
)

func main() {
	// .env опционален, переменные окружения имеют приоритет
	if err := godotenv.Load(); err == nil {
		log.Println("✓ Loaded environment from .env")
	}

	log.Println("[1/3] Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("✗ Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("✗ Invalid configuration: %v", err)
	}
	log.Printf("✓ Configuration loaded. Port: %s, provider: %s", cfg.Port, cfg.LLMProvider)

	log.Println("[2/3] Initializing server...")
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("✗ Failed to initialize server: %v", err)
	}

	log.Println("[3/3] Starting HTTP server...")
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("✗ Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("✗ Shutdown failed: %v", err)
		}
	}
}
