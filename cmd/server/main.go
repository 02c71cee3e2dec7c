package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/santorres/salesforce-fastmcp/pkg/config"
	"github.com/santorres/salesforce-fastmcp/pkg/salesforce"
	"github.com/santorres/salesforce-fastmcp/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, err := salesforce.NewClient(cfg.BaseURL, cfg.AccessToken)
	if err != nil {
		log.Fatalf("Failed to create Salesforce client: %v", err)
	}
	log.Println("✅ Salesforce client configured for", cfg.BaseURL)

	bus := server.NewToolBus(client)
	router := server.NewRouter(bus)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Salesforce MCP server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server exited")
}
