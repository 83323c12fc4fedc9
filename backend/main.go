package main

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"firedev/api"
	"firedev/backend/config"
	"firedev/backend/handlers"
	"firedev/backend/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	log.Info("Starting the report store service...")

	store, err := storage.NewFirebaseStore(context.Background(), cfg.DatabaseURL, cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to connect to Firebase: %v", err)
	}

	reportsHandler := handlers.NewReportsHandler(store)

	router := gin.Default()
	router.GET(api.HealthEndpoint, reportsHandler.HealthCheck)
	router.POST(api.ReportEndpoint, reportsHandler.CreateReport)
	router.PUT(api.ReportEndpoint+"/:id", reportsHandler.UpsertReport)

	log.Infof("Report store service starting on port %s", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
