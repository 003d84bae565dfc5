package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricewise/backend/config"
	httpDelivery "github.com/pricewise/backend/internal/delivery/http"
	"github.com/pricewise/backend/internal/domain"
	aggregatorClient "github.com/pricewise/backend/internal/infrastructure/aggregator"
	"github.com/pricewise/backend/internal/infrastructure/cache"
	"github.com/pricewise/backend/internal/infrastructure/geoapify"
	"github.com/pricewise/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceWise Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Aggregator backend: %s", cfg.Aggregator.BaseURL)
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Initialize infrastructure dependencies
	resultCache := cache.NewResultCache(cfg.Cache.TTL)

	client := aggregatorClient.NewClient(
		cfg.Aggregator.BaseURL,
		cfg.Aggregator.Timeout,
		cfg.RateLimit.UpstreamPerMinute,
	)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		log.Printf("Aggregator client debug mode enabled")
	}

	var geocoding domain.GeocodingClient
	if cfg.Geoapify.APIKey != "" {
		geocoding = geoapify.NewClient(cfg.Geoapify.APIKey, cfg.Geoapify.BaseURL)
		log.Printf("Geoapify configured: %s", cfg.Geoapify.BaseURL)
	} else {
		log.Printf("WARNING: Geoapify API key not set - location endpoints disabled")
	}

	// Initialize usecase layer
	searchService := usecase.NewSearchService(
		resultCache,
		client,
		usecase.SearchServiceConfig{
			SimilarityThreshold: cfg.Matching.SimilarityThreshold,
			ToleranceRatio:      cfg.Matching.ToleranceRatio,
			DropIncomparable:    cfg.Matching.DropIncomparable,
			LocalMatching:       cfg.Matching.Local,
			EnableDebugLogging:  cfg.Matching.EnableDebugLogging,
		},
	)

	log.Printf("Matching: similarity=%.2f, tolerance=%.1fx, drop_incomparable=%v, local=%v",
		cfg.Matching.SimilarityThreshold,
		cfg.Matching.ToleranceRatio,
		cfg.Matching.DropIncomparable,
		cfg.Matching.Local)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, geocoding)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
