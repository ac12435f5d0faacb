package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/twa-market/marketplace-go-app/internal/api"
	"github.com/twa-market/marketplace-go-app/internal/events"
	"github.com/twa-market/marketplace-go-app/internal/metrics"
	"github.com/twa-market/marketplace-go-app/internal/mirror"
	"github.com/twa-market/marketplace-go-app/internal/notify"
	"github.com/twa-market/marketplace-go-app/internal/payment"
	"github.com/twa-market/marketplace-go-app/internal/services"
	"github.com/twa-market/marketplace-go-app/internal/store"
	"github.com/twa-market/marketplace-go-app/pkg/config"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize OpenTelemetry metrics
	ctx := context.Background()
	appMetrics, meterProvider, err := metrics.InitMetrics(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down meter provider: %v", err)
		}
	}()

	// Initialize storage
	var (
		dealRepo    store.DealRepository
		productRepo store.ProductRepository
		favRepo     store.FavoritesRepository
	)
	switch cfg.StorageDriver {
	case "mysql":
		mysqlStore, err := store.OpenMySQLStore(cfg.GetDSN(), appMetrics, cfg.OTELServiceName)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer mysqlStore.Close()

		schemaSQL, err := os.ReadFile("schema.sql")
		if err != nil {
			log.Printf("Warning: Could not read schema.sql: %v", err)
			log.Println("Assuming database schema already exists")
		} else {
			if err := mysqlStore.InitSchema(ctx, string(schemaSQL)); err != nil {
				log.Printf("Warning: Could not initialize schema: %v", err)
				log.Println("Assuming database schema already exists")
			}
		}
		if err := mysqlStore.SeedIfEmpty(ctx); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		dealRepo, productRepo, favRepo = mysqlStore, mysqlStore, mysqlStore

	case "file":
		fileStore, err := store.OpenFileStore(cfg.StoragePath)
		if err != nil {
			log.Fatalf("Failed to open storage file: %v", err)
		}
		defer fileStore.Close()
		dealRepo, productRepo, favRepo = fileStore, fileStore, fileStore

	default:
		log.Fatalf("Unknown storage driver %q (expected \"file\" or \"mysql\")", cfg.StorageDriver)
	}

	// Deal transitions committed locally are mirrored to the remote endpoint
	// when one is configured
	var remote mirror.Remote = mirror.Noop{}
	if cfg.MirrorEndpoint != "" {
		remote = mirror.NewHTTP(cfg.MirrorEndpoint)
		log.Printf("Mirroring deal transitions to %s", cfg.MirrorEndpoint)
	}

	// Buyer notifications over Telegram when a bot token is configured
	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramBotToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken)
		if err != nil {
			log.Printf("Warning: Telegram notifier disabled: %v", err)
		} else {
			notifier = tg
			log.Println("Telegram notifier enabled")
		}
	}

	// Payment gateway: real YooKassa requests only when explicitly enabled,
	// otherwise the stub that mints payment ids locally
	var gateway payment.Gateway = payment.NewStubGateway(cfg.BaseURL)
	if cfg.PaymentMode == "yookassa" {
		gateway = payment.NewYooKassaGateway(cfg.ShopID, cfg.ShopSecretKey, cfg.BaseURL)
		log.Println("YooKassa payment gateway enabled")
	}

	// Initialize services
	bus := events.NewBus()
	dealService := services.NewDealService(dealRepo, bus, remote, notifier, appMetrics)
	catalogService := services.NewCatalogService(productRepo, favRepo, appMetrics)
	paymentService := services.NewPaymentService(gateway, appMetrics)

	// Initialize app
	app := api.NewApp(cfg, appMetrics, dealService, catalogService, paymentService)

	// Setup router
	router := mux.NewRouter()
	app.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.AppPort)
		log.Printf("OTLP endpoint: %s", cfg.OTELExporterOTLPEndpoint)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
