// Server entry point for the pickstock API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pickstock/internal/config"
	"pickstock/internal/core/tx"
	"pickstock/internal/domain"
	"pickstock/internal/domain/customer"
	"pickstock/internal/domain/inventory"
	"pickstock/internal/domain/sequence"
	"pickstock/internal/domain/shipment"
	v1 "pickstock/internal/infrastructure/http/v1"
	"pickstock/internal/infrastructure/storage/memory"
	"pickstock/internal/infrastructure/storage/postgres"
	"pickstock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatalw("invalid configuration", "error", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		logger.Default().Fatalw("failed to initialize logger", "error", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()

	// --- Storage ---
	var (
		ledgerStore   inventory.Store
		shipmentStore shipment.Store
		sequenceStore sequence.Store
		orderSource   sequence.OrderSource
		customerStore customer.Store
		txManager     tx.Manager
		ready         func(c *gin.Context) error
	)

	switch cfg.App.Storage {
	case "postgres":
		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.ConnectionString()))
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()

		txm := postgres.NewTxManager(pool)
		shipments := postgres.NewShipmentRepo(txm)

		ledgerStore = postgres.NewLedgerRepo(txm)
		shipmentStore = shipments
		sequenceStore = postgres.NewSequenceRepo(txm)
		orderSource = shipments
		customerStore = postgres.NewCustomerRepo(txm)
		txManager = txm
		ready = func(c *gin.Context) error {
			return pool.Ping(c.Request.Context())
		}

		log.Infow("storage ready", "backend", "postgres", "db", cfg.DB.DBName)

	case "memory":
		shipments := memory.NewShipmentStore()

		ledgerStore = memory.NewLedgerStore()
		shipmentStore = shipments
		sequenceStore = memory.NewSequenceStore()
		orderSource = shipments
		customerStore = memory.NewCustomerStore()
		txManager = tx.Nop{}

		log.Infow("storage ready", "backend", "memory")
	}

	// --- Domain services ---
	locks := domain.NewCompanyLocks()
	seqGen := sequence.NewGenerator(sequenceStore, orderSource, locks)

	inventorySvc := inventory.NewService(ledgerStore, txManager, locks)
	shipmentSvc := shipment.NewService(shipmentStore, ledgerStore, seqGen, txManager, locks)
	customerSvc := customer.NewService(customerStore, txManager, locks)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:    log,
		Ready:     ready,
		Inventory: inventorySvc,
		Shipments: shipmentSvc,
		Customers: customerSvc,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr(), "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
