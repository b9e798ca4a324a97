// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"pickstock/internal/core/reqctx"
	"pickstock/internal/domain"
	"pickstock/internal/domain/customer"
	"pickstock/internal/domain/inventory"
	"pickstock/internal/domain/sequence"
	"pickstock/internal/domain/shipment"
	"pickstock/internal/infrastructure/storage/postgres"
	"pickstock/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	companyID := os.Getenv("SEED_COMPANY_ID")
	if companyID == "" {
		companyID = "demo"
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	shipments := postgres.NewShipmentRepo(txm)
	ledger := postgres.NewLedgerRepo(txm)
	locks := domain.NewCompanyLocks()

	inventorySvc := inventory.NewService(ledger, txm, locks)
	customerSvc := customer.NewService(postgres.NewCustomerRepo(txm), txm, locks)
	shipmentSvc := shipment.NewService(
		shipments, ledger,
		sequence.NewGenerator(postgres.NewSequenceRepo(txm), shipments, locks),
		txm, locks,
	)

	existing, err := inventorySvc.List(ctx, companyID)
	if err != nil {
		log.Fatalw("failed to read ledger", "error", err)
	}
	if len(existing) > 0 {
		log.Infow("ledger already populated, nothing to do", "company", companyID, "batches", len(existing))
		return
	}

	ctx = reqctx.WithActor(ctx, &reqctx.ActorContext{
		Name:       "seed",
		CompanyID:  companyID,
		CanConfirm: true,
	})

	custResult, err := customerSvc.Import(ctx, companyID, demoCustomers())
	if err != nil {
		log.Fatalw("failed to seed customers", "error", err)
	}
	log.Infow("customers seeded", "added", custResult.Added, "skipped", custResult.Skipped)

	invResult, err := inventorySvc.Import(ctx, companyID, demoBatches())
	if err != nil {
		log.Fatalw("failed to seed batches", "error", err)
	}
	log.Infow("batches seeded", "added", invResult.Added, "merged", invResult.Merged)

	if os.Getenv("SEED_DEMO_SHIPMENT") == "true" {
		if err := seedDemoShipment(ctx, companyID, shipmentSvc, log); err != nil {
			log.Fatalw("failed to seed shipment", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func demoCustomers() []customer.Customer {
	return []customer.Customer{
		{ID: "ACME", ShortName: "Acme", Name: "Acme Components Ltd.", Contact: "J. Siu", Phone: "+852 2345 6789", Email: "orders@acme.example"},
		{ID: "GLOBEX", ShortName: "Globex", Name: "Globex Trading Co.", Contact: "M. Chan", Phone: "+852 9876 5432", Email: "purchasing@globex.example"},
	}
}

func demoBatches() []inventory.Batch {
	return []inventory.Batch{
		{PartNumber: "LM317T", Brand: "TI", CountryOfOrigin: "MY", DateCode: "2330", Lot: "L0455", Bin: "A-01", Quantity: 250},
		{PartNumber: "LM317T", Brand: "TI", CountryOfOrigin: "MY", DateCode: "2401", Lot: "L0198", Bin: "A-01", Quantity: 400},
		{PartNumber: "STM32F103C8T6", Brand: "ST", CountryOfOrigin: "CN", DateCode: "2351", Lot: "L1120", Bin: "B-07", Quantity: 60},
		{PartNumber: "STM32F103C8T6", Brand: "ST", CountryOfOrigin: "CN", DateCode: "2402", Lot: "L1134", Bin: "B-07", Quantity: 120},
		{PartNumber: "1N4148", Brand: "Vishay", CountryOfOrigin: "TW", DateCode: "2318", Lot: "L0021", Bin: "C-12", Quantity: 5000},
	}
}

// seedDemoShipment creates one draft with a real allocation so the UI
// has something to look at out of the box.
func seedDemoShipment(ctx context.Context, companyID string, svc *shipment.Service, log *logger.Logger) error {
	order, err := svc.Create(ctx, companyID, shipment.CustomerInfo{
		ID:           "ACME",
		Name:         "Acme Components Ltd.",
		ShortName:    "Acme",
		Service:      "J. Siu",
		ShipmentType: "Local",
	}, nil)
	if err != nil {
		return err
	}

	if _, err := svc.AddItem(ctx, companyID, order.ID, "LM317T", 300, true); err != nil {
		return err
	}

	log.Infow("demo shipment seeded", "pick_order_no", order.PickOrderNo)
	return nil
}
