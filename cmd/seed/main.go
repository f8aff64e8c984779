// Seeds a handful of demo products with three days of metrics so the
// dashboard has something to chart. Unlike the ingestion path, the
// seeded opening inventory rolls forward day-over-day
// (open + procurement - sales).
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"daystock/internal/config"
	"daystock/internal/db"
	"daystock/internal/store"
	"daystock/internal/store/postgres"
)

type seedDay struct {
	procurementQty   float64
	procurementPrice float64
	salesQty         float64
	salesPrice       float64
}

type seedProduct struct {
	sku              string
	name             string
	openingInventory float64
	days             []seedDay
}

var sampleProducts = []seedProduct{
	{"0000001", "CHERRY 1PACK", 117, []seedDay{
		{0, 0, 22, 5.98},
		{21, 13.72, 12, 5.98},
		{0, 0, 7, 4.98},
	}},
	{"0000002", "ENOKI MUSHROOM 360G", 1020, []seedDay{
		{750, 3.20, 157, 4.38},
		{240, 2.80, 111, 4.38},
		{192, 3.60, 95, 4.38},
	}},
	{"0000003", "JIN RAMEN HOT 5P", 23, []seedDay{
		{720, 7.00, 23, 9.98},
		{0, 7.00, 20, 9.98},
		{360, 7.60, 15, 9.98},
	}},
	{"0000004", "DRY TOFU 500G", 15, []seedDay{
		{10, 7.40, 34, 13.98},
		{20, 7.40, 9, 125.82},
		{30, 7.40, 26, 363.48},
	}},
	{"0000005", "FREE RANGE EGGS 700G", 7, []seedDay{
		{45, 12.14, 10, 16.98},
		{45, 12.66, 9, 16.98},
		{60, 10.14, 6, 16.98},
	}},
}

func main() {
	startRaw := flag.String("start", "2024-01-01", "calendar date of day 1 (YYYY-MM-DD)")
	flag.Parse()

	startDate, err := time.Parse("2006-01-02", *startRaw)
	if err != nil {
		log.Fatalf("invalid -start date: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	st := postgres.New(pool)
	batch, err := st.CreateUploadBatch(ctx, "sample-data-seed.xlsx", "system-seed")
	if err != nil {
		log.Fatalf("create seed batch: %v", err)
	}

	totalMetrics := 0
	if err := st.RunInTransaction(ctx, func(tx store.Store) error {
		for _, item := range sampleProducts {
			product, err := tx.UpsertProduct(ctx, item.sku, item.name)
			if err != nil {
				return err
			}

			opening := item.openingInventory
			for dayIndex, day := range item.days {
				if _, err := tx.UpsertDailyMetric(ctx, store.MetricInput{
					ProductID:            product.ID,
					Date:                 startDate.AddDate(0, 0, dayIndex),
					OpeningInventory:     opening,
					ProcurementQty:       day.procurementQty,
					ProcurementUnitPrice: day.procurementPrice,
					SalesQty:             day.salesQty,
					SalesUnitPrice:       day.salesPrice,
					UploadBatchID:        batch.ID,
				}); err != nil {
					return err
				}
				opening = opening + day.procurementQty - day.salesQty
				totalMetrics++
			}
		}
		return nil
	}); err != nil {
		log.Fatalf("seed error: %v", err)
	}

	log.Printf("seeded %d products with %d daily metrics (batch %s)", len(sampleProducts), totalMetrics, batch.ID)
}
