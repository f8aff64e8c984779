package service

import (
	"context"
	"errors"
	"fmt"

	"daystock/internal/apperr"
	"daystock/internal/domain"
	"daystock/internal/store"
)

type productGroup struct {
	sku     string
	name    string
	records []domain.MetricRecord
}

// reconcile merges projected records into storage inside a
// transaction-scoped store. Products are created on first sight of a
// SKU; an existing product's name is overwritten unconditionally.
// Without overwrite, a duplicate (product, date) fails the whole run
// as a conflict rather than being skipped.
func reconcile(ctx context.Context, tx store.Store, records []domain.MetricRecord, overwrite bool) (domain.ImportStats, error) {
	var stats domain.ImportStats

	for _, group := range groupBySKU(records) {
		isNew := false
		if _, err := tx.FindProductBySKU(ctx, group.sku); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return stats, fmt.Errorf("find product %q: %w", group.sku, err)
			}
			isNew = true
		}

		product, err := tx.UpsertProduct(ctx, group.sku, group.name)
		if err != nil {
			return stats, fmt.Errorf("upsert product %q: %w", group.sku, err)
		}
		if isNew {
			stats.CreatedProducts++
		} else {
			stats.UpdatedProducts++
		}

		for _, record := range group.records {
			input := store.MetricInput{
				ProductID:            product.ID,
				Date:                 record.Date,
				OpeningInventory:     record.OpeningInventory,
				ProcurementQty:       record.ProcurementQty,
				ProcurementUnitPrice: record.ProcurementUnitPrice,
				SalesQty:             record.SalesQty,
				SalesUnitPrice:       record.SalesUnitPrice,
				UploadBatchID:        record.UploadBatchID,
			}

			if !overwrite {
				if _, err := tx.CreateDailyMetric(ctx, input); err != nil {
					if errors.Is(err, store.ErrConflict) {
						return stats, apperr.Conflictf(
							"duplicate data found for product %s on %s; use the overwrite option to update existing data",
							group.sku, record.Date.Format("2006-01-02"),
						)
					}
					return stats, fmt.Errorf("create metric for %q: %w", group.sku, err)
				}
				stats.CreatedMetrics++
				continue
			}

			exists := true
			if _, err := tx.FindDailyMetric(ctx, product.ID, record.Date); err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					return stats, fmt.Errorf("find metric for %q: %w", group.sku, err)
				}
				exists = false
			}
			if _, err := tx.UpsertDailyMetric(ctx, input); err != nil {
				return stats, fmt.Errorf("upsert metric for %q: %w", group.sku, err)
			}
			if exists {
				stats.UpdatedMetrics++
			} else {
				stats.CreatedMetrics++
			}
		}
	}

	stats.TotalRecords = stats.CreatedMetrics + stats.UpdatedMetrics
	return stats, nil
}

// groupBySKU keeps first-seen group order and the first-seen product
// name per group.
func groupBySKU(records []domain.MetricRecord) []productGroup {
	index := make(map[string]int)
	groups := make([]productGroup, 0)
	for _, record := range records {
		pos, ok := index[record.SKU]
		if !ok {
			pos = len(groups)
			index[record.SKU] = pos
			groups = append(groups, productGroup{sku: record.SKU, name: record.Name})
		}
		groups[pos].records = append(groups[pos].records, record)
	}
	return groups
}
