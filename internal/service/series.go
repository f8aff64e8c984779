package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"daystock/internal/domain"
	"daystock/internal/store"
)

// MetricSeries returns per-product daily series for the dashboard
// charts. Each product carries parallel arrays indexed by the union of
// all dates in range; dates a product has no row for are filled with
// zeros. Procurement and sales are amounts (qty times unit price),
// rounded to cents.
func (s *Service) MetricSeries(ctx context.Context, productIDs []int64, from, to *time.Time) ([]domain.ProductSeries, error) {
	metrics, err := s.store.ListMetrics(ctx, store.MetricFilter{
		ProductIDs: productIDs,
		From:       from,
		To:         to,
	})
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	if len(metrics) == 0 {
		return []domain.ProductSeries{}, nil
	}

	ids := make([]int64, 0, len(metrics))
	seen := make(map[int64]bool)
	dateSet := make(map[string]bool)
	byProduct := make(map[int64]map[string]domain.DailyMetric)
	for _, metric := range metrics {
		day := metric.Date.Format(dateLayout)
		dateSet[day] = true
		if !seen[metric.ProductID] {
			seen[metric.ProductID] = true
			ids = append(ids, metric.ProductID)
			byProduct[metric.ProductID] = make(map[string]domain.DailyMetric)
		}
		byProduct[metric.ProductID][day] = metric
	}

	refs, err := s.store.GetProductRefs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	dates := make([]string, 0, len(dateSet))
	for day := range dateSet {
		dates = append(dates, day)
	}
	sort.Strings(dates)

	series := make([]domain.ProductSeries, 0, len(ids))
	for _, id := range ids {
		entry := domain.ProductSeries{
			Product:     refs[id],
			Dates:       dates,
			Inventory:   make([]float64, 0, len(dates)),
			Procurement: make([]float64, 0, len(dates)),
			Sales:       make([]float64, 0, len(dates)),
		}
		for _, day := range dates {
			metric, ok := byProduct[id][day]
			if !ok {
				entry.Inventory = append(entry.Inventory, 0)
				entry.Procurement = append(entry.Procurement, 0)
				entry.Sales = append(entry.Sales, 0)
				continue
			}
			entry.Inventory = append(entry.Inventory, metric.OpeningInventory)
			entry.Procurement = append(entry.Procurement, roundCents(metric.ProcurementQty*metric.ProcurementUnitPrice))
			entry.Sales = append(entry.Sales, roundCents(metric.SalesQty*metric.SalesUnitPrice))
		}
		series = append(series, entry)
	}
	return series, nil
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}
