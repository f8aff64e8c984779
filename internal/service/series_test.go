package service

import (
	"context"
	"testing"

	"daystock/internal/store"
	"daystock/internal/store/memory"
)

func seedMetrics(t *testing.T, st *memory.Store) (alpha, beta int64) {
	t.Helper()
	ctx := context.Background()

	a, err := st.UpsertProduct(ctx, "0000001", "CHERRY 1PACK")
	if err != nil {
		t.Fatalf("upsert product: %v", err)
	}
	b, err := st.UpsertProduct(ctx, "0000002", "ENOKI MUSHROOM 360G")
	if err != nil {
		t.Fatalf("upsert product: %v", err)
	}

	rows := []store.MetricInput{
		{ProductID: a.ID, Date: day("2024-01-01"), OpeningInventory: 117, SalesQty: 22, SalesUnitPrice: 5.98},
		{ProductID: a.ID, Date: day("2024-01-02"), OpeningInventory: 95, ProcurementQty: 21, ProcurementUnitPrice: 13.72},
		{ProductID: b.ID, Date: day("2024-01-02"), OpeningInventory: 1020, SalesQty: 3, SalesUnitPrice: 4.38},
	}
	for _, row := range rows {
		if _, err := st.CreateDailyMetric(ctx, row); err != nil {
			t.Fatalf("create metric: %v", err)
		}
	}
	return a.ID, b.ID
}

func TestMetricSeries_UnionDatesZeroFilled(t *testing.T) {
	t.Parallel()

	st := memory.New()
	alpha, beta := seedMetrics(t, st)
	svc := New(st)

	series, err := svc.MetricSeries(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("series count = %d, want 2", len(series))
	}

	for _, entry := range series {
		if len(entry.Dates) != 2 || entry.Dates[0] != "2024-01-01" || entry.Dates[1] != "2024-01-02" {
			t.Fatalf("dates must be the sorted union: %v", entry.Dates)
		}
		if len(entry.Inventory) != 2 || len(entry.Procurement) != 2 || len(entry.Sales) != 2 {
			t.Fatalf("arrays must parallel dates: %+v", entry)
		}
	}

	byID := make(map[int64]int)
	for i, entry := range series {
		byID[entry.Product.ID] = i
	}
	a := series[byID[alpha]]
	b := series[byID[beta]]

	if a.Product.SKU != "0000001" || a.Product.Name != "CHERRY 1PACK" {
		t.Fatalf("product ref not resolved: %+v", a.Product)
	}
	// 22 * 5.98 = 131.56
	if a.Sales[0] != 131.56 || a.Sales[1] != 0 {
		t.Fatalf("sales amounts: %v", a.Sales)
	}
	// 21 * 13.72 = 288.12
	if a.Procurement[0] != 0 || a.Procurement[1] != 288.12 {
		t.Fatalf("procurement amounts: %v", a.Procurement)
	}
	if a.Inventory[0] != 117 || a.Inventory[1] != 95 {
		t.Fatalf("inventory: %v", a.Inventory)
	}

	// Beta has no row on the first date.
	if b.Inventory[0] != 0 || b.Sales[0] != 0 || b.Procurement[0] != 0 {
		t.Fatalf("missing dates must be zero filled: %+v", b)
	}
	// 3 * 4.38 = 13.14, exercises cent rounding of float products.
	if b.Sales[1] != 13.14 {
		t.Fatalf("sales amount = %v, want 13.14", b.Sales[1])
	}
}

func TestMetricSeries_FilterByProductAndRange(t *testing.T) {
	t.Parallel()

	st := memory.New()
	alpha, _ := seedMetrics(t, st)
	svc := New(st)

	from := day("2024-01-02")
	series, err := svc.MetricSeries(context.Background(), []int64{alpha}, &from, nil)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("series count = %d, want 1", len(series))
	}
	entry := series[0]
	if entry.Product.ID != alpha {
		t.Fatalf("wrong product: %+v", entry.Product)
	}
	if len(entry.Dates) != 1 || entry.Dates[0] != "2024-01-02" {
		t.Fatalf("range filter: %v", entry.Dates)
	}
}

func TestMetricSeries_Empty(t *testing.T) {
	t.Parallel()

	svc := New(memory.New())
	series, err := svc.MetricSeries(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if series == nil || len(series) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", series)
	}
}

func TestRoundCents(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want float64
	}{
		{1.234, 1.23},
		{1.236, 1.24},
		{131.56, 131.56},
		{0, 0},
	}
	for _, tc := range cases {
		if got := roundCents(tc.in); got != tc.want {
			t.Errorf("roundCents(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
