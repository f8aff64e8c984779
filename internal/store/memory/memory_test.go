package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"daystock/internal/store"
)

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestCreateDailyMetric_Conflict(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	product, err := st.UpsertProduct(ctx, "0000001", "CHERRY 1PACK")
	if err != nil {
		t.Fatalf("upsert product: %v", err)
	}
	input := store.MetricInput{ProductID: product.ID, Date: day("2024-01-01"), OpeningInventory: 117}
	if _, err := st.CreateDailyMetric(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := st.CreateDailyMetric(ctx, input); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("second create err = %v, want ErrConflict", err)
	}

	// A different date is no conflict.
	input.Date = day("2024-01-02")
	if _, err := st.CreateDailyMetric(ctx, input); err != nil {
		t.Fatalf("create on new date: %v", err)
	}
}

func TestUpsertProduct_KeepsIDAndUpdatesName(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	first, err := st.UpsertProduct(ctx, "0000001", "CHERRY 1PACK")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := st.UpsertProduct(ctx, "0000001", "CHERRY 1PACK (NEW)")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("id changed on upsert: %d -> %d", first.ID, second.ID)
	}
	if second.Name != "CHERRY 1PACK (NEW)" {
		t.Fatalf("name = %q", second.Name)
	}
}

func TestUpsertDailyMetric_ReplacesRow(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	product, err := st.UpsertProduct(ctx, "0000001", "CHERRY 1PACK")
	if err != nil {
		t.Fatalf("upsert product: %v", err)
	}
	date := day("2024-01-01")
	first, err := st.UpsertDailyMetric(ctx, store.MetricInput{ProductID: product.ID, Date: date, SalesQty: 22})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := st.UpsertDailyMetric(ctx, store.MetricInput{ProductID: product.ID, Date: date, SalesQty: 40})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("id changed on upsert: %d -> %d", first.ID, second.ID)
	}

	stored, err := st.FindDailyMetric(ctx, product.ID, date)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.SalesQty != 40 {
		t.Fatalf("sales qty = %v, want 40", stored.SalesQty)
	}
}

func TestRunInTransaction_RollbackLeavesNoPartialWrites(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	boom := errors.New("boom")
	err := st.RunInTransaction(ctx, func(tx store.Store) error {
		if _, err := tx.UpsertProduct(ctx, "0000001", "CHERRY 1PACK"); err != nil {
			t.Fatalf("tx upsert: %v", err)
		}
		product, err := tx.FindProductBySKU(ctx, "0000001")
		if err != nil {
			t.Fatalf("tx find: %v", err)
		}
		if _, err := tx.CreateDailyMetric(ctx, store.MetricInput{ProductID: product.ID, Date: day("2024-01-01")}); err != nil {
			t.Fatalf("tx create metric: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	if _, err := st.FindProductBySKU(ctx, "0000001"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("product must not survive rollback, err = %v", err)
	}
	metrics, err := st.ListMetrics(ctx, store.MetricFilter{})
	if err != nil {
		t.Fatalf("list metrics: %v", err)
	}
	if len(metrics) != 0 {
		t.Fatalf("metrics must not survive rollback, got %d", len(metrics))
	}
}

func TestRunInTransaction_CommitPublishesWrites(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	err := st.RunInTransaction(ctx, func(tx store.Store) error {
		_, err := tx.UpsertProduct(ctx, "0000001", "CHERRY 1PACK")
		return err
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if _, err := st.FindProductBySKU(ctx, "0000001"); err != nil {
		t.Fatalf("committed product missing: %v", err)
	}
}

func TestRunInTransaction_NoNesting(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	err := st.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.RunInTransaction(ctx, func(store.Store) error { return nil })
	})
	if err == nil {
		t.Fatalf("nested transaction must fail")
	}
}

func TestListProducts_CountsAndOrder(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	b, err := st.UpsertProduct(ctx, "0000002", "ENOKI MUSHROOM 360G")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := st.UpsertProduct(ctx, "0000001", "CHERRY 1PACK"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for _, d := range []string{"2024-01-01", "2024-01-02"} {
		if _, err := st.CreateDailyMetric(ctx, store.MetricInput{ProductID: b.ID, Date: day(d)}); err != nil {
			t.Fatalf("create metric: %v", err)
		}
	}

	products, err := st.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products = %d, want 2", len(products))
	}
	if products[0].SKU != "0000001" || products[1].SKU != "0000002" {
		t.Fatalf("products must be ordered by sku: %+v", products)
	}
	if products[0].MetricCount != 0 || products[1].MetricCount != 2 {
		t.Fatalf("metric counts: %+v", products)
	}
}
