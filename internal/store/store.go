package store

import (
	"context"
	"errors"
	"time"

	"daystock/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrConflict surfaces the (product_id, date) uniqueness constraint.
	ErrConflict = errors.New("duplicate daily metric")
)

// MetricInput is the write shape for a daily metric row.
type MetricInput struct {
	ProductID            int64
	Date                 time.Time
	OpeningInventory     float64
	ProcurementQty       float64
	ProcurementUnitPrice float64
	SalesQty             float64
	SalesUnitPrice       float64
	UploadBatchID        string
}

// MetricFilter narrows ListMetrics; zero values mean "no filter".
type MetricFilter struct {
	ProductIDs []int64
	From       *time.Time
	To         *time.Time
}

// Store is the repository surface the ingestion core consumes. The
// Postgres implementation backs production; the memory implementation
// backs tests.
type Store interface {
	FindProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
	UpsertProduct(ctx context.Context, sku, name string) (domain.Product, error)

	FindDailyMetric(ctx context.Context, productID int64, date time.Time) (*domain.DailyMetric, error)
	// CreateDailyMetric fails with ErrConflict if a row already exists
	// for (ProductID, Date).
	CreateDailyMetric(ctx context.Context, input MetricInput) (domain.DailyMetric, error)
	UpsertDailyMetric(ctx context.Context, input MetricInput) (domain.DailyMetric, error)

	CreateUploadBatch(ctx context.Context, filename, uploadedBy string) (domain.UploadBatch, error)

	ListProducts(ctx context.Context) ([]domain.ProductSummary, error)
	ListMetrics(ctx context.Context, filter MetricFilter) ([]domain.DailyMetric, error)
	GetProductRefs(ctx context.Context, ids []int64) (map[int64]domain.ProductRef, error)

	// RunInTransaction executes fn against a transaction-scoped Store.
	// All writes commit together or not at all.
	RunInTransaction(ctx context.Context, fn func(Store) error) error
}
