package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daystock/internal/domain"
	"daystock/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every query
// method works identically inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	q    querier
}

var _ store.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

// RunInTransaction executes fn against a transaction-scoped Store.
// fn returning an error rolls everything back.
func (s *Store) RunInTransaction(ctx context.Context, fn func(store.Store) error) error {
	if s.pool == nil {
		return fmt.Errorf("already inside a transaction")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) FindProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, sku, name, created_at, updated_at
		FROM products
		WHERE sku = $1
	`, sku)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find product %q: %w", sku, err)
	}
	return &product, nil
}

func (s *Store) UpsertProduct(ctx context.Context, sku, name string) (domain.Product, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO products (sku, name)
		VALUES ($1, $2)
		ON CONFLICT (sku)
		DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
		RETURNING id, sku, name, created_at, updated_at
	`, sku, name)
	product, err := scanProduct(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("upsert product %q: %w", sku, err)
	}
	return product, nil
}

func (s *Store) FindDailyMetric(ctx context.Context, productID int64, date time.Time) (*domain.DailyMetric, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+metricColumns+`
		FROM daily_metrics
		WHERE product_id = $1 AND date = $2
	`, productID, date)
	metric, err := scanMetric(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find metric: %w", err)
	}
	return &metric, nil
}

func (s *Store) CreateDailyMetric(ctx context.Context, input store.MetricInput) (domain.DailyMetric, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO daily_metrics (
			product_id,
			date,
			opening_inventory,
			procurement_qty,
			procurement_unit_price,
			sales_qty,
			sales_unit_price,
			upload_batch_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+metricColumns,
		input.ProductID,
		input.Date,
		input.OpeningInventory,
		input.ProcurementQty,
		input.ProcurementUnitPrice,
		input.SalesQty,
		input.SalesUnitPrice,
		input.UploadBatchID,
	)
	metric, err := scanMetric(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.DailyMetric{}, fmt.Errorf(
				"metric for product %d on %s: %w",
				input.ProductID, input.Date.Format("2006-01-02"), store.ErrConflict,
			)
		}
		return domain.DailyMetric{}, fmt.Errorf("create metric: %w", err)
	}
	return metric, nil
}

func (s *Store) UpsertDailyMetric(ctx context.Context, input store.MetricInput) (domain.DailyMetric, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO daily_metrics (
			product_id,
			date,
			opening_inventory,
			procurement_qty,
			procurement_unit_price,
			sales_qty,
			sales_unit_price,
			upload_batch_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT uq_daily_metrics_product_date
		DO UPDATE SET
			opening_inventory = EXCLUDED.opening_inventory,
			procurement_qty = EXCLUDED.procurement_qty,
			procurement_unit_price = EXCLUDED.procurement_unit_price,
			sales_qty = EXCLUDED.sales_qty,
			sales_unit_price = EXCLUDED.sales_unit_price,
			upload_batch_id = EXCLUDED.upload_batch_id
		RETURNING `+metricColumns,
		input.ProductID,
		input.Date,
		input.OpeningInventory,
		input.ProcurementQty,
		input.ProcurementUnitPrice,
		input.SalesQty,
		input.SalesUnitPrice,
		input.UploadBatchID,
	)
	metric, err := scanMetric(row)
	if err != nil {
		return domain.DailyMetric{}, fmt.Errorf("upsert metric: %w", err)
	}
	return metric, nil
}

func (s *Store) CreateUploadBatch(ctx context.Context, filename, uploadedBy string) (domain.UploadBatch, error) {
	batch := domain.UploadBatch{
		ID:         uuid.NewString(),
		Filename:   filename,
		UploadedBy: uploadedBy,
	}
	if err := s.q.QueryRow(ctx, `
		INSERT INTO upload_batches (id, filename, uploaded_by)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, batch.ID, batch.Filename, batch.UploadedBy).Scan(&batch.CreatedAt); err != nil {
		return domain.UploadBatch{}, fmt.Errorf("create upload batch: %w", err)
	}
	return batch, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.ProductSummary, error) {
	rows, err := s.q.Query(ctx, `
		SELECT
			p.id,
			p.sku,
			p.name,
			COUNT(m.id)::int,
			p.created_at
		FROM products p
		LEFT JOIN daily_metrics m ON m.product_id = p.id
		GROUP BY p.id, p.sku, p.name, p.created_at
		ORDER BY p.sku ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.ProductSummary, 0)
	for rows.Next() {
		var p domain.ProductSummary
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.MetricCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product summary: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (s *Store) ListMetrics(ctx context.Context, filter store.MetricFilter) ([]domain.DailyMetric, error) {
	query := `
		SELECT ` + metricColumns + `
		FROM daily_metrics
		WHERE TRUE
	`
	args := []any{}
	idx := 1
	if len(filter.ProductIDs) > 0 {
		query += fmt.Sprintf(" AND product_id = ANY($%d)", idx)
		args = append(args, filter.ProductIDs)
		idx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", idx)
		args = append(args, *filter.To)
		idx++
	}
	query += " ORDER BY product_id ASC, date ASC"

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	defer rows.Close()

	metrics := make([]domain.DailyMetric, 0)
	for rows.Next() {
		metric, err := scanMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		metrics = append(metrics, metric)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics: %w", err)
	}
	return metrics, nil
}

func (s *Store) GetProductRefs(ctx context.Context, ids []int64) (map[int64]domain.ProductRef, error) {
	refs := make(map[int64]domain.ProductRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	rows, err := s.q.Query(ctx, `
		SELECT id, sku, name
		FROM products
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("get product refs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref domain.ProductRef
		if err := rows.Scan(&ref.ID, &ref.SKU, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan product ref: %w", err)
		}
		refs[ref.ID] = ref
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product refs: %w", err)
	}
	return refs, nil
}

const metricColumns = `
	id,
	product_id,
	date,
	opening_inventory::double precision,
	procurement_qty::double precision,
	procurement_unit_price::double precision,
	sales_qty::double precision,
	sales_unit_price::double precision,
	upload_batch_id`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func scanMetric(row pgx.Row) (domain.DailyMetric, error) {
	var metric domain.DailyMetric
	if err := row.Scan(
		&metric.ID,
		&metric.ProductID,
		&metric.Date,
		&metric.OpeningInventory,
		&metric.ProcurementQty,
		&metric.ProcurementUnitPrice,
		&metric.SalesQty,
		&metric.SalesUnitPrice,
		&metric.UploadBatchID,
	); err != nil {
		return domain.DailyMetric{}, err
	}
	return metric, nil
}
