// Package memory is an in-memory store.Store used by tests and local
// development. Transactions operate on a deep copy of the state that
// replaces the live state only on success, so a failed transaction
// leaves zero partial writes, matching the Postgres implementation.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"daystock/internal/domain"
	"daystock/internal/store"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type metricKey struct {
	productID int64
	date      string
}

type state struct {
	products   map[string]domain.Product // keyed by SKU
	productSeq int64
	metrics    map[metricKey]domain.DailyMetric
	metricSeq  int64
	batches    map[string]domain.UploadBatch
}

type Store struct {
	mu    sync.Mutex
	state *state
	inTx  bool
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{state: &state{
		products: make(map[string]domain.Product),
		metrics:  make(map[metricKey]domain.DailyMetric),
		batches:  make(map[string]domain.UploadBatch),
	}}
}

func (s *Store) RunInTransaction(ctx context.Context, fn func(store.Store) error) error {
	if s.inTx {
		return fmt.Errorf("already inside a transaction")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&Store{state: snapshot, inTx: true}); err != nil {
		return err
	}
	s.state = snapshot
	return nil
}

func (s *Store) FindProductBySKU(_ context.Context, sku string) (*domain.Product, error) {
	s.lock()
	defer s.unlock()

	product, ok := s.state.products[sku]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &product, nil
}

func (s *Store) UpsertProduct(_ context.Context, sku, name string) (domain.Product, error) {
	s.lock()
	defer s.unlock()

	now := time.Now()
	product, ok := s.state.products[sku]
	if !ok {
		s.state.productSeq++
		product = domain.Product{ID: s.state.productSeq, SKU: sku, CreatedAt: now}
	}
	product.Name = name
	product.UpdatedAt = now
	s.state.products[sku] = product
	return product, nil
}

func (s *Store) FindDailyMetric(_ context.Context, productID int64, date time.Time) (*domain.DailyMetric, error) {
	s.lock()
	defer s.unlock()

	metric, ok := s.state.metrics[metricKey{productID, date.Format(dateLayout)}]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &metric, nil
}

func (s *Store) CreateDailyMetric(_ context.Context, input store.MetricInput) (domain.DailyMetric, error) {
	s.lock()
	defer s.unlock()

	key := metricKey{input.ProductID, input.Date.Format(dateLayout)}
	if _, exists := s.state.metrics[key]; exists {
		return domain.DailyMetric{}, fmt.Errorf(
			"metric for product %d on %s: %w", input.ProductID, key.date, store.ErrConflict)
	}
	s.state.metricSeq++
	metric := metricFromInput(s.state.metricSeq, input)
	s.state.metrics[key] = metric
	return metric, nil
}

func (s *Store) UpsertDailyMetric(_ context.Context, input store.MetricInput) (domain.DailyMetric, error) {
	s.lock()
	defer s.unlock()

	key := metricKey{input.ProductID, input.Date.Format(dateLayout)}
	id := s.state.metricSeq + 1
	if existing, ok := s.state.metrics[key]; ok {
		id = existing.ID
	} else {
		s.state.metricSeq++
	}
	metric := metricFromInput(id, input)
	s.state.metrics[key] = metric
	return metric, nil
}

func (s *Store) CreateUploadBatch(_ context.Context, filename, uploadedBy string) (domain.UploadBatch, error) {
	s.lock()
	defer s.unlock()

	batch := domain.UploadBatch{
		ID:         uuid.NewString(),
		Filename:   filename,
		UploadedBy: uploadedBy,
		CreatedAt:  time.Now(),
	}
	s.state.batches[batch.ID] = batch
	return batch, nil
}

// UploadBatches returns every recorded batch, oldest first. Batch rows
// are written outside transactions, so batches of failed imports show
// up here too.
func (s *Store) UploadBatches() []domain.UploadBatch {
	s.lock()
	defer s.unlock()

	batches := make([]domain.UploadBatch, 0, len(s.state.batches))
	for _, batch := range s.state.batches {
		batches = append(batches, batch)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].CreatedAt.Before(batches[j].CreatedAt) })
	return batches
}

func (s *Store) ListProducts(_ context.Context) ([]domain.ProductSummary, error) {
	s.lock()
	defer s.unlock()

	counts := make(map[int64]int)
	for _, metric := range s.state.metrics {
		counts[metric.ProductID]++
	}
	summaries := make([]domain.ProductSummary, 0, len(s.state.products))
	for _, product := range s.state.products {
		summaries = append(summaries, domain.ProductSummary{
			ID:          product.ID,
			SKU:         product.SKU,
			Name:        product.Name,
			MetricCount: counts[product.ID],
			CreatedAt:   product.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].SKU < summaries[j].SKU })
	return summaries, nil
}

func (s *Store) ListMetrics(_ context.Context, filter store.MetricFilter) ([]domain.DailyMetric, error) {
	s.lock()
	defer s.unlock()

	wanted := make(map[int64]bool, len(filter.ProductIDs))
	for _, id := range filter.ProductIDs {
		wanted[id] = true
	}

	metrics := make([]domain.DailyMetric, 0, len(s.state.metrics))
	for _, metric := range s.state.metrics {
		if len(wanted) > 0 && !wanted[metric.ProductID] {
			continue
		}
		if filter.From != nil && metric.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && metric.Date.After(*filter.To) {
			continue
		}
		metrics = append(metrics, metric)
	}
	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].ProductID != metrics[j].ProductID {
			return metrics[i].ProductID < metrics[j].ProductID
		}
		return metrics[i].Date.Before(metrics[j].Date)
	})
	return metrics, nil
}

func (s *Store) GetProductRefs(_ context.Context, ids []int64) (map[int64]domain.ProductRef, error) {
	s.lock()
	defer s.unlock()

	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	refs := make(map[int64]domain.ProductRef, len(ids))
	for _, product := range s.state.products {
		if wanted[product.ID] {
			refs[product.ID] = domain.ProductRef{ID: product.ID, SKU: product.SKU, Name: product.Name}
		}
	}
	return refs, nil
}

// Transaction-scoped stores run under the root store's lock already.
func (s *Store) lock() {
	if !s.inTx {
		s.mu.Lock()
	}
}

func (s *Store) unlock() {
	if !s.inTx {
		s.mu.Unlock()
	}
}

func metricFromInput(id int64, input store.MetricInput) domain.DailyMetric {
	return domain.DailyMetric{
		ID:                   id,
		ProductID:            input.ProductID,
		Date:                 input.Date,
		OpeningInventory:     input.OpeningInventory,
		ProcurementQty:       input.ProcurementQty,
		ProcurementUnitPrice: input.ProcurementUnitPrice,
		SalesQty:             input.SalesQty,
		SalesUnitPrice:       input.SalesUnitPrice,
		UploadBatchID:        input.UploadBatchID,
	}
}

func (st *state) clone() *state {
	next := &state{
		products:   make(map[string]domain.Product, len(st.products)),
		productSeq: st.productSeq,
		metrics:    make(map[metricKey]domain.DailyMetric, len(st.metrics)),
		metricSeq:  st.metricSeq,
		batches:    make(map[string]domain.UploadBatch, len(st.batches)),
	}
	for k, v := range st.products {
		next.products[k] = v
	}
	for k, v := range st.metrics {
		next.metrics[k] = v
	}
	for k, v := range st.batches {
		next.batches[k] = v
	}
	return next
}
