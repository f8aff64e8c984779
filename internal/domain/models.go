package domain

import "time"

type Product struct {
	ID        int64     `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductSummary is the product listing shape for the dashboard,
// with the number of metric rows stored for the product.
type ProductSummary struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	MetricCount int       `json:"metricCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DailyMetric is one product's metrics for one calendar date.
// At most one row exists per (ProductID, Date).
type DailyMetric struct {
	ID                   int64     `json:"id"`
	ProductID            int64     `json:"productId"`
	Date                 time.Time `json:"date"`
	OpeningInventory     float64   `json:"openingInventory"`
	ProcurementQty       float64   `json:"procurementQty"`
	ProcurementUnitPrice float64   `json:"procurementUnitPrice"`
	SalesQty             float64   `json:"salesQty"`
	SalesUnitPrice       float64   `json:"salesUnitPrice"`
	UploadBatchID        string    `json:"uploadBatchId"`
}

// UploadBatch tags every metric row written by one ingestion run.
type UploadBatch struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MetricRecord is a database-ready row produced by date projection:
// one parsed day of one product, anchored to an absolute date.
type MetricRecord struct {
	SKU                  string
	Name                 string
	Date                 time.Time
	OpeningInventory     float64
	ProcurementQty       float64
	ProcurementUnitPrice float64
	SalesQty             float64
	SalesUnitPrice       float64
	UploadBatchID        string
}

// ImportStats are the reconciliation counters for one ingestion run.
type ImportStats struct {
	CreatedProducts int `json:"createdProducts"`
	UpdatedProducts int `json:"updatedProducts"`
	CreatedMetrics  int `json:"createdMetrics"`
	UpdatedMetrics  int `json:"updatedMetrics"`
	TotalRecords    int `json:"totalRecords"`
}

// ProductSeries is the chart feed for one product: parallel arrays
// indexed by Dates, with procurement/sales as amounts (qty * unit price).
type ProductSeries struct {
	Product     ProductRef `json:"product"`
	Dates       []string   `json:"dates"`
	Inventory   []float64  `json:"inventory"`
	Procurement []float64  `json:"procurement"`
	Sales       []float64  `json:"sales"`
}

type ProductRef struct {
	ID   int64  `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"name"`
}
