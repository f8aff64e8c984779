package excel

import (
	"time"

	"daystock/internal/domain"
)

// ProjectRecords maps relative day indexes onto calendar dates and
// flattens parsed products into database-ready metric records. Day 1
// lands on startDate; later days follow plain calendar arithmetic, so
// month and year rollovers fall out of AddDate. The product's opening
// inventory is copied onto every day record as-is, not rolled forward
// day-over-day.
func ProjectRecords(products []Product, startDate time.Time, uploadBatchID string) []domain.MetricRecord {
	records := make([]domain.MetricRecord, 0, len(products))
	for _, product := range products {
		for _, day := range product.Days {
			records = append(records, domain.MetricRecord{
				SKU:                  product.SKU,
				Name:                 product.Name,
				Date:                 startDate.AddDate(0, 0, day.DayIndex-1),
				OpeningInventory:     product.OpeningInventory,
				ProcurementQty:       day.ProcurementQty,
				ProcurementUnitPrice: day.ProcurementUnitPrice,
				SalesQty:             day.SalesQty,
				SalesUnitPrice:       day.SalesUnitPrice,
				UploadBatchID:        uploadBatchID,
			})
		}
	}
	return records
}
