package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	headerSKU              = "id"
	headerProductName      = "product name"
	headerOpeningInventory = "opening inventory"
)

// Day is one parsed day of metrics for a product. Absent or
// unparseable day cells default to zero.
type Day struct {
	DayIndex             int
	ProcurementQty       float64
	ProcurementUnitPrice float64
	SalesQty             float64
	SalesUnitPrice       float64
}

// Product is one successfully parsed spreadsheet row.
type Product struct {
	SKU              string
	Name             string
	OpeningInventory float64
	Days             []Day
}

// Result aggregates the parse of a whole workbook. Errors contains
// schema-level errors (in which case no rows were read) or per-row
// errors; rows that parsed cleanly are in Products either way.
type Result struct {
	Products  []Product
	TotalDays int
	Errors    []string
}

// Parse reads the first sheet of an xlsx workbook. Schema analysis runs
// against the header row first; if it fails, parsing stops before any
// data row is read. Row failures are collected, not fatal.
func Parse(reader io.Reader) (Result, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return Result{}, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, fmt.Errorf("excel file has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("excel file is empty")
	}

	schema := AnalyzeColumns(rows[0])
	if len(schema.Errors) > 0 {
		return Result{TotalDays: schema.MaxDay, Errors: schema.Errors}, nil
	}

	columnIndex := mapColumns(rows[0])
	result := Result{TotalDays: schema.MaxDay}
	for index := 1; index < len(rows); index++ {
		cells := rows[index]
		if isBlankRow(cells) {
			continue
		}
		product, err := parseRow(cells, columnIndex, schema)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", index+1, err))
			continue
		}
		result.Products = append(result.Products, product)
	}

	// A header row with no data rows under it is still an empty file.
	if len(result.Products) == 0 && len(result.Errors) == 0 {
		return Result{}, fmt.Errorf("excel file is empty")
	}

	return result, nil
}

func parseRow(cells []string, columnIndex map[string]int, schema Schema) (Product, error) {
	sku := strings.TrimSpace(cellByHeader(cells, columnIndex, headerSKU))
	if sku == "" {
		return Product{}, fmt.Errorf("product ID is required")
	}
	name := strings.TrimSpace(cellByHeader(cells, columnIndex, headerProductName))
	if name == "" {
		return Product{}, fmt.Errorf("product name is required")
	}
	opening, ok := cleanNumber(cellByHeader(cells, columnIndex, headerOpeningInventory))
	if !ok {
		return Product{}, fmt.Errorf("opening inventory must be a number")
	}

	product := Product{
		SKU:              sku,
		Name:             name,
		OpeningInventory: opening,
		Days:             make([]Day, 0, len(schema.Days)),
	}
	for _, dayIndex := range schema.SortedDays() {
		cols := schema.Days[dayIndex]
		product.Days = append(product.Days, Day{
			DayIndex:             dayIndex,
			ProcurementQty:       numberOrZero(cells, columnIndex, cols.ProcurementQty),
			ProcurementUnitPrice: numberOrZero(cells, columnIndex, cols.ProcurementPrice),
			SalesQty:             numberOrZero(cells, columnIndex, cols.SalesQty),
			SalesUnitPrice:       numberOrZero(cells, columnIndex, cols.SalesPrice),
		})
	}
	return product, nil
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int, len(header))
	for idx, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		if normalized == "" {
			continue
		}
		if _, exists := mapped[normalized]; !exists {
			mapped[normalized] = idx
		}
	}
	return mapped
}

func cellByHeader(cells []string, columnIndex map[string]int, header string) string {
	idx, ok := columnIndex[strings.ToLower(header)]
	if !ok || idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

func numberOrZero(cells []string, columnIndex map[string]int, header string) float64 {
	value, ok := cleanNumber(cellByHeader(cells, columnIndex, header))
	if !ok {
		return 0
	}
	return value
}

func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
