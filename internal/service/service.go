package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"daystock/internal/apperr"
	"daystock/internal/domain"
	"daystock/internal/excel"
	"daystock/internal/store"
)

const dateLayout = "2006-01-02"

type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

// ImportRequest carries the raw multipart fields of one ingestion
// request. StartDate and OverwriteExisting arrive as strings and are
// validated here, not at the HTTP layer.
type ImportRequest struct {
	Filename          string
	File              io.Reader
	StartDate         string
	OverwriteExisting string
	UploadedBy        string
}

type ImportResult struct {
	BatchID    string             `json:"batchId"`
	Filename   string             `json:"filename"`
	StartDate  string             `json:"startDate"`
	TotalDays  int                `json:"totalDays"`
	Statistics domain.ImportStats `json:"statistics"`
}

// Import runs one ingestion request end to end: validate, record the
// upload batch, parse, project, reconcile. The batch row is created
// before parsing so it survives later failures for audit. Any parse
// error, schema-level or per-row, blocks reconciliation entirely; no
// partial import of the good rows happens.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	startDate, overwrite, err := validateImportRequest(req)
	if err != nil {
		return nil, err
	}

	uploadedBy := strings.TrimSpace(req.UploadedBy)
	if uploadedBy == "" {
		uploadedBy = "user"
	}
	batch, err := s.store.CreateUploadBatch(ctx, req.Filename, uploadedBy)
	if err != nil {
		return nil, fmt.Errorf("create upload batch: %w", err)
	}

	parsed, err := excel.Parse(req.File)
	if err != nil {
		return nil, apperr.Validation("failed to parse excel file", err.Error())
	}
	if len(parsed.Errors) > 0 {
		return nil, apperr.Validation("excel parsing failed", parsed.Errors...)
	}

	records := excel.ProjectRecords(parsed.Products, startDate, batch.ID)

	var stats domain.ImportStats
	if err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		var rerr error
		stats, rerr = reconcile(ctx, tx, records, overwrite)
		return rerr
	}); err != nil {
		return nil, err
	}

	return &ImportResult{
		BatchID:    batch.ID,
		Filename:   req.Filename,
		StartDate:  startDate.Format(dateLayout),
		TotalDays:  parsed.TotalDays,
		Statistics: stats,
	}, nil
}

func validateImportRequest(req ImportRequest) (time.Time, bool, error) {
	if req.File == nil {
		return time.Time{}, false, apperr.Validation("no file provided")
	}
	name := strings.ToLower(strings.TrimSpace(req.Filename))
	if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") {
		return time.Time{}, false, apperr.Validation("file must be an Excel file (.xlsx or .xls)")
	}

	var violations []string

	startDate, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		violations = append(violations, "startDate must be a valid date (YYYY-MM-DD)")
	}

	overwrite := false
	if raw := strings.TrimSpace(req.OverwriteExisting); raw != "" {
		overwrite, err = strconv.ParseBool(raw)
		if err != nil {
			violations = append(violations, "overwriteExisting must be true or false")
		}
	}

	if len(violations) > 0 {
		return time.Time{}, false, apperr.Validation("invalid input parameters", violations...)
	}
	return startDate, overwrite, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.ProductSummary, error) {
	return s.store.ListProducts(ctx)
}
