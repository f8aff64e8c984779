package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"daystock/internal/apperr"
	"daystock/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// UploadExcel ingests one spreadsheet: multipart fields file,
// startDate (YYYY-MM-DD) and overwriteExisting (true/false).
func (h *Handler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeAppError(w, apperr.Validation("failed to parse multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeAppError(w, apperr.Validation("no file provided"))
		return
	}
	defer file.Close()

	result, err := h.svc.Import(r.Context(), service.ImportRequest{
		Filename:          header.Filename,
		File:              file,
		StartDate:         r.FormValue("startDate"),
		OverwriteExisting: r.FormValue("overwriteExisting"),
		UploadedBy:        "user",
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// Metrics serves the dashboard chart feed: per-product daily series
// filtered by products (csv of ids), startDate and endDate.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	productIDs, err := parseIDList(query.Get("products"))
	if err != nil {
		writeAppError(w, apperr.Validation(err.Error()))
		return
	}
	from, err := parseOptionalDate(query.Get("startDate"))
	if err != nil {
		writeAppError(w, apperr.Validation("startDate must be a valid date (YYYY-MM-DD)"))
		return
	}
	to, err := parseOptionalDate(query.Get("endDate"))
	if err != nil {
		writeAppError(w, apperr.Validation("endDate must be a valid date (YYYY-MM-DD)"))
		return
	}

	series, err := h.svc.MetricSeries(r.Context(), productIDs, from, to)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": series, "count": len(series)})
}

func parseIDList(raw string) ([]int64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid product id: %s", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeAppError maps the error taxonomy to HTTP statuses. Internal
// errors are logged with full detail and redacted for the caller.
func writeAppError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		writeJSON(w, status, map[string]any{"error": "internal server error"})
		return
	}

	payload := map[string]any{"error": apperr.Message(err)}
	if details := apperr.Details(err); len(details) > 0 {
		payload["details"] = details
	}
	writeJSON(w, status, payload)
}
