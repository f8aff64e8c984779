package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"conflict", Conflictf("duplicate row"), http.StatusConflict},
		{"not found", NotFound("no such product"), http.StatusNotFound},
		{"wrapped validation", fmt.Errorf("import: %w", Validation("bad input")), http.StatusBadRequest},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Status(tc.err); got != tc.want {
				t.Fatalf("Status() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMessage_RedactsUnknownErrors(t *testing.T) {
	t.Parallel()

	if got := Message(errors.New("pq: connection refused")); got != "internal server error" {
		t.Fatalf("Message() = %q", got)
	}
	if got := Message(Conflictf("duplicate data found for product %s", "0000001")); got != "duplicate data found for product 0000001" {
		t.Fatalf("Message() = %q", got)
	}
}

func TestValidationError_ErrorAndDetails(t *testing.T) {
	t.Parallel()

	err := Validation("excel parsing failed", "Row 3: product name is required", "Row 4: opening inventory must be a number")
	if err.Error() != "excel parsing failed: 2 issue(s)" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if details := Details(err); len(details) != 2 {
		t.Fatalf("Details() = %v", details)
	}
	if Details(errors.New("boom")) != nil {
		t.Fatalf("details expected only for validation errors")
	}

	bare := Validation("no file provided")
	if bare.Error() != "no file provided" {
		t.Fatalf("Error() = %q", bare.Error())
	}
}
