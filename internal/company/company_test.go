package company

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestRecordNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  Record
		expect Record
	}{
		{
			name:   "empty record gets defaults",
			input:  Record{},
			expect: DefaultRecord(),
		},
		{
			name:   "industry lower-cased and trimmed",
			input:  Record{Name: " Acme ", EmployeeSize: 10, Revenue: 20, Industry: "  Retail "},
			expect: Record{Name: "Acme", EmployeeSize: 10, Revenue: 20, Industry: "retail"},
		},
		{
			name:   "negative counts clamp to zero",
			input:  Record{Name: "Acme", EmployeeSize: -5, Revenue: -1, Industry: "retail"},
			expect: Record{Name: "Acme", Industry: "retail"},
		},
		{
			name:   "lower-cased sentinel restored",
			input:  Record{Name: "Acme", Industry: "no_industry_found"},
			expect: Record{Name: "Acme", Industry: NoIndustryFound},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.input.Normalize(); got != tt.expect {
				t.Fatalf("expected %+v, got %+v", tt.expect, got)
			}
		})
	}
}

func TestUpstreamErrorUnwrap(t *testing.T) {
	err := &UpstreamError{
		Kind:       ErrBackendUnavailable,
		Service:    "ollama",
		StatusCode: http.StatusBadGateway,
		Status:     "502 Bad Gateway",
	}

	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected error to match ErrBackendUnavailable")
	}
	if errors.Is(err, ErrProfileTransport) {
		t.Fatalf("did not expect error to match ErrProfileTransport")
	}
	if !strings.Contains(err.Error(), "502 Bad Gateway") {
		t.Fatalf("expected status in message, got %q", err.Error())
	}

	wrapped := &UpstreamError{Kind: ErrProfileTransport, Service: "wikipedia", Err: context.DeadlineExceeded}
	if !errors.Is(wrapped, context.DeadlineExceeded) {
		t.Fatalf("expected cause to be reachable")
	}
	if !errors.Is(wrapped, ErrProfileTransport) {
		t.Fatalf("expected kind to be reachable")
	}
}
