package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tradex/internal/domain"
)

func newErrorMappingServer() *Server {
	return NewServer(nil, nil, nil, nil, zap.NewNop())
}

func TestHandleDomainError_SentinelMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   errorCode
	}{
		{domain.ErrInvalidReceipt, http.StatusBadRequest, codeInvalidReceipt},
		{domain.ErrReceiptMismatch, http.StatusForbidden, codeReceiptMismatch},
		{domain.ErrVerificationUnavailable, http.StatusServiceUnavailable, codeVerificationUnavailable},
		{domain.ErrUnknownCategory, http.StatusBadRequest, codeUnknownCategory},
		{domain.ErrSchemaUnavailable, http.StatusServiceUnavailable, codeSchemaUnavailable},
		{domain.ErrListingNotFound, http.StatusNotFound, codeListingNotFound},
		{domain.ErrPostNotFound, http.StatusNotFound, codePostNotFound},
		{domain.ErrPaymentRequired, http.StatusPaymentRequired, codePaymentRequired},
	}

	s := newErrorMappingServer()
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		s.handleDomainError(rr, fmt.Errorf("handler: %w", tt.err))

		if rr.Code != tt.status {
			t.Errorf("%v: got status %d, want %d", tt.err, rr.Code, tt.status)
		}
		var resp errorResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("%v: decode response: %v", tt.err, err)
		}
		if resp.Code != tt.code {
			t.Errorf("%v: got code %s, want %s", tt.err, resp.Code, tt.code)
		}
	}
}

func TestHandleDomainError_FilterValidationCarriesFieldAndAllowed(t *testing.T) {
	s := newErrorMappingServer()
	rr := httptest.NewRecorder()

	err := domain.NewFilterValidationError("condition", "unknown value", "New", "Used")
	s.handleDomainError(rr, err)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != codeInvalidFilter {
		t.Errorf("got code %s, want %s", resp.Code, codeInvalidFilter)
	}
	if resp.Field != "condition" {
		t.Errorf("got field %q, want condition", resp.Field)
	}
	if len(resp.Allowed) != 2 || resp.Allowed[1] != "Used" {
		t.Errorf("got allowed %v, want [New Used]", resp.Allowed)
	}
}

func TestHandleDomainError_UnknownErrorIs500(t *testing.T) {
	s := newErrorMappingServer()
	rr := httptest.NewRecorder()

	s.handleDomainError(rr, errors.New("connection reset"))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "internal error" {
		t.Errorf("internals must not leak, got %q", resp.Message)
	}
}
