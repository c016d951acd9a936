package response

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
)

func TestMapDomainError_OutOfStockKeepsMessage(t *testing.T) {
	err := domainErrors.NewOutOfStock("Eggs", decimal.NewFromInt(5))

	status, resp := MapDomainError(err)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if resp.Message != "Not enough stock. Available: 5" {
		t.Errorf("expected engine message passed through, got %q", resp.Message)
	}
}

func TestMapDomainError_MissingFieldNamesTheField(t *testing.T) {
	err := domainErrors.NewMissingField("customer name")

	status, resp := MapDomainError(err)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if resp.Field != "customer name" {
		t.Errorf("expected focus field, got %q", resp.Field)
	}
}

func TestMapDomainError_InvalidAmountKeepsBound(t *testing.T) {
	err := domainErrors.NewInvalidAmount(decimal.NewFromInt(55), decimal.NewFromInt(50))

	status, resp := MapDomainError(err)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if resp.Message != "Initial payment must be between 0 and 50" {
		t.Errorf("expected bound echoed, got %q", resp.Message)
	}
}

func TestMapDomainError_Sentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domainErrors.ErrSessionNotFound, http.StatusNotFound},
		{domainErrors.ErrProductNotFound, http.StatusNotFound},
		{domainErrors.ErrLineNotFound, http.StatusNotFound},
		{domainErrors.ErrCartEmpty, http.StatusBadRequest},
		{domainErrors.ErrPackNotSellable, http.StatusBadRequest},
		{domainErrors.ErrUnknownPaymentMethod, http.StatusBadRequest},
		{domainErrors.ErrInvalidSessionState, http.StatusConflict},
	}

	for _, tt := range tests {
		status, _ := MapDomainError(tt.err)
		if status != tt.status {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.status, status)
		}
	}
}

func TestMapDomainError_WrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", domainErrors.ErrSessionNotFound)

	status, _ := MapDomainError(wrapped)
	if status != http.StatusNotFound {
		t.Errorf("expected wrapped sentinel mapped, got %d", status)
	}
}

func TestMapDomainError_UnknownIsInternal(t *testing.T) {
	status, resp := MapDomainError(fmt.Errorf("boom"))
	if status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", status)
	}
	if resp.Message != "Internal server error" {
		t.Errorf("internal errors must not leak details, got %q", resp.Message)
	}
}
