package checkout

import (
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
)

func TestParsePaymentMethod(t *testing.T) {
	for _, valid := range []string{"cash", "card", "mobile money", "bank transfer", "credit"} {
		if _, err := ParsePaymentMethod(valid); err != nil {
			t.Errorf("%q: unexpected error: %v", valid, err)
		}
	}

	if _, err := ParsePaymentMethod("cheque"); err != domainErrors.ErrUnknownPaymentMethod {
		t.Errorf("expected ErrUnknownPaymentMethod, got %v", err)
	}
}

func TestValidateForSubmit_CreditNeedsCustomer(t *testing.T) {
	ctx := NewContext()
	ctx.PaymentMethod = PaymentCredit

	err := ctx.ValidateForSubmit()
	if !domainErrors.IsMissingField(err) {
		t.Fatalf("expected missing-field error, got %v", err)
	}

	ctx.CustomerName = "   "
	if err := ctx.ValidateForSubmit(); !domainErrors.IsMissingField(err) {
		t.Errorf("expected blank-after-trim name rejected, got %v", err)
	}

	ctx.CustomerName = "Ama"
	if err := ctx.ValidateForSubmit(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateForSubmit_NonCreditIgnoresCustomer(t *testing.T) {
	ctx := NewContext()
	ctx.PaymentMethod = PaymentCash

	if err := ctx.ValidateForSubmit(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateCreditDetails(t *testing.T) {
	total := decimal.NewFromInt(50)

	ctx := NewContext()
	ctx.PaymentMethod = PaymentCredit
	ctx.CustomerName = "Ama"

	if err := ctx.ValidateCreditDetails(total); !domainErrors.IsMissingField(err) {
		t.Errorf("expected blank phone rejected, got %v", err)
	}

	ctx.CreditorPhone = "024 555 1234"

	ctx.InitialPayment = decimal.RequireFromString("55")
	err := ctx.ValidateCreditDetails(total)
	if !domainErrors.IsInvalidAmount(err) {
		t.Fatalf("expected invalid-amount error, got %v", err)
	}
	if err.Error() != "Initial payment must be between 0 and 50" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	ctx.InitialPayment = decimal.RequireFromString("-1")
	if err := ctx.ValidateCreditDetails(total); !domainErrors.IsInvalidAmount(err) {
		t.Errorf("expected negative payment rejected, got %v", err)
	}

	// Both bounds are inclusive.
	for _, ok := range []string{"0", "50", "25.75"} {
		ctx.InitialPayment = decimal.RequireFromString(ok)
		if err := ctx.ValidateCreditDetails(total); err != nil {
			t.Errorf("payment %s: unexpected error: %v", ok, err)
		}
	}
}
