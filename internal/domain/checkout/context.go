package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentMobileMoney  PaymentMethod = "mobile money"
	PaymentBankTransfer PaymentMethod = "bank transfer"
	PaymentCredit       PaymentMethod = "credit"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard, PaymentMobileMoney, PaymentBankTransfer, PaymentCredit:
		return PaymentMethod(s), nil
	}
	return "", domainErrors.ErrUnknownPaymentMethod
}

// Context holds the fields collected once per checkout. Credit-only fields
// stay zero for the other payment methods.
type Context struct {
	PaymentMethod PaymentMethod
	CustomerName  string
	Notes         string

	CreditorPhone  string
	InitialPayment decimal.Decimal
}

func NewContext() Context {
	return Context{
		PaymentMethod:  PaymentCash,
		InitialPayment: decimal.Zero,
	}
}

func (c *Context) IsCredit() bool {
	return c.PaymentMethod == PaymentCredit
}

// ValidateForSubmit checks the fields required before the credit-detail step.
// A credit sale without a customer to hold the debt against is rejected while
// the operator is still in the cart view.
func (c *Context) ValidateForSubmit() error {
	if c.IsCredit() && strings.TrimSpace(c.CustomerName) == "" {
		return domainErrors.NewMissingField("customer name")
	}
	return nil
}

// ValidateCreditDetails checks the fields collected in the credit-detail step:
// a non-blank creditor phone and an initial payment inside [0, cartTotal].
// Out-of-bound payments are an error echoing the bound, never clamped.
func (c *Context) ValidateCreditDetails(cartTotal decimal.Decimal) error {
	if strings.TrimSpace(c.CreditorPhone) == "" {
		return domainErrors.NewMissingField("creditor phone")
	}
	if c.InitialPayment.IsNegative() || c.InitialPayment.GreaterThan(cartTotal) {
		return domainErrors.NewInvalidAmount(c.InitialPayment, cartTotal)
	}
	return nil
}
