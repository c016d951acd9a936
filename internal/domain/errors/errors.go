package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrPackNotSellable      = errors.New("product cannot be sold by pack")
	ErrLineNotFound         = errors.New("cart line not found")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrSessionNotFound      = errors.New("session not found")
	ErrInvalidSessionState  = errors.New("operation not allowed in current checkout state")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrSaleAlreadySubmitted = errors.New("sale already submitted")
)

// OutOfStockError reports a piece-equivalent requirement that exceeds the
// product's availability. Available is the stock floor-clamped to zero.
type OutOfStockError struct {
	ProductName string
	Available   decimal.Decimal
}

func NewOutOfStock(productName string, available decimal.Decimal) *OutOfStockError {
	return &OutOfStockError{ProductName: productName, Available: available}
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("Not enough stock. Available: %s", e.Available.String())
}

// MissingFieldError reports a required checkout field left blank.
type MissingFieldError struct {
	Field string
}

func NewMissingField(field string) *MissingFieldError {
	return &MissingFieldError{Field: field}
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// InvalidAmountError reports an initial payment outside [0, cart total].
type InvalidAmountError struct {
	Amount decimal.Decimal
	Max    decimal.Decimal
}

func NewInvalidAmount(amount, max decimal.Decimal) *InvalidAmountError {
	return &InvalidAmountError{Amount: amount, Max: max}
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("Initial payment must be between 0 and %s", e.Max.String())
}

func IsOutOfStock(err error) bool {
	var target *OutOfStockError
	return errors.As(err, &target)
}

func IsMissingField(err error) bool {
	var target *MissingFieldError
	return errors.As(err, &target)
}

func IsInvalidAmount(err error) bool {
	var target *InvalidAmountError
	return errors.As(err, &target)
}
