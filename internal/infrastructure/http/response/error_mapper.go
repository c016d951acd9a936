package response

import (
	"errors"
	"net/http"

	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
)

type ErrorMapping struct {
	HTTPStatus int
	Status     Status
	Message    string
}

var errorMappings = map[error]ErrorMapping{
	domainErrors.ErrProductNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Product not found",
	},
	domainErrors.ErrLineNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Line not found in cart",
	},
	domainErrors.ErrSessionNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Session not found",
	},
	domainErrors.ErrPackNotSellable: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Product cannot be sold by pack",
	},
	domainErrors.ErrCartEmpty: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Cart is empty",
	},
	domainErrors.ErrUnknownPaymentMethod: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Unknown payment method",
	},
	domainErrors.ErrInvalidSessionState: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Operation not allowed in current session state",
	},
	domainErrors.ErrSaleAlreadySubmitted: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Sale already submitted",
	},
}

// MapDomainError translates domain errors to HTTP responses. The typed
// engine errors keep their own Error() text: the terminal shows it verbatim
// ("Not enough stock. Available: 4"), so it must survive the mapping intact.
func MapDomainError(err error) (int, *ErrorResponse) {
	var missingField *domainErrors.MissingFieldError
	if errors.As(err, &missingField) {
		resp := Error(StatusValidationError, missingField.Error())
		resp.Field = missingField.Field
		return http.StatusBadRequest, resp
	}

	if domainErrors.IsOutOfStock(err) || domainErrors.IsInvalidAmount(err) {
		return http.StatusBadRequest, Error(StatusError, err.Error())
	}

	for domainErr, mapping := range errorMappings {
		if errors.Is(err, domainErr) {
			return mapping.HTTPStatus, Error(mapping.Status, mapping.Message)
		}
	}

	return http.StatusInternalServerError, Error(StatusInternalError, "Internal server error")
}

func WriteDomainError(w http.ResponseWriter, err error) {
	statusCode, errorResponse := MapDomainError(err)
	WriteJSON(w, statusCode, errorResponse)
}
