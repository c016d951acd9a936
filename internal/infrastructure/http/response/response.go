package response

import (
	"encoding/json"
	"net/http"
)

type Status string

const (
	StatusSuccess         Status = "success"
	StatusError           Status = "error"
	StatusValidationError Status = "validation_error"
	StatusNotFound        Status = "not_found"
	StatusConflict        Status = "conflict"
	StatusInternalError   Status = "internal_error"
)

type BaseResponse struct {
	Message string `json:"message,omitempty"`
}

type DataResponse[T any] struct {
	BaseResponse
	Data T `json:"data,omitempty"`
}

// ErrorResponse carries the operator-facing message verbatim. Field names the
// input the terminal should focus when the error is a missing required field.
type ErrorResponse struct {
	BaseResponse
	Field string `json:"field,omitempty"`
}

type ValidationErrorResponse struct {
	BaseResponse
	Errors map[string]string `json:"errors,omitempty"`
}

func Success[T any](data T) *DataResponse[T] {
	return &DataResponse[T]{
		Data: data,
	}
}

func Error(status Status, message string) *ErrorResponse {
	return &ErrorResponse{
		BaseResponse: BaseResponse{
			Message: message,
		},
	}
}

func ValidationError(message string, errors map[string]string) *ValidationErrorResponse {
	return &ValidationErrorResponse{
		BaseResponse: BaseResponse{
			Message: message,
		},
		Errors: errors,
	}
}

func WriteJSON(w http.ResponseWriter, statusCode int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func WriteSuccess[T any](w http.ResponseWriter, data T) {
	WriteJSON(w, http.StatusOK, Success(data))
}

func WriteError(w http.ResponseWriter, statusCode int, status Status, message string) {
	WriteJSON(w, statusCode, Error(status, message))
}

func WriteValidationError(w http.ResponseWriter, message string, errors map[string]string) {
	WriteJSON(w, http.StatusBadRequest, ValidationError(message, errors))
}
