package dto

import "net/http"

// Error codes surfaced by the API. Domain error codes map onto these
// directly, so handlers translate a DomainError without rewriting it.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"

	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"

	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeInvalidCoupon     = "INVALID_COUPON"
	ErrCodeCouponExhausted   = "COUPON_EXHAUSTED"
	ErrCodeAlreadySettled    = "ALREADY_SETTLED"
	ErrCodeAlreadyPaid       = "ALREADY_PAID"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeInvalidCoupon:     http.StatusUnprocessableEntity,
	ErrCodeCouponExhausted:   http.StatusConflict,
	ErrCodeAlreadySettled:    http.StatusConflict,
	ErrCodeAlreadyPaid:       http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
