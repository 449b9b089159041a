package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient material stock available")
	ErrInvalidCoupon       = NewDomainError("INVALID_COUPON", "Coupon is invalid or not applicable")
	ErrCouponExhausted     = NewDomainError("COUPON_EXHAUSTED", "Coupon usage limit has been reached")
	ErrAlreadySettled      = NewDomainError("ALREADY_SETTLED", "Referral has already been settled")
	ErrAlreadyPaid         = NewDomainError("ALREADY_PAID", "Installment has already been paid")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
