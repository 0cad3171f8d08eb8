package domain

// ValidationError marks a request that violates a business rule. The API
// layer maps it to a 400 response; state is left unchanged.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError wraps a rule-violation message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// ErrStockBelowZero is returned when a decrease would drive a medicine's
// quantity negative. The quantity floor is a hard invariant, never clamped.
var ErrStockBelowZero = NewValidationError("stock cannot go below zero")
