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
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")

	// ErrInsufficientStock is the only expected/recoverable stock error:
	// callers surface it to the user as "not enough stock available".
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")

	// ErrInvalidReservationState signals a transition attempted on a
	// terminal or unknown reservation. Always caller misuse or a lost race.
	ErrInvalidReservationState = NewDomainError("INVALID_RESERVATION_STATE", "Reservation is not in a state that allows this operation")

	// ErrReservationInvariantViolation signals that reserved quantity would
	// go negative or exceed on-hand quantity. Always a bug; never corrected
	// silently.
	ErrReservationInvariantViolation = NewDomainError("RESERVATION_INVARIANT_VIOLATION", "Reserved quantity invariant violated")

	// ErrInvalidComboDefinition signals a malformed combo recipe: empty,
	// non-positive ingredient quantity, nested combo, or a cycle.
	ErrInvalidComboDefinition = NewDomainError("INVALID_COMBO_DEFINITION", "Combo definition is invalid")
)
