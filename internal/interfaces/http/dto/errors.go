package dto

import "net/http"

// Error code constants, format ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"

	// ErrCodeInsufficientStock is the recoverable reservation outcome:
	// the caller asked for more than is available.
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"

	// ErrCodeInvalidReservationState is returned when a transition targets
	// a reservation already in a terminal state.
	ErrCodeInvalidReservationState = "ERR_INVALID_RESERVATION_STATE"

	// ErrCodeReservationInvariant indicates corrupted reserved quantities.
	// Surfaces as a server error because it is always a bug.
	ErrCodeReservationInvariant = "ERR_RESERVATION_INVARIANT"

	// ErrCodeInvalidComboDefinition covers empty, nested, or cyclic recipes
	ErrCodeInvalidComboDefinition = "ERR_INVALID_COMBO_DEFINITION"

	// ErrCodeNotACombo is returned when capacity is requested for a plain product
	ErrCodeNotACombo = "ERR_NOT_A_COMBO"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:            http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:            http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:       http.StatusUnprocessableEntity,
	ErrCodeInvalidReservationState: http.StatusUnprocessableEntity,
	ErrCodeInvalidComboDefinition:  http.StatusUnprocessableEntity,
	ErrCodeNotACombo:               http.StatusUnprocessableEntity,

	ErrCodeReservationInvariant: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code, defaulting
// to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to HTTP error codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                       ErrCodeNotFound,
	"ALREADY_EXISTS":                  ErrCodeAlreadyExists,
	"INVALID_INPUT":                   ErrCodeInvalidInput,
	"CONCURRENCY_CONFLICT":            ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":              ErrCodeInsufficientStock,
	"INVALID_RESERVATION_STATE":       ErrCodeInvalidReservationState,
	"RESERVATION_INVARIANT_VIOLATION": ErrCodeReservationInvariant,
	"INVALID_COMBO_DEFINITION":        ErrCodeInvalidComboDefinition,
	"NOT_A_COMBO":                     ErrCodeNotACombo,
}

// NormalizeErrorCode converts a domain error code to the HTTP error code
// format. Codes already in the new format or unknown pass through as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := domainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
