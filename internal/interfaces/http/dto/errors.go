package dto

import (
	"errors"
	"net/http"

	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>. Domain specific codes such as
// DRAFT_ALREADY_EXISTS are returned unchanged.

// General error codes
const (
	ErrCodeInternal    = "ERR_INTERNAL"
	ErrCodePersistence = "ERR_PERSISTENCE"
)

// Validation error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "ERR_DUPLICATE_REQUEST"
	ErrCodeRequestTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodePersistence: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,
	ErrCodeRequestTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	// catalog
	"PRODUCT_NOT_FOUND":    http.StatusNotFound,
	"STORE_NOT_FOUND":      http.StatusNotFound,
	"CATEGORY_NOT_FOUND":   http.StatusNotFound,
	"INVALID_PRODUCT":      http.StatusBadRequest,
	"INVALID_STORE":        http.StatusBadRequest,
	"INVALID_CATEGORY":     http.StatusBadRequest,
	"DUPLICATE_STORE_CODE": http.StatusConflict,
	"PRODUCT_IN_USE":       http.StatusConflict,

	// inventory
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_COST":           http.StatusBadRequest,
	"MISSING_STORE":          http.StatusBadRequest,
	"COUNT_NOT_FOUND":        http.StatusNotFound,
	"ILLEGAL_TRANSITION":     http.StatusUnprocessableEntity,
	"UNKNOWN_PRODUCT":        http.StatusUnprocessableEntity,
	"CANNOT_DELETE_APPROVED": http.StatusUnprocessableEntity,
	"COUNT_WITHOUT_STORE":    http.StatusUnprocessableEntity,
	"DRAFT_ALREADY_EXISTS":   http.StatusConflict,

	// report
	"REPORT_NOT_FOUND": http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// sharedErrorCodeMapping maps the generic shared.DomainError codes to the
// ERR_ namespace
var sharedErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"PERSISTENCE_FAILURE":  ErrCodePersistence,
	"DUPLICATE_REQUEST":    ErrCodeDuplicateRequest,
}

// NormalizeErrorCode converts a generic domain code to the ERR_ format.
// Other codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := sharedErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}

// APIError is an error resolved to what the client is shown
type APIError struct {
	Status     int
	Code       string
	Message    string
	ExistingID string
}

// FromError resolves err to its HTTP representation. Wrapper errors such as
// ENTRY_RECORDING_FAILED take the code and status of the innermost domain
// error; the message keeps both. Errors without a domain error in the chain
// become ERR_INTERNAL without exposing their text.
func FromError(err error) APIError {
	inner, ok := shared.InnermostDomainError(err)
	if !ok {
		return APIError{
			Status:  http.StatusInternalServerError,
			Code:    ErrCodeInternal,
			Message: "An unexpected error occurred",
		}
	}

	code := NormalizeErrorCode(inner.Code)
	apiErr := APIError{
		Status:  GetHTTPStatus(code),
		Code:    code,
		Message: inner.Message,
	}

	var outer *shared.DomainError
	if errors.As(err, &outer) && outer != inner {
		apiErr.Message = outer.Message + ": " + inner.Message
	}

	var draftErr *inventory.DraftExistsError
	if errors.As(err, &draftErr) {
		apiErr.ExistingID = draftErr.CountID.String()
	}
	return apiErr
}
