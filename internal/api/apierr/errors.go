package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeMissingField        = "MISSING_FIELD"
	CodePasswordMismatch    = "PASSWORD_MISMATCH"
	CodePasswordTooLong     = "PASSWORD_TOO_LONG"
	CodeInvalidIdentifier   = "INVALID_IDENTIFIER"
	CodeDuplicateIdentifier = "DUPLICATE_IDENTIFIER"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeBadCredential       = "BAD_CREDENTIAL"
	CodeForbidden           = "FORBIDDEN"
	CodeCharacterNotFound   = "CHARACTER_NOT_FOUND"
	CodeItemNotFound        = "ITEM_NOT_FOUND"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError. Unknown errors become a
// generic 500 so driver detail never reaches the caller.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Validation
	case errors.Is(err, model.ErrMissingField):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingField, "Required field is missing"}}
	case errors.Is(err, model.ErrPasswordMismatch):
		return &httpError{http.StatusBadRequest, APIError{CodePasswordMismatch, "Password and confirmation do not match"}}
	case errors.Is(err, model.ErrPasswordTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodePasswordTooLong, "Password must be at most 72 bytes"}}
	case errors.Is(err, model.ErrInvalidID):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidIdentifier, "Identifier must not contain '/'"}}

	// Conflicts
	case errors.Is(err, model.ErrAccountExists):
		return &httpError{http.StatusBadRequest, APIError{CodeDuplicateIdentifier, "Account identifier already in use"}}
	case errors.Is(err, model.ErrCharacterExists):
		return &httpError{http.StatusBadRequest, APIError{CodeDuplicateIdentifier, "Character identifier already in use"}}
	case errors.Is(err, model.ErrItemExists):
		return &httpError{http.StatusBadRequest, APIError{CodeDuplicateIdentifier, "Item code already in use"}}

	// Authentication
	case errors.Is(err, model.ErrUnauthenticated):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
	case errors.Is(err, auth.ErrTokenExpired):
		return &httpError{http.StatusUnauthorized, APIError{CodeTokenExpired, "Token expired"}}
	case errors.Is(err, auth.ErrTokenMalformed), errors.Is(err, auth.ErrTokenInvalidSignature):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid token"}}
	case errors.Is(err, auth.ErrUnknownAccount), errors.Is(err, model.ErrAccountNotFound):
		return &httpError{http.StatusUnauthorized, APIError{CodeAccountNotFound, "Account not found"}}
	case errors.Is(err, auth.ErrBadCredential):
		return &httpError{http.StatusUnauthorized, APIError{CodeBadCredential, "Incorrect password"}}

	// Authorization
	case errors.Is(err, model.ErrNotOwner):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Only the owner can perform this action"}}

	// Not found
	case errors.Is(err, model.ErrCharacterNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCharacterNotFound, "Character not found"}}
	case errors.Is(err, model.ErrItemNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeItemNotFound, "Item not found"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewMissingFieldError names the absent field
func NewMissingFieldError(field string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeMissingField, fmt.Sprintf("%s is required", field)}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewNotFoundError is returned for unknown routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
}

// NewMethodNotAllowedError is returned when a route exists but not for the method
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{CodeMethodNotAllowed, "Method not allowed"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
