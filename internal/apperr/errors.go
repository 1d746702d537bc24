package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrDuplicate is returned when an imported recipe already exists in the collection
var ErrDuplicate = errors.New("recipe is already in your collection")

// ValidationError represents missing or malformed request input
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError creates a ValidationError with a fixed message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NotFoundError is returned when an id has no matching document
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.Resource == "" {
		return "Recipe not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// StoreError wraps failures coming from the underlying database
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// UpstreamError represents a failed or misconfigured third-party call
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "upstream request failed"
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StatusCode maps an error from any layer onto the HTTP status the API returns
func StatusCode(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		upstream   *UpstreamError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		if upstream.Status >= 400 {
			return upstream.Status
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err
func Message(err error) string {
	var storeErr *StoreError
	if errors.As(err, &storeErr) && storeErr.Err != nil {
		return storeErr.Err.Error()
	}
	return err.Error()
}
