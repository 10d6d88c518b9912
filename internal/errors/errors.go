package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// FieldError is a single field-level failure reported by the remote API.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// APIError is returned when the remote API answered with a non-2xx status.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte

	// Detail is the "detail" member of the error body when it is a plain string.
	Detail string
	// FieldErrors is populated when "detail" is a list of field-level failures.
	FieldErrors []FieldError
}

// NewAPIError builds an APIError and extracts the detail payload from body.
func NewAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       body,
	}
	if !gjson.ValidBytes(body) {
		return e
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.Type == gjson.String:
		e.Detail = detail.Str
	case detail.IsArray():
		for _, item := range detail.Array() {
			e.FieldErrors = append(e.FieldErrors, parseFieldError(item))
		}
	}
	return e
}

func parseFieldError(item gjson.Result) FieldError {
	var field string
	if loc := item.Get("loc"); loc.IsArray() {
		parts := make([]string, 0, len(loc.Array()))
		for _, p := range loc.Array() {
			parts = append(parts, p.String())
		}
		field = strings.Join(parts, ".")
	} else if f := item.Get("field"); f.Exists() {
		field = f.String()
	}

	msg := item.Get("msg").String()
	if msg == "" {
		msg = item.Get("message").String()
	}
	return FieldError{Field: field, Message: msg}
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: status=%d detail=%s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: status=%d body=%s", e.Method, e.Path, e.StatusCode, string(e.Body))
}

// NetworkError is returned when no response was received from the remote API.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: no response: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Console state errors
var (
	ErrNotAuthenticated = &AuthenticationError{Message: "not authenticated"}
	ErrTenantNotFound   = &NotFoundError{Entity: "tenant"}
	ErrInvalidTenantID  = &ValidationError{Field: "tenant_id", Message: "must be a positive integer"}
	ErrMissingID        = &ValidationError{Field: "id", Message: "is required"}
)

// Configuration errors
var (
	ErrAPIBaseURLMissing = &ConfigurationError{Message: "API_BASE_URL is required"}
)

// Helper Functions

// StatusCode returns the HTTP status carried by err, or 0 when there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Detail returns the string detail carried by an APIError in err, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// IsNotFound checks if an error is a NotFoundError or a 404 from the API
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr) || StatusCode(err) == http.StatusNotFound
}

// IsValidation checks if an error is a ValidationError or a 400/422 from the API
func IsValidation(err error) bool {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return true
	}
	status := StatusCode(err)
	return status == http.StatusBadRequest || status == http.StatusUnprocessableEntity
}

// IsAuthentication checks if an error is an AuthenticationError or a 401 from the API
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr) || StatusCode(err) == http.StatusUnauthorized
}

// IsNetwork checks if no response was received
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsConfiguration checks if an error is a ConfigurationError
func IsConfiguration(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}
