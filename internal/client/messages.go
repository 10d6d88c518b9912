package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "freeswitch-admin-console/internal/errors"
)

// LoadingKey identifies the "processing" message shown while a write is in flight.
const LoadingKey = "api-loading"

const (
	MsgProcessing       = "Processing..."
	MsgCreated          = "Created successfully"
	MsgUpdated          = "Updated successfully"
	MsgDeleted          = "Deleted successfully"
	MsgCompleted        = "Operation completed successfully"
	MsgBadRequest       = "Bad request. Please check your input."
	MsgNotFound         = "Resource not found."
	MsgValidation       = "Validation error occurred."
	MsgServerError      = "Internal server error. Please try again later."
	MsgNetworkError     = "Network error. Please check your connection."
	MsgRequestConfig    = "Request configuration error"
	MsgUnexpected       = "An unexpected error occurred."
	msgOtherStatusFmt   = "Server error: %d"
	fieldErrorSeparator = ", "
)

// isRead reports whether method is a read. Reads show neither the processing
// nor the success message.
func isRead(method string) bool {
	return method == http.MethodGet
}

// SuccessMessage returns the text shown after a successful write.
func SuccessMessage(method string) string {
	switch strings.ToUpper(method) {
	case http.MethodPost:
		return MsgCreated
	case http.MethodPut, http.MethodPatch:
		return MsgUpdated
	case http.MethodDelete:
		return MsgDeleted
	default:
		return MsgCompleted
	}
}

// ErrorMessage classifies err and returns the text to show. The boolean is
// false when no message should be shown at all.
func ErrorMessage(err error) (string, bool) {
	var netErr *apperrors.NetworkError
	if errors.As(err, &netErr) {
		return MsgNetworkError, true
	}

	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) {
		return MsgUnexpected, true
	}

	switch apiErr.StatusCode {
	case http.StatusBadRequest:
		if apiErr.Detail != "" {
			return apiErr.Detail, true
		}
		return MsgBadRequest, true
	case http.StatusUnauthorized, http.StatusForbidden:
		// Inert until tenant-scoped authorization is settled: no message, no
		// session change.
		return "", false
	case http.StatusNotFound:
		return MsgNotFound, true
	case http.StatusUnprocessableEntity:
		if len(apiErr.FieldErrors) > 0 {
			parts := make([]string, len(apiErr.FieldErrors))
			for i, fe := range apiErr.FieldErrors {
				parts[i] = fe.String()
			}
			return strings.Join(parts, fieldErrorSeparator), true
		}
		if apiErr.Detail != "" {
			return apiErr.Detail, true
		}
		return MsgValidation, true
	case http.StatusInternalServerError:
		return MsgServerError, true
	default:
		return fmt.Sprintf(msgOtherStatusFmt, apiErr.StatusCode), true
	}
}
