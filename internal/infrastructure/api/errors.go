package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
)

// errorBody is the shape backend error responses take. The backend has
// grown three generations of error envelopes; detail may be a plain
// string or a structured object.
type errorBody struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
	Action  string          `json:"action_suggestion"`
}

type errorDetail struct {
	Message string `json:"message"`
	Action  string `json:"action_suggestion"`
}

// decodeHTTPError maps a non-2xx response to a typed error. Inspection
// order: message field, string detail, detail.message, then a message
// derived from the status code.
func decodeHTTPError(status int, body []byte) *apperrors.AppError {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return apperrors.NewHTTPError(status, parsed.Message).WithAction(parsed.Action)
		}
		if len(parsed.Detail) > 0 {
			var detailStr string
			if err := json.Unmarshal(parsed.Detail, &detailStr); err == nil && detailStr != "" {
				return apperrors.NewHTTPError(status, detailStr)
			}
			var detail errorDetail
			if err := json.Unmarshal(parsed.Detail, &detail); err == nil && detail.Message != "" {
				return apperrors.NewHTTPError(status, detail.Message).WithAction(detail.Action)
			}
		}
	}
	return statusError(status)
}

// statusError derives a human-readable error from the status code alone.
func statusError(status int) *apperrors.AppError {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.NewHTTPError(status, "Your session has expired.").
			WithAction("Please sign in again.")
	case http.StatusForbidden:
		return apperrors.NewHTTPError(status, "You do not have permission to perform this action.")
	case http.StatusNotFound:
		return apperrors.NewHTTPError(status, "The requested resource was not found.")
	case http.StatusUnprocessableEntity:
		return apperrors.NewHTTPError(status, "Some fields are invalid.").
			WithAction("Review the submitted values and try again.")
	case http.StatusInternalServerError:
		return apperrors.NewHTTPError(status, "The server encountered an error.").
			WithAction("Please try again in a few minutes.")
	case http.StatusServiceUnavailable:
		return apperrors.NewHTTPError(status, "The service is temporarily unavailable.").
			WithAction("Please try again later.")
	}
	return apperrors.NewHTTPError(status, fmt.Sprintf("Request failed with HTTP %d.", status))
}
