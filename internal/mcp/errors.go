package mcp

import (
	"errors"
	"fmt"

	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

var errUnauthorized = &APIError{
	Code:         "UNAUTHORIZED",
	Message:      "a voter is required",
	RecoveryHint: "Send a bearer token, or pass voter when auth is disabled",
}

// MapError maps domain errors to MCP error codes. Errors it does not
// recognise come back unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var fbErr *rating.FeedbackError
	if errors.As(err, &fbErr) {
		return feedbackError(fbErr)
	}

	switch {
	case errors.Is(err, catalog.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Use search_projects to find IDs"}
	case errors.Is(err, catalog.ErrSponsorNotFound):
		return &APIError{Code: "SPONSOR_NOT_FOUND", Message: "sponsor not found", RecoveryHint: "Use search_sponsors to find addresses"}
	case errors.Is(err, catalog.ErrNotReady):
		return &APIError{Code: "NOT_READY", Message: "catalog still loading", RecoveryHint: "Retry shortly"}
	case errors.Is(err, catalog.ErrUnknownOrder):
		return &APIError{Code: "UNKNOWN_ORDER", Message: err.Error(), RecoveryHint: "Read preps://docs/orderings"}
	case errors.Is(err, catalog.ErrInvalidFilter):
		return &APIError{Code: "INVALID_FILTER", Message: err.Error(), RecoveryHint: "Read preps://docs/filters"}
	case errors.Is(err, catalog.ErrInvalidLimit):
		return &APIError{Code: "INVALID_FILTER", Message: err.Error()}
	default:
		return err
	}
}

func feedbackError(err *rating.FeedbackError) *APIError {
	code := "UPSTREAM_ERROR"
	switch {
	case errors.Is(err, rating.ErrNotEligible):
		code = "NOT_ELIGIBLE"
	case errors.Is(err, rating.ErrNotOwner):
		code = "NOT_OWNER"
	case errors.Is(err, rating.ErrMissingRating), errors.Is(err, rating.ErrRatingOutOfRange), errors.Is(err, rating.ErrMissingComment), errors.Is(err, rating.ErrCommentTooLong):
		code = "VALIDATION_ERROR"
	case errors.Is(err, rating.ErrFeedbackNotFound):
		code = "FEEDBACK_NOT_FOUND"
	case errors.Is(err, rating.ErrBusy):
		code = "BUSY"
	}
	return &APIError{Code: code, Message: err.Message}
}
