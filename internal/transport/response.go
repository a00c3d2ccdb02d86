package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeDomainError maps service errors to a status and error code.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var fbErr *rating.FeedbackError
	if errors.As(err, &fbErr) {
		status, code := feedbackStatus(fbErr)
		if status >= http.StatusInternalServerError {
			logger.Error("feedback mutation failed", "error", err)
		}
		writeJSONError(w, status, code, fbErr.Message)
		return
	}

	switch {
	case errors.Is(err, catalog.ErrProjectNotFound),
		errors.Is(err, catalog.ErrSponsorNotFound),
		errors.Is(err, rating.ErrFeedbackNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, catalog.ErrNotReady):
		writeJSONError(w, http.StatusServiceUnavailable, "not_ready", "catalog is still loading")
	case errors.Is(err, catalog.ErrInvalidFilter), errors.Is(err, catalog.ErrUnknownOrder):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		logger.Error("request failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func feedbackStatus(err *rating.FeedbackError) (int, string) {
	switch {
	case errors.Is(err, rating.ErrNotEligible), errors.Is(err, rating.ErrNotOwner):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, rating.ErrMissingRating),
		errors.Is(err, rating.ErrRatingOutOfRange),
		errors.Is(err, rating.ErrMissingComment),
		errors.Is(err, rating.ErrCommentTooLong):
		return http.StatusUnprocessableEntity, "validation_error"
	case errors.Is(err, rating.ErrFeedbackNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, rating.ErrBusy):
		return http.StatusConflict, "busy"
	default:
		return http.StatusBadGateway, "upstream_error"
	}
}
