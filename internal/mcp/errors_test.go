package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"project", fmt.Errorf("lookup: %w", catalog.ErrProjectNotFound), "PROJECT_NOT_FOUND"},
		{"sponsor", catalog.ErrSponsorNotFound, "SPONSOR_NOT_FOUND"},
		{"not ready", catalog.ErrNotReady, "NOT_READY"},
		{"order", fmt.Errorf("%w: %q", catalog.ErrUnknownOrder, "Oldest"), "UNKNOWN_ORDER"},
		{"filter", fmt.Errorf("%w: bad", catalog.ErrInvalidFilter), "INVALID_FILTER"},
		{"not eligible", &rating.FeedbackError{Message: rating.MsgNotEligible, Err: rating.ErrNotEligible}, "NOT_ELIGIBLE"},
		{"missing comment", &rating.FeedbackError{Message: rating.MsgMissingComment, Err: rating.ErrMissingComment}, "VALIDATION_ERROR"},
		{"busy", &rating.FeedbackError{Message: rating.MsgBusy, Err: rating.ErrBusy}, "BUSY"},
		{"upstream", &rating.FeedbackError{Message: rating.MsgAddFailed, Err: rating.ErrSubmitFailed}, "UPSTREAM_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var apiErr *APIError
			require.ErrorAs(t, MapError(tc.err), &apiErr)
			require.Equal(t, tc.code, apiErr.Code)
		})
	}

	require.NoError(t, MapError(nil))
	boom := errors.New("boom")
	require.Same(t, boom, MapError(boom))
}

func TestMapError_FeedbackMessage(t *testing.T) {
	err := MapError(&rating.FeedbackError{Message: rating.MsgMissingRating, Err: rating.ErrMissingRating})
	require.Equal(t, "VALIDATION_ERROR: You must choose a rating.", err.Error())
}

func TestGetSessionID_Default(t *testing.T) {
	require.Equal(t, defaultSessionID, getSessionID(context.Background()))
	ctx := context.WithValue(context.Background(), sessionIDKey, "abc")
	require.Equal(t, "abc", getSessionID(ctx))
}

func TestClearActions(t *testing.T) {
	actions, err := clearActions(catalog.KindProjects, []string{"categories", "rating", "recent", "status"})
	require.NoError(t, err)
	require.Len(t, actions, 4)

	_, err = clearActions(catalog.KindProjects, []string{"query"})
	require.Error(t, err)

	_, err = clearActions(catalog.KindSponsors, []string{"rating"})
	require.Error(t, err)
}
