package rating

import "errors"

var (
	// ErrNotEligible indicates the voter has not delegated enough to leave feedback.
	ErrNotEligible = errors.New("voter not eligible for feedback")
	// ErrMissingRating indicates no rating was chosen.
	ErrMissingRating = errors.New("rating required")
	// ErrRatingOutOfRange indicates a rating outside 1 to 5.
	ErrRatingOutOfRange = errors.New("rating out of range")
	// ErrMissingComment indicates an empty comment.
	ErrMissingComment = errors.New("comment required")
	// ErrCommentTooLong indicates the comment exceeds MaxCommentLength.
	ErrCommentTooLong = errors.New("comment too long")
	// ErrFeedbackNotFound indicates the feedback entry doesn't exist.
	ErrFeedbackNotFound = errors.New("feedback not found")
	// ErrNotOwner indicates the voter did not write the feedback.
	ErrNotOwner = errors.New("feedback owned by another voter")
	// ErrBusy indicates a submission for the same form is still in flight.
	ErrBusy = errors.New("feedback submission in progress")
	// ErrSubmitFailed indicates storage rejected a new feedback entry.
	ErrSubmitFailed = errors.New("feedback submission failed")
	// ErrDeleteFailed indicates storage failed to delete a feedback entry.
	ErrDeleteFailed = errors.New("feedback deletion failed")
)

// User-facing messages.
const (
	MsgNotEligible    = "You must delegate more ICX to leave feedback."
	MsgMissingRating  = "You must choose a rating."
	MsgRatingRange    = "Your rating must be between 1 and 5 stars."
	MsgMissingComment = "You must enter a feedback comment."
	MsgCommentTooLong = "Your feedback comment is too long."
	MsgNotFound       = "Feedback not found."
	MsgNotOwner       = "You can only delete your own feedback."
	MsgBusy           = "Your feedback is still being submitted."
	MsgAddFailed      = "Failed adding feedback."
	MsgDeleteFailed   = "Failed deleting feedback."
)

// FeedbackError is a feedback failure carrying a message fit for the voter.
type FeedbackError struct {
	Message string
	Err     error
}

func (e *FeedbackError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *FeedbackError) Unwrap() error {
	return e.Err
}

func newFeedbackError(msg string, err error) *FeedbackError {
	return &FeedbackError{Message: msg, Err: err}
}
