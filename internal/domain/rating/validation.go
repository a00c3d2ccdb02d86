package rating

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxCommentLength bounds a feedback comment in characters.
const MaxCommentLength = 2000

var validate = validator.New()

type feedbackInput struct {
	Rating  int    `validate:"required,min=1,max=5"`
	Comment string `validate:"required"`
}

// ValidateFeedback checks eligibility, then the rating, then the comment.
// The first failure is returned as a *FeedbackError.
func ValidateFeedback(voter Voter, rating int, comment string) error {
	if !voter.CanSubmitFeedback {
		return newFeedbackError(MsgNotEligible, ErrNotEligible)
	}

	comment = strings.TrimSpace(comment)
	err := validate.Struct(feedbackInput{Rating: rating, Comment: comment})
	if err == nil {
		if utf8.RuneCountInString(comment) > MaxCommentLength {
			return newFeedbackError(MsgCommentTooLong, ErrCommentTooLong)
		}
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return newFeedbackError(MsgAddFailed, err)
	}
	fe := fieldErrs[0]
	if fe.Field() != "Rating" {
		return newFeedbackError(MsgMissingComment, ErrMissingComment)
	}
	if fe.Tag() == "required" {
		return newFeedbackError(MsgMissingRating, ErrMissingRating)
	}
	return newFeedbackError(MsgRatingRange, ErrRatingOutOfRange)
}
