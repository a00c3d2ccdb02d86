package sponsor

import "errors"

var (
	// ErrSponsorNotFound indicates no sponsor has the address.
	ErrSponsorNotFound = errors.New("sponsor not found")
	// ErrInvalidInput indicates invalid sponsor input.
	ErrInvalidInput = errors.New("invalid sponsor input")
)
