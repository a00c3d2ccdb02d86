package catalog

import (
	"errors"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
)

var (
	// ErrNotReady indicates at least one source collection has not loaded.
	ErrNotReady = errors.New("catalog not loaded")
	// ErrProjectNotFound indicates no joined project has the ID.
	ErrProjectNotFound = project.ErrProjectNotFound
	// ErrSponsorNotFound indicates no sponsor has the address.
	ErrSponsorNotFound = sponsor.ErrSponsorNotFound
	// ErrUnknownOrder indicates an ordering key outside the registry.
	ErrUnknownOrder = errors.New("unknown ordering")
	// ErrInvalidFilter indicates list input that maps to no filter action.
	ErrInvalidFilter = errors.New("invalid filter")
)
