package resolver

import "errors"

var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrExtractionFailed  = errors.New("could not extract username or id")
	ErrLookupUnavailable = errors.New("profile lookup unavailable")
	// ErrNotFound means the lookup host answered but carried no user id,
	// which is what deactivated, private and unknown profiles look like.
	ErrNotFound = errors.New("profile id not found")
)
