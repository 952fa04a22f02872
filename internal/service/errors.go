package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the base of every missing-resource error.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput is the base of every malformed-request error.
	ErrInvalidInput = errors.New("invalid input")

	ErrPlaceNotFound  = fmt.Errorf("place: %w", ErrNotFound)
	ErrUserNotFound   = fmt.Errorf("user: %w", ErrNotFound)
	ErrReviewNotFound = fmt.Errorf("review: %w", ErrNotFound)

	ErrNotJSON       = fmt.Errorf("%w: Not a JSON", ErrInvalidInput)
	ErrMissingUserID = fmt.Errorf("%w: Missing user_id", ErrInvalidInput)
	ErrInvalidUserID = fmt.Errorf("%w: user_id must be a string", ErrInvalidInput)
	ErrMissingText   = fmt.Errorf("%w: Missing text", ErrInvalidInput)
	ErrInvalidText   = fmt.Errorf("%w: text must be a string", ErrInvalidInput)
)

// IsNotFound reports whether err means a resource does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err means the request was malformed.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
