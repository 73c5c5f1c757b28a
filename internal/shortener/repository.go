package shortener

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no mapping matches the lookup.
	ErrNotFound = errors.New("url not found")
	// ErrCodeExists is returned by Create when the short code is already taken.
	ErrCodeExists = errors.New("short code already exists")
	// ErrURLExists is returned by Create when the long URL is already mapped.
	ErrURLExists = errors.New("long url already exists")
	// ErrInvalidURL is returned when the submitted URL fails validation.
	ErrInvalidURL = errors.New("invalid url")
	// ErrCodeSpaceExhausted is returned when no free code was found within the attempt budget.
	ErrCodeSpaceExhausted = errors.New("failed to generate unique short code")
)

// Repository is the storage contract the engine relies on.
//
// Implementations must reject a duplicate short code with ErrCodeExists and a
// duplicate long URL with ErrURLExists, and must increment click counts atomically.
// ListTopByClicks returns an empty slice for a non-positive limit.
type Repository interface {
	FindByLongURL(ctx context.Context, longURL string) (*URLMapping, error)
	FindByShortCode(ctx context.Context, code Code) (*URLMapping, error)
	Create(ctx context.Context, longURL string, code Code) (*URLMapping, error)
	IncrementClickCount(ctx context.Context, code Code) error
	ListTopByClicks(ctx context.Context, limit int) ([]URLMapping, error)
}
