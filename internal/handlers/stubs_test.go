package handlers_test

import (
	"context"
	"errors"
	"sync"

	"github.com/serroba/url-shortener/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com"

// stubShortener fails every call with err.
type stubShortener struct {
	err error
}

func (s *stubShortener) Shorten(context.Context, string) (*shortener.URLMapping, bool, error) {
	return nil, false, s.err
}

// stubResolver fails every call with err.
type stubResolver struct {
	err error
}

func (s *stubResolver) Resolve(context.Context, shortener.Code) (string, error) {
	return "", s.err
}

func (s *stubResolver) Stats(context.Context, shortener.Code) (*shortener.URLMapping, error) {
	return nil, s.err
}

// stubRanking fails every call with err.
type stubRanking struct {
	err error
}

func (s *stubRanking) TopURLs(context.Context, int) ([]shortener.URLMapping, error) {
	return nil, s.err
}

// capture records published events.
type capture[T any] struct {
	mu     sync.Mutex
	events []T
	err    error
}

func (c *capture[T]) publish(_ context.Context, event *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, *event)

	return c.err
}

func (c *capture[T]) all() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]T(nil), c.events...)
}
