package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MaxGenerateAttempts bounds the generate-check-create loop of a single Shorten call.
const MaxGenerateAttempts = 10

// Shortener assigns short codes to long URLs, reusing the code of an
// already shortened URL. It holds no mutable state and is safe for concurrent use.
type Shortener struct {
	store        Repository
	generateCode CodeGenerator
	reserved     map[Code]struct{}
	logger       *zap.Logger
}

// Option configures a Shortener.
type Option func(*Shortener)

// WithReservedCodes makes the engine treat codes as taken, typically the
// first path segments of routes that shadow a short link.
func WithReservedCodes(codes ...Code) Option {
	return func(s *Shortener) {
		for _, code := range codes {
			s.reserved[code] = struct{}{}
		}
	}
}

// NewShortener creates a shortening engine backed by store.
func NewShortener(store Repository, generator CodeGenerator, logger *zap.Logger, opts ...Option) *Shortener {
	s := &Shortener{
		store:        store,
		generateCode: generator,
		reserved:     make(map[Code]struct{}),
		logger:       logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Shorten returns the mapping for rawURL and whether it was created by this call.
func (s *Shortener) Shorten(ctx context.Context, rawURL string) (*URLMapping, bool, error) {
	longURL := Normalize(strings.TrimSpace(rawURL))
	if !IsValid(longURL) || Normalize(longURL) != longURL {
		return nil, false, ErrInvalidURL
	}

	existing, err := s.store.FindByLongURL(ctx, longURL)
	if err == nil {
		return existing, false, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("lookup long url: %w", err)
	}

	for attempt := 1; attempt <= MaxGenerateAttempts; attempt++ {
		code := Code(s.generateCode())

		if _, ok := s.reserved[code]; ok {
			s.logger.Debug("reserved short code", zap.String("code", string(code)), zap.Int("attempt", attempt))

			continue
		}

		_, err = s.store.FindByShortCode(ctx, code)
		if err == nil {
			s.logger.Debug("short code collision", zap.String("code", string(code)), zap.Int("attempt", attempt))

			continue
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, false, fmt.Errorf("lookup short code: %w", err)
		}

		mapping, err := s.store.Create(ctx, longURL, code)

		switch {
		case err == nil:
			return mapping, true, nil
		case errors.Is(err, ErrCodeExists):
			s.logger.Debug("short code taken on create", zap.String("code", string(code)), zap.Int("attempt", attempt))

			continue
		case errors.Is(err, ErrURLExists):
			return s.concurrentWinner(ctx, longURL)
		default:
			return nil, false, fmt.Errorf("create mapping: %w", err)
		}
	}

	s.logger.Warn("short code space exhausted",
		zap.Int("attempts", MaxGenerateAttempts),
		zap.String("longUrl", longURL),
	)

	return nil, false, ErrCodeSpaceExhausted
}

// concurrentWinner returns the mapping another caller created for longURL
// between our lookup and our insert.
func (s *Shortener) concurrentWinner(ctx context.Context, longURL string) (*URLMapping, bool, error) {
	mapping, err := s.store.FindByLongURL(ctx, longURL)
	if err != nil {
		return nil, false, fmt.Errorf("reload long url after conflict: %w", err)
	}

	return mapping, false, nil
}
