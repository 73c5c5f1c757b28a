package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/url-shortener/internal/analytics"
	"github.com/serroba/url-shortener/internal/messaging"
	"github.com/serroba/url-shortener/internal/shortener"
	"go.uber.org/zap"
)

const (
	msgInvalidURL     = "Invalid URL format. Please enter a valid URL."
	msgCodeExhausted  = "Failed to generate unique short code. Please try again."
	msgShortURLAbsent = "short url not found"
)

// URLShortener creates or reuses short codes for long URLs.
type URLShortener interface {
	Shorten(ctx context.Context, rawURL string) (*shortener.URLMapping, bool, error)
}

// URLResolver looks up short codes.
type URLResolver interface {
	Resolve(ctx context.Context, code shortener.Code) (string, error)
	Stats(ctx context.Context, code shortener.Code) (*shortener.URLMapping, error)
}

// URLRanking lists mappings by popularity.
type URLRanking interface {
	TopURLs(ctx context.Context, limit int) ([]shortener.URLMapping, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	shortener          URLShortener
	resolver           URLResolver
	ranking            URLRanking
	baseURL            string
	publishURLCreated  messaging.Publish[analytics.URLCreatedEvent]
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent]
	logger             *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	shortener URLShortener,
	resolver URLResolver,
	ranking URLRanking,
	baseURL string,
	publishURLCreated messaging.Publish[analytics.URLCreatedEvent],
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		shortener:          shortener,
		resolver:           resolver,
		ranking:            ranking,
		baseURL:            baseURL,
		publishURLCreated:  publishURLCreated,
		publishURLAccessed: publishURLAccessed,
		logger:             logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	mapping, created, err := h.shortener.Shorten(ctx, req.Body.URL)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrInvalidURL):
			return nil, huma.Error400BadRequest(msgInvalidURL)
		case errors.Is(err, shortener.ErrCodeSpaceExhausted):
			return nil, huma.Error503ServiceUnavailable(msgCodeExhausted)
		}

		h.logger.Error("failed to shorten url", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to save url")
	}

	resp := &CreateShortURLResponse{Status: http.StatusOK}

	if created {
		resp.Status = http.StatusCreated

		meta := RequestMetaFromContext(ctx)
		event := &analytics.URLCreatedEvent{
			Code:      string(mapping.ShortCode),
			LongURL:   mapping.LongURL,
			CreatedAt: mapping.CreatedAt,
			ClientIP:  meta.ClientIP,
			UserAgent: meta.UserAgent,
		}

		if err := h.publishURLCreated(ctx, event); err != nil {
			h.logger.Error("failed to publish analytics event",
				zap.String("code", event.Code),
				zap.Error(err),
			)
		}
	}

	shortURL := h.shortURL(mapping.ShortCode)

	resp.Headers.Location = shortURL
	resp.Body.Code = string(mapping.ShortCode)
	resp.Body.ShortURL = shortURL
	resp.Body.LongURL = mapping.LongURL

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	longURL, err := h.resolver.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound(msgShortURLAbsent)
		}

		h.logger.Error("failed to resolve short code", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLAccessedEvent{
		Code:       req.Code,
		LongURL:    longURL,
		AccessedAt: time.Now().UTC(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err = h.publishURLAccessed(ctx, event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: longURL,
	}, nil
}

func (h *URLHandler) GetURLStats(ctx context.Context, req *URLStatsRequest) (*URLStatsResponse, error) {
	mapping, err := h.resolver.Stats(ctx, shortener.Code(req.Code))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound(msgShortURLAbsent)
		}

		h.logger.Error("failed to get url stats", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	return &URLStatsResponse{Body: h.stats(mapping)}, nil
}

func (h *URLHandler) TopURLs(ctx context.Context, req *TopURLsRequest) (*TopURLsResponse, error) {
	mappings, err := h.ranking.TopURLs(ctx, req.Limit)
	if err != nil {
		h.logger.Error("failed to list top urls", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list urls")
	}

	resp := &TopURLsResponse{}
	resp.Body.URLs = make([]URLStats, 0, len(mappings))

	for i := range mappings {
		resp.Body.URLs = append(resp.Body.URLs, h.stats(&mappings[i]))
	}

	return resp, nil
}

func (h *URLHandler) shortURL(code shortener.Code) string {
	return fmt.Sprintf("%s/%s", h.baseURL, code)
}

func (h *URLHandler) stats(mapping *shortener.URLMapping) URLStats {
	return URLStats{
		Code:       string(mapping.ShortCode),
		ShortURL:   h.shortURL(mapping.ShortCode),
		LongURL:    mapping.LongURL,
		CreatedAt:  mapping.CreatedAt,
		ClickCount: mapping.ClickCount,
	}
}
