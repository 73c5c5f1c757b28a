package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/serroba/url-shortener/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records map[shortener.Code]*shortener.URLMapping
	byURL   map[string]shortener.Code // longURL -> code
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[shortener.Code]*shortener.URLMapping),
		byURL:   make(map[string]shortener.Code),
	}
}

func (m *MemoryStore) FindByLongURL(ctx context.Context, longURL string) (*shortener.URLMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	code, ok := m.byURL[longURL]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return clone(m.records[code]), nil
}

func (m *MemoryStore) FindByShortCode(ctx context.Context, code shortener.Code) (*shortener.URLMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return clone(record), nil
}

func (m *MemoryStore) Create(ctx context.Context, longURL string, code shortener.Code) (*shortener.URLMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[code]; ok {
		return nil, shortener.ErrCodeExists
	}

	if _, ok := m.byURL[longURL]; ok {
		return nil, shortener.ErrURLExists
	}

	m.nextID++
	record := &shortener.URLMapping{
		ID:        m.nextID,
		LongURL:   longURL,
		ShortCode: code,
		CreatedAt: time.Now().UTC(),
	}

	m.records[code] = record
	m.byURL[longURL] = code

	return clone(record), nil
}

func (m *MemoryStore) IncrementClickCount(ctx context.Context, code shortener.Code) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[code]
	if !ok {
		return shortener.ErrNotFound
	}

	record.ClickCount++

	return nil
}

func (m *MemoryStore) ListTopByClicks(ctx context.Context, limit int) ([]shortener.URLMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		return []shortener.URLMapping{}, nil
	}

	m.mu.RLock()

	result := make([]shortener.URLMapping, 0, len(m.records))
	for _, record := range m.records {
		result = append(result, *record)
	}

	m.mu.RUnlock()

	slices.SortFunc(result, func(a, b shortener.URLMapping) int {
		if c := cmp.Compare(b.ClickCount, a.ClickCount); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// Ping reports whether ctx is still live; the store itself cannot fail.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func clone(record *shortener.URLMapping) *shortener.URLMapping {
	c := *record

	return &c
}
