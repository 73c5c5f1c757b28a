package shortener_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/serroba/url-shortener/internal/shortener"
	"github.com/serroba/url-shortener/internal/store"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("store unavailable")

// sequence returns a generator yielding codes in order, repeating the last one.
func sequence(codes ...string) shortener.CodeGenerator {
	var (
		mu   sync.Mutex
		next int
	)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		code := codes[min(next, len(codes)-1)]
		next++

		return code
	}
}

// countingGenerator wraps gen and counts its invocations.
type countingGenerator struct {
	mu    sync.Mutex
	calls int
	gen   shortener.CodeGenerator
}

func (c *countingGenerator) generate() string {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	return c.gen()
}

func (c *countingGenerator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls
}

func realGenerator(t *testing.T) shortener.CodeGenerator {
	t.Helper()

	gen, err := shortener.NewCodeGenerator(shortener.DefaultCodeLength)
	require.NoError(t, err)

	return gen
}

// fakeRepo delegates to a MemoryStore unless a hook overrides the call.
type fakeRepo struct {
	*store.MemoryStore

	mu            sync.Mutex
	findByURLHook func(call int) error
	findByURLN    int
	createHook    func(call int) error
	createN       int
	findByCodeErr error
	incrementErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{MemoryStore: store.NewMemoryStore()}
}

func (f *fakeRepo) FindByLongURL(ctx context.Context, longURL string) (*shortener.URLMapping, error) {
	f.mu.Lock()
	f.findByURLN++
	call, hook := f.findByURLN, f.findByURLHook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(call); err != nil {
			return nil, err
		}
	}

	return f.MemoryStore.FindByLongURL(ctx, longURL)
}

func (f *fakeRepo) FindByShortCode(ctx context.Context, code shortener.Code) (*shortener.URLMapping, error) {
	if f.findByCodeErr != nil {
		return nil, f.findByCodeErr
	}

	return f.MemoryStore.FindByShortCode(ctx, code)
}

func (f *fakeRepo) Create(ctx context.Context, longURL string, code shortener.Code) (*shortener.URLMapping, error) {
	f.mu.Lock()
	f.createN++
	call, hook := f.createN, f.createHook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(call); err != nil {
			return nil, err
		}
	}

	return f.MemoryStore.Create(ctx, longURL, code)
}

func (f *fakeRepo) IncrementClickCount(ctx context.Context, code shortener.Code) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}

	return f.MemoryStore.IncrementClickCount(ctx, code)
}

func (f *fakeRepo) creates() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.createN
}

const testURL = "https://example.com"
