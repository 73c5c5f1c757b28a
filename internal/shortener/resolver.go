package shortener

import (
	"context"
	"fmt"
)

// Resolver turns short codes back into destination URLs and counts each resolution.
type Resolver struct {
	store Repository
}

// NewResolver creates a resolver backed by store.
func NewResolver(store Repository) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the long URL for code and records one click.
// Unknown codes yield ErrNotFound and leave the store untouched.
func (r *Resolver) Resolve(ctx context.Context, code Code) (string, error) {
	mapping, err := r.store.FindByShortCode(ctx, code)
	if err != nil {
		return "", err
	}

	if err := r.store.IncrementClickCount(ctx, code); err != nil {
		return "", fmt.Errorf("increment click count: %w", err)
	}

	return mapping.LongURL, nil
}

// Stats returns the mapping for code without recording a click.
func (r *Resolver) Stats(ctx context.Context, code Code) (*URLMapping, error) {
	return r.store.FindByShortCode(ctx, code)
}
