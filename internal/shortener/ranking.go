package shortener

import "context"

// DefaultTopLimit is used when TopURLs is called with a non-positive limit.
const DefaultTopLimit = 50

// Ranking is a read-only view of mappings ordered by popularity.
type Ranking struct {
	store Repository
}

// NewRanking creates a ranking reader backed by store.
func NewRanking(store Repository) *Ranking {
	return &Ranking{store: store}
}

// TopURLs returns up to limit mappings, most clicked first. Ties keep creation order.
func (r *Ranking) TopURLs(ctx context.Context, limit int) ([]URLMapping, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	return r.store.ListTopByClicks(ctx, limit)
}
