package store_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/serroba/url-shortener/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract exercises the behaviour every shortener.Repository must share.
// newRepo must return an empty repository.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) shortener.Repository) {
	t.Helper()

	ctx := context.Background()

	t.Run("create and find by code", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, "https://example.com/a", "abc123")
		require.NoError(t, err)

		got, err := repo.FindByShortCode(ctx, "abc123")

		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "https://example.com/a", got.LongURL)
		assert.Equal(t, shortener.Code("abc123"), got.ShortCode)
		assert.Equal(t, int64(0), got.ClickCount)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("find by long url", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Create(ctx, "https://example.com/b", "bcd234")
		require.NoError(t, err)

		got, err := repo.FindByLongURL(ctx, "https://example.com/b")

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("bcd234"), got.ShortCode)
	})

	t.Run("unknown code returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.FindByShortCode(ctx, "nope00")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("unknown long url returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.FindByLongURL(ctx, "https://missing.example.com")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("duplicate code returns ErrCodeExists", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Create(ctx, "https://example.com/first", "dup001")
		require.NoError(t, err)

		_, err = repo.Create(ctx, "https://example.com/second", "dup001")

		require.ErrorIs(t, err, shortener.ErrCodeExists)

		got, err := repo.FindByShortCode(ctx, "dup001")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/first", got.LongURL)
	})

	t.Run("duplicate long url returns ErrURLExists", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Create(ctx, "https://example.com/same", "same01")
		require.NoError(t, err)

		_, err = repo.Create(ctx, "https://example.com/same", "same02")

		require.ErrorIs(t, err, shortener.ErrURLExists)

		_, err = repo.FindByShortCode(ctx, "same02")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("increment unknown code returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.IncrementClickCount(ctx, "ghost1")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Create(ctx, "https://example.com/hot", "hot001")
		require.NoError(t, err)

		const workers, perWorker = 10, 20

		var wg sync.WaitGroup

		for range workers {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for range perWorker {
					assert.NoError(t, repo.IncrementClickCount(ctx, "hot001"))
				}
			}()
		}

		wg.Wait()

		got, err := repo.FindByShortCode(ctx, "hot001")
		require.NoError(t, err)
		assert.Equal(t, int64(workers*perWorker), got.ClickCount)
	})

	t.Run("concurrent creates of one code have a single winner", func(t *testing.T) {
		repo := newRepo(t)

		var (
			wg        sync.WaitGroup
			successes atomic.Int32
			conflicts atomic.Int32
		)

		for i := range 10 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := repo.Create(ctx, fmt.Sprintf("https://example.com/race/%d", i), "race01")

				switch {
				case err == nil:
					successes.Add(1)
				case assert.ErrorIs(t, err, shortener.ErrCodeExists):
					conflicts.Add(1)
				}
			}()
		}

		wg.Wait()

		assert.Equal(t, int32(1), successes.Load())
		assert.Equal(t, int32(9), conflicts.Load())
	})

	t.Run("lists by clicks descending with creation order on ties", func(t *testing.T) {
		repo := newRepo(t)

		clicks := map[shortener.Code]int{"aaaaa1": 5, "bbbbb2": 10, "ccccc3": 1, "ddddd4": 5}
		for _, code := range []shortener.Code{"aaaaa1", "bbbbb2", "ccccc3", "ddddd4"} {
			_, err := repo.Create(ctx, "https://example.com/"+string(code), code)
			require.NoError(t, err)

			for range clicks[code] {
				require.NoError(t, repo.IncrementClickCount(ctx, code))
			}
		}

		top, err := repo.ListTopByClicks(ctx, 3)

		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.Equal(t, shortener.Code("bbbbb2"), top[0].ShortCode)
		assert.Equal(t, int64(10), top[0].ClickCount)
		assert.Equal(t, shortener.Code("aaaaa1"), top[1].ShortCode)
		assert.Equal(t, shortener.Code("ddddd4"), top[2].ShortCode)
	})

	t.Run("non-positive limits list nothing", func(t *testing.T) {
		repo := newRepo(t)

		for i, code := range []shortener.Code{"lim001", "lim002"} {
			_, err := repo.Create(ctx, fmt.Sprintf("https://example.com/limit/%d", i), code)
			require.NoError(t, err)
		}

		for _, limit := range []int{0, -1} {
			top, err := repo.ListTopByClicks(ctx, limit)

			require.NoError(t, err, "limit %d", limit)
			assert.Empty(t, top, "limit %d", limit)
		}
	})

	t.Run("list on empty store returns nothing", func(t *testing.T) {
		repo := newRepo(t)

		top, err := repo.ListTopByClicks(ctx, 10)

		require.NoError(t, err)
		assert.Empty(t, top)
	})
}
