package container_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/url-shortener/internal/container"
	"github.com/serroba/url-shortener/internal/handlers"
	"github.com/serroba/url-shortener/internal/shortener"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInjector(t *testing.T, opts *container.Options) *do.Injector {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, opts)
	do.ProvideValue(injector, zap.NewNop())
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.StorePackage(injector)
	container.ShortenerPackage(injector)
	container.PublisherGroupPackage(injector)
	container.HTTPPackage(injector)

	t.Cleanup(func() { _ = injector.Shutdown() })

	return injector
}

func post(router http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	return w
}

func TestHTTPPackage(t *testing.T) {
	t.Run("serves the api from the memory store", func(t *testing.T) {
		injector := newInjector(t, &container.Options{
			Port:       9000,
			CodeLength: 7,
			Store:      container.StoreMemory,
			Events:     container.EventsNone,
		})
		router := do.MustInvoke[*chi.Mux](injector)

		w := post(router, "/shorten", `{"url":"https://example.com/a"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Regexp(t, `^http://localhost:9000/[A-Za-z0-9]{7}$`, w.Header().Get("Location"))

		health := get(router, "/health")
		require.Equal(t, http.StatusOK, health.Code)
		assert.Contains(t, health.Body.String(), `"status":"ok"`)
	})

	t.Run("reserves every fixed top-level route", func(t *testing.T) {
		injector := newInjector(t, &container.Options{
			CodeLength: 6,
			Store:      container.StoreMemory,
			Events:     container.EventsNone,
		})
		router := do.MustInvoke[*chi.Mux](injector)

		var checked int

		err := chi.Walk(router, func(_, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			segment, _, _ := strings.Cut(strings.TrimPrefix(route, "/"), "/")
			if segment == "" || strings.Trim(segment, shortener.Alphabet) != "" {
				return nil
			}

			checked++
			assert.Contains(t, handlers.ReservedPaths, shortener.Code(segment), route)

			return nil
		})

		require.NoError(t, err)
		assert.Positive(t, checked)
	})

	t.Run("uses the configured base url", func(t *testing.T) {
		injector := newInjector(t, &container.Options{
			BaseURL:    "https://sho.rt",
			CodeLength: 6,
			Store:      container.StoreMemory,
			Events:     container.EventsNone,
		})
		router := do.MustInvoke[*chi.Mux](injector)

		w := post(router, "/shorten", `{"url":"https://example.com/a"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "https://sho.rt/"))
	})

	t.Run("persists to sqlite", func(t *testing.T) {
		injector := newInjector(t, &container.Options{
			CodeLength: 6,
			Store:      container.StoreSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "shortener.db"),
			Events:     container.EventsNone,
		})
		router := do.MustInvoke[*chi.Mux](injector)

		require.Equal(t, http.StatusCreated, post(router, "/shorten", `{"url":"https://example.com/a"}`).Code)

		repo := do.MustInvoke[shortener.Repository](injector)
		mapping, err := repo.FindByLongURL(context.Background(), "https://example.com/a")
		require.NoError(t, err)
		assert.Len(t, mapping.ShortCode, 6)
	})

	t.Run("stores in redis and publishes to redis streams", func(t *testing.T) {
		mr := miniredis.RunT(t)
		injector := newInjector(t, &container.Options{
			CodeLength: 6,
			Store:      container.StoreRedis,
			RedisAddr:  mr.Addr(),
			Events:     container.EventsRedis,
		})
		router := do.MustInvoke[*chi.Mux](injector)

		w := post(router, "/shorten", `{"url":"https://example.com/a"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		client := do.MustInvoke[*container.RedisClient](injector)
		assert.Equal(t, int64(1), client.XLen(context.Background(), "url.created").Val())

		health := get(router, "/health")
		assert.Contains(t, health.Body.String(), `"events":"healthy"`)
	})

	t.Run("rejects an unknown store", func(t *testing.T) {
		injector := newInjector(t, &container.Options{
			CodeLength: 6,
			Store:      "etcd",
			Events:     container.EventsNone,
		})

		_, err := do.Invoke[*chi.Mux](injector)

		assert.ErrorContains(t, err, `unknown store "etcd"`)
	})

	t.Run("rejects an unsupported code length", func(t *testing.T) {
		for _, length := range []int{0, 4, 17} {
			injector := newInjector(t, &container.Options{
				CodeLength: length,
				Store:      container.StoreMemory,
				Events:     container.EventsNone,
			})

			_, err := do.Invoke[*shortener.Shortener](injector)

			assert.ErrorContains(t, err, "code length must be between", "length %d", length)
		}
	})
}

func TestLoadConsumerConfig(t *testing.T) {
	t.Run("uses defaults without a config file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := container.LoadConsumerConfig(viper.New())

		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "console", cfg.LogFormat)
	})

	t.Run("reads consumer.yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "consumer.yaml"), []byte("redis_addr: cache:6379\nlog_format: json\n"), 0o600))
		t.Chdir(dir)

		cfg, err := container.LoadConsumerConfig(viper.New())

		require.NoError(t, err)
		assert.Equal(t, "cache:6379", cfg.RedisAddr)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SHORTENER_REDIS_ADDR", "redis:6380")

		cfg, err := container.LoadConsumerConfig(viper.New())

		require.NoError(t, err)
		assert.Equal(t, "redis:6380", cfg.RedisAddr)

		opts := cfg.Options()
		assert.Equal(t, container.EventsRedis, opts.Events)
		assert.Equal(t, "redis:6380", opts.RedisAddr)
	})
}
