package container

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/url-shortener/internal/analytics"
	"github.com/serroba/url-shortener/internal/handlers"
	"github.com/serroba/url-shortener/internal/health"
	"github.com/serroba/url-shortener/internal/messaging"
	"github.com/serroba/url-shortener/internal/middleware"
	"github.com/serroba/url-shortener/internal/shortener"
	"go.uber.org/zap"
)

var errNoPing = errors.New("store does not support health checks")

// HTTPPackage provides the chi router with every API route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))

		urlHandler, err := newURLHandler(i)
		if err != nil {
			return nil, err
		}

		healthHandler, err := newHealthHandler(i)
		if err != nil {
			return nil, err
		}

		health.RegisterRoutes(api, healthHandler)
		handlers.RegisterRoutes(api, urlHandler)

		return router, nil
	})
}

func newURLHandler(i *do.Injector) (*handlers.URLHandler, error) {
	engine, err := do.Invoke[*shortener.Shortener](i)
	if err != nil {
		return nil, err
	}

	publishCreated, err := do.Invoke[messaging.Publish[analytics.URLCreatedEvent]](i)
	if err != nil {
		return nil, err
	}

	publishAccessed, err := do.Invoke[messaging.Publish[analytics.URLAccessedEvent]](i)
	if err != nil {
		return nil, err
	}

	return handlers.NewURLHandler(
		engine,
		do.MustInvoke[*shortener.Resolver](i),
		do.MustInvoke[*shortener.Ranking](i),
		do.MustInvoke[*Options](i).PublicBaseURL(),
		publishCreated,
		publishAccessed,
		do.MustInvoke[*zap.Logger](i),
	), nil
}

func newHealthHandler(i *do.Injector) (*health.Handler, error) {
	repo := do.MustInvoke[shortener.Repository](i)

	storeChecker, ok := repo.(health.Checker)
	if !ok {
		return nil, errNoPing
	}

	var events health.Checker
	if do.MustInvoke[*Options](i).Events == EventsRedis {
		events = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)
	}

	return health.NewHandler(storeChecker, events), nil
}
