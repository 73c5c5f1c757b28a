package container

import (
	"github.com/samber/do"
	"github.com/serroba/url-shortener/internal/handlers"
	"github.com/serroba/url-shortener/internal/shortener"
	"go.uber.org/zap"
)

// ShortenerPackage provides the shortening engine, resolver and ranking reader.
func ShortenerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Shortener, error) {
		opts := do.MustInvoke[*Options](i)

		generator, err := shortener.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		repo, err := do.Invoke[shortener.Repository](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewShortener(repo, generator, do.MustInvoke[*zap.Logger](i),
			shortener.WithReservedCodes(handlers.ReservedPaths...),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Resolver, error) {
		repo, err := do.Invoke[shortener.Repository](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewResolver(repo), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Ranking, error) {
		repo, err := do.Invoke[shortener.Repository](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewRanking(repo), nil
	})
}
