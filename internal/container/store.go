package container

import (
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/url-shortener/internal/migrations"
	"github.com/serroba/url-shortener/internal/shortener"
	"github.com/serroba/url-shortener/internal/store"
)

// StorePackage provides the shortener.Repository selected by Options.Store.
// Every backend also implements health.Checker.
func StorePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Store {
		case StoreMemory:
			return store.NewMemoryStore(), nil
		case StoreSQLite:
			return store.OpenSQLite(opts.SQLitePath)
		case StoreRedis:
			client, err := do.Invoke[*RedisClient](i)
			if err != nil {
				return nil, err
			}

			return store.NewRedisStore(client.Client), nil
		case StorePostgres:
			pool, err := do.Invoke[*PostgresPool](i)
			if err != nil {
				return nil, err
			}

			if opts.Migrate {
				if err := do.MustInvoke[*migrations.Migrator](i).Up(); err != nil {
					return nil, err
				}
			}

			return store.NewPostgresStore(pool.Pool), nil
		default:
			return nil, fmt.Errorf("unknown store %q", opts.Store)
		}
	})
}
