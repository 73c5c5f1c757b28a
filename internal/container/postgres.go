package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do"
	"github.com/serroba/url-shortener/internal/migrations"
	"go.uber.org/zap"
)

// PostgresPool is the shared connection pool, closed on injector shutdown.
type PostgresPool struct {
	*pgxpool.Pool
}

func (p *PostgresPool) Shutdown() error {
	p.Close()

	return nil
}

// PostgresPackage provides the connection pool and the schema migrator.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*PostgresPool, error) {
		opts := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return &PostgresPool{Pool: pool}, nil
	})

	do.Provide(i, func(i *do.Injector) (*migrations.Migrator, error) {
		pool, err := do.Invoke[*PostgresPool](i)
		if err != nil {
			return nil, err
		}

		return migrations.NewMigrator(pool.Pool, do.MustInvoke[*zap.Logger](i)), nil
	})
}
