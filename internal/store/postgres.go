package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/url-shortener/internal/shortener"
)

const (
	uniqueViolation      = "23505"
	shortCodeConstraint  = "url_mappings_short_code_key"
	longURLConstraint    = "url_mappings_long_url_key"
	selectMappingColumns = `SELECT id, long_url, short_code, created_at, click_count FROM url_mappings`
	returnMappingColumns = `RETURNING id, long_url, short_code, created_at, click_count`
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
// The schema is owned by the migrations package.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) FindByLongURL(ctx context.Context, longURL string) (*shortener.URLMapping, error) {
	return p.queryOne(ctx, selectMappingColumns+` WHERE long_url = $1`, longURL)
}

func (p *PostgresStore) FindByShortCode(ctx context.Context, code shortener.Code) (*shortener.URLMapping, error) {
	return p.queryOne(ctx, selectMappingColumns+` WHERE short_code = $1`, string(code))
}

func (p *PostgresStore) Create(ctx context.Context, longURL string, code shortener.Code) (*shortener.URLMapping, error) {
	query := `INSERT INTO url_mappings (long_url, short_code) VALUES ($1, $2) ` + returnMappingColumns

	mapping, err := p.queryOne(ctx, query, longURL, string(code))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case shortCodeConstraint:
				return nil, shortener.ErrCodeExists
			case longURLConstraint:
				return nil, shortener.ErrURLExists
			}
		}

		return nil, err
	}

	return mapping, nil
}

func (p *PostgresStore) IncrementClickCount(ctx context.Context, code shortener.Code) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE url_mappings SET click_count = click_count + 1 WHERE short_code = $1`,
		string(code),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) ListTopByClicks(ctx context.Context, limit int) ([]shortener.URLMapping, error) {
	if limit <= 0 {
		return []shortener.URLMapping{}, nil
	}

	rows, err := p.pool.Query(ctx,
		selectMappingColumns+` ORDER BY click_count DESC, id ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}

	mappings, err := pgx.CollectRows(rows, scanMapping)
	if err != nil {
		return nil, fmt.Errorf("collect top urls: %w", err)
	}

	return mappings, nil
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) queryOne(ctx context.Context, query string, args ...any) (*shortener.URLMapping, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	mapping, err := pgx.CollectExactlyOneRow(rows, scanMapping)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &mapping, nil
}

func scanMapping(row pgx.CollectableRow) (shortener.URLMapping, error) {
	var (
		mapping shortener.URLMapping
		code    string
	)

	err := row.Scan(
		&mapping.ID,
		&mapping.LongURL,
		&code,
		&mapping.CreatedAt,
		&mapping.ClickCount,
	)
	mapping.ShortCode = shortener.Code(code)

	return mapping, err
}
