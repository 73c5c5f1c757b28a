package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/serroba/url-shortener/internal/shortener"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// urlMappingRow is the gorm model behind SQLiteStore.
type urlMappingRow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	LongURL    string    `gorm:"size:2048;not null;uniqueIndex:idx_url_mappings_long_url"`
	ShortCode  string    `gorm:"size:16;not null;uniqueIndex:idx_url_mappings_short_code"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
	ClickCount int64     `gorm:"not null;default:0;index:idx_url_mappings_clicks"`
}

func (urlMappingRow) TableName() string {
	return "url_mappings"
}

func (r urlMappingRow) toMapping() *shortener.URLMapping {
	return &shortener.URLMapping{
		ID:         r.ID,
		LongURL:    r.LongURL,
		ShortCode:  shortener.Code(r.ShortCode),
		CreatedAt:  r.CreatedAt,
		ClickCount: r.ClickCount,
	}
}

// SQLiteStore is an embedded SQLite implementation of shortener.Repository built on gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SQLite serializes writers; a single connection also keeps ":memory:" databases shared.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&urlMappingRow{}); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) FindByLongURL(ctx context.Context, longURL string) (*shortener.URLMapping, error) {
	return s.first(ctx, "long_url = ?", longURL)
}

func (s *SQLiteStore) FindByShortCode(ctx context.Context, code shortener.Code) (*shortener.URLMapping, error) {
	return s.first(ctx, "short_code = ?", string(code))
}

func (s *SQLiteStore) Create(ctx context.Context, longURL string, code shortener.Code) (*shortener.URLMapping, error) {
	row := urlMappingRow{
		LongURL:   longURL,
		ShortCode: string(code),
	}

	err := s.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		return row.toMapping(), nil
	}

	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	// The translated error does not name the index, so find out which value is taken.
	_, lookupErr := s.FindByLongURL(ctx, longURL)

	return nil, duplicateKeyError(lookupErr)
}

// duplicateKeyError maps the long URL lookup made after a unique violation to
// the conflicting value.
func duplicateKeyError(lookupErr error) error {
	switch {
	case lookupErr == nil:
		return shortener.ErrURLExists
	case errors.Is(lookupErr, shortener.ErrNotFound):
		return shortener.ErrCodeExists
	default:
		return fmt.Errorf("resolve duplicate key: %w", lookupErr)
	}
}

func (s *SQLiteStore) IncrementClickCount(ctx context.Context, code shortener.Code) error {
	result := s.db.WithContext(ctx).
		Model(&urlMappingRow{}).
		Where("short_code = ?", string(code)).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (s *SQLiteStore) ListTopByClicks(ctx context.Context, limit int) ([]shortener.URLMapping, error) {
	if limit <= 0 {
		return []shortener.URLMapping{}, nil
	}

	var rows []urlMappingRow

	err := s.db.WithContext(ctx).
		Order("click_count DESC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	mappings := make([]shortener.URLMapping, 0, len(rows))
	for _, row := range rows {
		mappings = append(mappings, *row.toMapping())
	}

	return mappings, nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Shutdown closes the underlying database.
func (s *SQLiteStore) Shutdown() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (s *SQLiteStore) first(ctx context.Context, query string, arg any) (*shortener.URLMapping, error) {
	var row urlMappingRow

	err := s.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return row.toMapping(), nil
}
