package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/url-shortener/internal/shortener"
)

const (
	createConflictCode = -1
	createConflictURL  = -2
)

// createScript inserts a mapping only if neither the code nor the long URL is taken.
// KEYS: mapping hash, long url index, rank zset. ARGV: code, long url, created at, id, rank member.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return -1
end
if redis.call('HEXISTS', KEYS[2], ARGV[2]) == 1 then
	return -2
end
redis.call('HSET', KEYS[1],
	'id', ARGV[4],
	'long_url', ARGV[2],
	'short_code', ARGV[1],
	'created_at', ARGV[3],
	'click_count', 0,
	'rank_member', ARGV[5])
redis.call('HSET', KEYS[2], ARGV[2], ARGV[1])
redis.call('ZADD', KEYS[3], 0, ARGV[5])
return 1
`)

// incrementScript bumps the counter and the ranking score together.
// KEYS: mapping hash, rank zset.
var incrementScript = redis.NewScript(`
local member = redis.call('HGET', KEYS[1], 'rank_member')
if not member then
	return 0
end
redis.call('HINCRBY', KEYS[1], 'click_count', 1)
redis.call('ZINCRBY', KEYS[2], -1, member)
return 1
`)

// RedisStore is a Redis implementation of shortener.Repository.
//
// Each mapping lives in a hash keyed by code. A hash indexes long URLs, and a
// sorted set scored by negated click count ranks mappings; its members are the
// zero-padded id followed by the code so that ties keep creation order.
type RedisStore struct {
	client   redis.UniversalClient
	prefix   string // "url:code:" for code -> mapping hash
	urlIndex string // "url:long" for longURL -> code
	rankKey  string // "url:rank" for popularity ranking
	seqKey   string // "url:seq" for id assignment
}

// NewRedisStore creates a new Redis-backed URL store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client:   client,
		prefix:   "url:code:",
		urlIndex: "url:long",
		rankKey:  "url:rank",
		seqKey:   "url:seq",
	}
}

func (r *RedisStore) FindByLongURL(ctx context.Context, longURL string) (*shortener.URLMapping, error) {
	code, err := r.client.HGet(ctx, r.urlIndex, longURL).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return r.FindByShortCode(ctx, shortener.Code(code))
}

func (r *RedisStore) FindByShortCode(ctx context.Context, code shortener.Code) (*shortener.URLMapping, error) {
	fields, err := r.client.HGetAll(ctx, r.key(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	return parseMapping(fields)
}

func (r *RedisStore) Create(ctx context.Context, longURL string, code shortener.Code) (*shortener.URLMapping, error) {
	// Ids of rejected inserts are skipped, never reused.
	id, err := r.client.Incr(ctx, r.seqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("assign id: %w", err)
	}

	createdAt := time.Now().UTC()
	member := rankMember(id, code)

	status, err := createScript.Run(ctx, r.client,
		[]string{r.key(code), r.urlIndex, r.rankKey},
		string(code), longURL, createdAt.Format(time.RFC3339Nano), id, member,
	).Int64()
	if err != nil {
		return nil, err
	}

	switch status {
	case createConflictCode:
		return nil, shortener.ErrCodeExists
	case createConflictURL:
		return nil, shortener.ErrURLExists
	}

	return &shortener.URLMapping{
		ID:        id,
		LongURL:   longURL,
		ShortCode: code,
		CreatedAt: createdAt,
	}, nil
}

func (r *RedisStore) IncrementClickCount(ctx context.Context, code shortener.Code) error {
	found, err := incrementScript.Run(ctx, r.client, []string{r.key(code), r.rankKey}).Int64()
	if err != nil {
		return err
	}

	if found == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (r *RedisStore) ListTopByClicks(ctx context.Context, limit int) ([]shortener.URLMapping, error) {
	if limit <= 0 {
		return []shortener.URLMapping{}, nil
	}

	members, err := r.client.ZRange(ctx, r.rankKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, 0, len(members))

	for _, member := range members {
		_, code, _ := strings.Cut(member, ":")
		cmds = append(cmds, pipe.HGetAll(ctx, r.key(shortener.Code(code))))
	}

	if _, err = pipe.Exec(ctx); err != nil {
		return nil, err
	}

	mappings := make([]shortener.URLMapping, 0, len(cmds))

	for _, cmd := range cmds {
		mapping, err := parseMapping(cmd.Val())
		if err != nil {
			return nil, err
		}

		mappings = append(mappings, *mapping)
	}

	return mappings, nil
}

// Ping checks Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) key(code shortener.Code) string {
	return r.prefix + string(code)
}

func rankMember(id int64, code shortener.Code) string {
	return fmt.Sprintf("%020d:%s", id, code)
}

func parseMapping(fields map[string]string) (*shortener.URLMapping, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}

	clicks, err := strconv.ParseInt(fields["click_count"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse click count: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("parse created at: %w", err)
	}

	return &shortener.URLMapping{
		ID:         id,
		LongURL:    fields["long_url"],
		ShortCode:  shortener.Code(fields["short_code"]),
		CreatedAt:  createdAt,
		ClickCount: clicks,
	}, nil
}
