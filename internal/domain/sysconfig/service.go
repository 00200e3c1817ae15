package sysconfig

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheKeyPrefix = "sysconfig:"

// Service reads typed configuration values. Reads go through an optional
// Redis cache; the TTL bounds how stale a price lookup can be.
type Service struct {
	repo  Repository
	cache *redis.Client
	ttl   time.Duration
}

// NewService creates a config service. cache may be nil, in which case every
// read hits the database directly.
func NewService(repo Repository, cache *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 || ttl > time.Minute {
		ttl = time.Minute
	}
	return &Service{repo: repo, cache: cache, ttl: ttl}
}

// cachedEntry is the wire form kept in Redis.
type cachedEntry struct {
	Value    string   `json:"value"`
	DataType DataType `json:"data_type"`
}

// Get returns the raw entry for a key.
func (s *Service) Get(ctx context.Context, key string) (*Entry, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKeyPrefix+key).Result()
		if err == nil {
			var ce cachedEntry
			if jsonErr := json.Unmarshal([]byte(raw), &ce); jsonErr == nil {
				return &Entry{Key: key, Value: ce.Value, DataType: ce.DataType}, nil
			}
		} else if err != redis.Nil {
			// Cache read failures are non-fatal, fall through to the DB
			log.Warn().Err(err).Str("key", key).Msg("config cache read failed")
		}
	}

	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		raw, jsonErr := json.Marshal(cachedEntry{Value: entry.Value, DataType: entry.DataType})
		if jsonErr == nil {
			if err := s.cache.Set(ctx, cacheKeyPrefix+key, raw, s.ttl).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("config cache write failed")
			}
		}
	}

	return entry, nil
}

// GetInt returns a number-typed value as int64.
func (s *Service) GetInt(ctx context.Context, key string) (int64, error) {
	entry, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if entry.DataType != TypeNumber {
		return 0, ErrTypeMismatch
	}
	n, err := strconv.ParseInt(entry.Value, 10, 64)
	if err != nil {
		return 0, ErrTypeMismatch
	}
	return n, nil
}

// GetBool returns a boolean-typed value.
func (s *Service) GetBool(ctx context.Context, key string) (bool, error) {
	entry, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if entry.DataType != TypeBoolean {
		return false, ErrTypeMismatch
	}
	b, err := strconv.ParseBool(entry.Value)
	if err != nil {
		return false, ErrTypeMismatch
	}
	return b, nil
}

// GetString returns a string-typed value.
func (s *Service) GetString(ctx context.Context, key string) (string, error) {
	entry, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if entry.DataType != TypeString {
		return "", ErrTypeMismatch
	}
	return entry.Value, nil
}

// GetIntMap returns a json-typed value decoded as a string-to-integer map,
// the shape of the recharge conversion table.
func (s *Service) GetIntMap(ctx context.Context, key string) (map[string]int64, error) {
	entry, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if entry.DataType != TypeJSON {
		return nil, ErrTypeMismatch
	}
	m := make(map[string]int64)
	if err := json.Unmarshal([]byte(entry.Value), &m); err != nil {
		return nil, ErrTypeMismatch
	}
	return m, nil
}

// Set writes a key and invalidates its cache entry.
func (s *Service) Set(ctx context.Context, entry *Entry) error {
	if err := s.repo.Set(ctx, entry); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKeyPrefix+entry.Key).Err(); err != nil {
			log.Warn().Err(err).Str("key", entry.Key).Msg("config cache invalidation failed")
		}
	}

	return nil
}

// List returns all entries, bypassing the cache.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}
