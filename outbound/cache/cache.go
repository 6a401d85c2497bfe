package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"seatmap/common/constant"
	"seatmap/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the cache handle the catalog owns. Implementations must only ever
// touch their own entries, so clearing one never evicts anybody else's data.
type Store interface {
	GetConfigurations(ctx context.Context) (Entry, bool, error)
	SetConfigurations(ctx context.Context, entry Entry) error
	Clear(ctx context.Context) (int64, error)
}

// Entry is the cached configurations of one events document. Token is the
// token the document was loaded with; readers compare it with their own
// document before trusting Configurations.
type Entry struct {
	Token          string                     `json:"token"`
	Configurations []model.EventConfiguration `json:"configurations"`
}

// RedisStore keeps every entry under Prefix.
type RedisStore struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = constant.CacheKeyPrefix
	}
	if ttl <= 0 {
		ttl = constant.ConfigurationsDefaultTTL
	}

	return &RedisStore{Client: client, Prefix: prefix, TTL: ttl}
}

func (s *RedisStore) configurationsKey() string {
	return s.Prefix + constant.ConfigurationsKeySuffix
}

func (s *RedisStore) GetConfigurations(ctx context.Context) (Entry, bool, error) {
	data, err := s.Client.Get(ctx, s.configurationsKey()).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get configurations: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached configurations: %w", err)
	}

	return entry, true, nil
}

func (s *RedisStore) SetConfigurations(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode configurations: %w", err)
	}

	if err := s.Client.Set(ctx, s.configurationsKey(), string(data), s.TTL).Err(); err != nil {
		return fmt.Errorf("set configurations: %w", err)
	}

	return nil
}

// Clear deletes every key under Prefix and reports how many were removed.
func (s *RedisStore) Clear(ctx context.Context) (int64, error) {
	var (
		cursor  uint64
		removed int64
	)

	for {
		keys, next, err := s.Client.Scan(ctx, cursor, s.Prefix+"*", constant.CacheScanCount).Result()
		if err != nil {
			return removed, fmt.Errorf("scan %s*: %w", s.Prefix, err)
		}

		if len(keys) > 0 {
			n, err := s.Client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("delete cached keys: %w", err)
			}
			removed += n
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
