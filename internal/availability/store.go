package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/omarshaarawi/kickbot/internal/models"
	"github.com/redis/go-redis/v9"
)

type MemoryStore struct {
	entries map[Key]models.AvailabilityInfo
	mu      sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key]models.AvailabilityInfo)}
}

func (s *MemoryStore) Get(_ context.Context, key Key) (models.AvailabilityInfo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.entries[key]
	return info, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key Key, info models.AvailabilityInfo, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = info
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Keys(_ context.Context) ([]Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]Key, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

const redisKeyPrefix = "availability:"

// RedisStore shares lookups between bot instances. Entries carry a redis TTL
// so Prune has little to do there.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key Key) (models.AvailabilityInfo, bool, error) {
	data, err := s.client.Get(ctx, redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.AvailabilityInfo{}, false, nil
		}
		return models.AvailabilityInfo{}, false, fmt.Errorf("getting availability from redis: %w", err)
	}

	var info models.AvailabilityInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return models.AvailabilityInfo{}, false, fmt.Errorf("decoding availability: %w", err)
	}
	return info, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key Key, info models.AvailabilityInfo, ttl time.Duration) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding availability: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("setting availability in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("deleting availability from redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context) ([]Key, error) {
	var keys []Key
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if key, ok := parseRedisKey(iter.Val()); ok {
			keys = append(keys, key)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning availability keys: %w", err)
	}
	return keys, nil
}

// redisKey encodes the team id first since it never contains the separator,
// while player names may.
func redisKey(key Key) string {
	return redisKeyPrefix + key.TeamID + ":" + key.PlayerName
}

func parseRedisKey(raw string) (Key, bool) {
	rest, ok := strings.CutPrefix(raw, redisKeyPrefix)
	if !ok {
		return Key{}, false
	}
	teamID, name, ok := strings.Cut(rest, ":")
	if !ok {
		return Key{}, false
	}
	return Key{PlayerName: name, TeamID: teamID}, true
}
