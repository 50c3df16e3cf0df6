package geosession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/showfinder/internal/domain/location"
	"github.com/geocoder89/showfinder/internal/redisclient"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session locations in redis so every API replica sees them.
type RedisStore struct {
	c   *redisclient.Client
	ttl time.Duration
}

func NewRedisStore(c *redisclient.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &RedisStore{c: c, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, key string, loc location.Location) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return err
	}

	ctx, cancel := s.c.OpContext(ctx)
	defer cancel()

	if err := s.c.Redis().Set(ctx, s.c.Key("geosession", key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("geosession save: %w", err)
	}

	return nil
}

func (s *RedisStore) Load(ctx context.Context, key string) (location.Location, bool, error) {
	ctx, cancel := s.c.OpContext(ctx)
	defer cancel()

	raw, err := s.c.Redis().Get(ctx, s.c.Key("geosession", key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return location.Location{}, false, nil
	}
	if err != nil {
		return location.Location{}, false, fmt.Errorf("geosession load: %w", err)
	}

	var loc location.Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return location.Location{}, false, fmt.Errorf("geosession decode: %w", err)
	}

	return loc, true, nil
}
