package upstream

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisCache is an optional second cache tier shared across gateway
// instances. Unlike the in-process LRU it outlives the process, so entries
// carry a TTL. All failures degrade silently to a miss; Redis being down
// must never fail a request.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// NewRedisCache connects to url ("redis://host:6379/0"). Returns (nil, nil)
// when url is empty; a nil *RedisCache is a valid no-op tier.
func NewRedisCache(url string, ttl time.Duration, log *logrus.Logger) (*RedisCache, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	log.Info("redis fetch cache enabled")
	return &RedisCache{client: client, ttl: ttl, log: log}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if r == nil {
		return nil, false
	}
	val, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.log.WithError(err).Warn("redis get failed")
		return nil, false
	}
	return val, true
}

func (r *RedisCache) Put(ctx context.Context, key string, body []byte) {
	if r == nil {
		return
	}
	if err := r.client.Set(ctx, redisKey(key), body, r.ttl).Err(); err != nil {
		r.log.WithError(err).Warn("redis set failed")
	}
}

// Ping reports backend reachability, for /healthz.
func (r *RedisCache) Ping(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

// redisKey hashes the cache key: fetch keys embed provider credentials and
// must not appear verbatim in Redis.
func redisKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "xgw:fetch:" + hex.EncodeToString(sum[:16])
}
