package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// defaultKeyPrefix namespaces every key this service writes
const defaultKeyPrefix = "supercaptions:"

// redisOpTimeout bounds each backend call on top of the caller's context
const redisOpTimeout = 2 * time.Second

// redisCache stores each entry as its own string key with a PX expiry, so Redis
// drops stale caption lists and payloads by itself. A per-group sorted set
// ({prefix}index, score = write time in ms) enforces the size bound: the oldest
// writes are evicted first. Works on any Redis 6+ or Valkey.
type redisCache struct {
	client   *redis.Client
	ttl      time.Duration
	maxSize  int
	onEvict  EvictCallback
	logger   zerolog.Logger
	prefix   string // e.g. "supercaptions:search:"
	indexKey string
}

// storeAndTrim writes one entry, drops index members older than the TTL and
// evicts the oldest writes beyond the size bound.
//
// KEYS[1] = entry key, KEYS[2] = index key
// ARGV[1] = value, ARGV[2] = now (ms), ARGV[3] = TTL (ms), ARGV[4] = max size,
// ARGV[5] = member (caller key), ARGV[6] = key prefix
//
// Returns the evicted members.
var storeAndTrim = redis.NewScript(`
local now = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])
local maxSize = tonumber(ARGV[4])

redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
redis.call('ZADD', KEYS[2], now, ARGV[5])
redis.call('ZREMRANGEBYSCORE', KEYS[2], '-inf', '(' .. tostring(now - ttl))
redis.call('PEXPIRE', KEYS[2], ttl)

local evicted = {}
if maxSize > 0 then
    local excess = redis.call('ZCARD', KEYS[2]) - maxSize
    if excess > 0 then
        evicted = redis.call('ZRANGE', KEYS[2], 0, excess - 1)
        for _, member in ipairs(evicted) do
            redis.call('DEL', ARGV[6] .. member)
        end
        redis.call('ZREMRANGEBYRANK', KEYS[2], 0, excess - 1)
    end
end
return evicted
`)

func newRedisCache(opts Options) (*redisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Redis.Address,
		Password: opts.Redis.Password,
		DB:       opts.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Redis.Address, err)
	}

	prefix := opts.Redis.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
		if opts.Group != "" {
			prefix += opts.Group + ":"
		}
	}
	return &redisCache{
		client:   client,
		ttl:      opts.TTL,
		maxSize:  opts.Size,
		onEvict:  opts.OnEvict,
		logger:   opts.logger(),
		prefix:   prefix,
		indexKey: prefix + "index",
	}, nil
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Error().Err(err).Str("key", key).Msg("Redis cache read failed")
		}
		return nil, false
	}
	return value, true
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	evicted, err := storeAndTrim.Run(ctx, r.client,
		[]string{r.prefix + key, r.indexKey},
		value,
		time.Now().UnixMilli(),
		r.ttl.Milliseconds(),
		r.maxSize,
		key,
		r.prefix,
	).StringSlice()
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("Redis cache write failed")
		return
	}

	if r.onEvict != nil {
		for _, member := range evicted {
			r.onEvict(member, nil)
		}
	}
}

func (r *redisCache) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.prefix+key)
	pipe.ZRem(ctx, r.indexKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("Redis cache delete failed")
	}
}

// Len counts index members written within the TTL
func (r *redisCache) Len(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	oldest := time.Now().Add(-r.ttl).UnixMilli()
	n, err := r.client.ZCount(ctx, r.indexKey, "("+strconv.FormatInt(oldest, 10), "+inf").Result()
	if err != nil {
		r.logger.Error().Err(err).Msg("Redis cache count failed")
		return 0
	}
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
