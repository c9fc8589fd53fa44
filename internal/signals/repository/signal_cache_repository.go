package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wealth-signals/internal/entity"
	"wealth-signals/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

type signalCacheEntry struct {
	Signal    entity.Signal `json:"signal"`
	FetchedAt time.Time     `json:"fetched_at"`
}

func (e signalCacheEntry) fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// memorySignalCache keeps entries for the process lifetime. Expired entries
// are ignored on read and replaced by the next Put; nothing sweeps them.
type memorySignalCache struct {
	store *cache.Cache
	ttl   time.Duration
	now   Clock
}

// NewMemorySignalCache creates an in-process SignalCacheRepository. A nil clock means time.Now.
func NewMemorySignalCache(ttl time.Duration, now Clock) SignalCacheRepository {
	if now == nil {
		now = time.Now
	}
	return &memorySignalCache{
		store: cache.New(cache.NoExpiration, 0),
		ttl:   ttl,
		now:   now,
	}
}

func (c *memorySignalCache) Get(_ context.Context, ticker string) (entity.Signal, bool) {
	v, ok := c.store.Get(ticker)
	if !ok {
		return entity.Signal{}, false
	}
	entry, ok := v.(signalCacheEntry)
	if !ok || !entry.fresh(c.now(), c.ttl) {
		return entity.Signal{}, false
	}
	return entry.Signal, true
}

func (c *memorySignalCache) Put(_ context.Context, ticker string, signal entity.Signal) {
	c.store.Set(ticker, signalCacheEntry{Signal: signal, FetchedAt: c.now()}, cache.NoExpiration)
}

// redisSignalCache shares entries between service instances. Redis expires keys
// after the TTL; freshness is still checked against the clock on read.
type redisSignalCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	now       Clock
	log       *logger.Logger
}

// NewRedisSignalCache creates a Redis-backed SignalCacheRepository.
func NewRedisSignalCache(client *redis.Client, keyPrefix string, ttl time.Duration, now Clock, log *logger.Logger) SignalCacheRepository {
	if now == nil {
		now = time.Now
	}
	return &redisSignalCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		now:       now,
		log:       log,
	}
}

func (c *redisSignalCache) Get(ctx context.Context, ticker string) (entity.Signal, bool) {
	data, err := c.client.Get(ctx, c.keyPrefix+ticker).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.ErrorContext(ctx, "Failed to read cached signal", logger.ErrorField(err), logger.StringField("ticker", ticker))
		}
		return entity.Signal{}, false
	}

	var entry signalCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.log.ErrorContext(ctx, "Failed to decode cached signal", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return entity.Signal{}, false
	}
	if !entry.fresh(c.now(), c.ttl) {
		return entity.Signal{}, false
	}
	return entry.Signal, true
}

func (c *redisSignalCache) Put(ctx context.Context, ticker string, signal entity.Signal) {
	data, err := json.Marshal(signalCacheEntry{Signal: signal, FetchedAt: c.now()})
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to encode signal for cache", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return
	}
	if err := c.client.Set(ctx, c.keyPrefix+ticker, data, c.ttl).Err(); err != nil {
		c.log.ErrorContext(ctx, "Failed to cache signal", logger.ErrorField(err), logger.StringField("ticker", ticker))
	}
}
