package utils

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// EventsListCachePrefix namespaces the cached GET /events/getEvents responses.
const EventsListCachePrefix = "cache:events:list:"

type CacheInvalidator struct{ rdb *redis.Client }

func NewCacheInvalidator(rdb *redis.Client) *CacheInvalidator { return &CacheInvalidator{rdb} }

// PurgeEventsList drops every cached events listing. Each mutation of the
// events collection calls it; errors are ignored and the TTL covers misses.
func (ci *CacheInvalidator) PurgeEventsList(ctx context.Context) {
	if ci == nil || ci.rdb == nil {
		return
	}
	// SCAN instead of KEYS so a large keyspace does not block redis
	iter := ci.rdb.Scan(ctx, 0, EventsListCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		_ = ci.rdb.Del(ctx, iter.Val()).Err()
	}
}
