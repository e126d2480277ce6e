package utils

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
)

// Explicit response cache keyed by (entity, filter) tuples. Every cached key
// is also tracked in a per-entity Redis set so InvalidateEntity can drop all
// cached views of an entity after a write, without a FLUSHALL.

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

// CacheKey builds a deterministic key for an entity + filter tuple. Filter
// pairs are sorted so logically equal filters share a key.
func CacheKey(entity string, filter map[string]string) string {
	if len(filter) == 0 {
		return "Cache:" + entity + ":all"
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+filter[k])
	}
	return "Cache:" + entity + ":" + strings.Join(parts, "&")
}

func cacheIndexKey(entity string) string {
	return "CacheKeys:" + entity
}

// GetCached loads a cached view into dest. Returns false on miss.
func GetCached(entity string, filter map[string]string, dest interface{}) (bool, error) {
	return config.GetRedisObject(CacheKey(entity, filter), dest)
}

// StoreCached stores a view and indexes its key for later invalidation.
func StoreCached(entity string, filter map[string]string, obj interface{}) error {
	key := CacheKey(entity, filter)
	if err := config.SetRedisObject(key, obj, GetCacheLifespan()); err != nil {
		return err
	}
	return config.AddRedisSet(cacheIndexKey(entity), key)
}

// InvalidateEntity removes every cached view of the entity. Called after any
// write-through to the platform backend and after a queue flush.
func InvalidateEntity(entity string) error {
	indexKey := cacheIndexKey(entity)
	members, err := config.GetRedisSetMembers(indexKey)
	if err != nil {
		return err
	}
	if len(members) > 0 {
		if err := config.RemoveRedisKey(members...); err != nil {
			return err
		}
	}
	return config.RemoveRedisKey(indexKey)
}

// InvalidateEntities is shorthand for invalidating several entities at once
// (the flush routine touches Attendance plus anything a patch referenced).
func InvalidateEntities(entities ...string) error {
	for _, e := range entities {
		if err := InvalidateEntity(e); err != nil {
			return fmt.Errorf("invalidate %s: %w", e, err)
		}
	}
	return nil
}
