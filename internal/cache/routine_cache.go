package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/repository"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	megabyte               = 1024 * 1024
	defaultCacheSizeMB     = 16
	defaultRoutineCacheTTL = 10 * time.Minute
)

// RoutineCache is a read-through cache in front of a RoutineRepository.
// Routine details rarely change and every resolved day joins them, so
// entries are kept per routine ID for a fixed TTL. Nothing in this service
// edits routines, so expiry is the only eviction path and an edit made
// elsewhere shows up once the TTL lapses.
type RoutineCache struct {
	next    repository.RoutineRepository
	cache   *freecache.Cache
	ttl     time.Duration
	metrics *metrics.Manager
}

var _ repository.RoutineRepository = (*RoutineCache)(nil)

func NewRoutineCache(next repository.RoutineRepository, sizeMB int, ttl time.Duration, metricsManager *metrics.Manager) *RoutineCache {
	if sizeMB <= 0 {
		sizeMB = defaultCacheSizeMB
	}
	if ttl <= 0 {
		ttl = defaultRoutineCacheTTL
	}
	return &RoutineCache{
		next:    next,
		cache:   freecache.NewCache(sizeMB * megabyte),
		ttl:     ttl,
		metrics: metricsManager,
	}
}

// GetRoutineDetails serves what it can from the cache and fetches the rest
// in one call to the wrapped repository. Misses that the repository does
// not return are simply absent from the result, the same as uncached reads.
func (c *RoutineCache) GetRoutineDetails(ctx context.Context, ids []primitive.ObjectID) ([]domain.RoutineDetail, error) {
	if len(ids) == 0 {
		return []domain.RoutineDetail{}, nil
	}

	found := make(map[primitive.ObjectID]domain.RoutineDetail, len(ids))
	var missing []primitive.ObjectID
	for _, id := range ids {
		if detail, ok := c.get(id); ok {
			found[id] = detail
			c.metrics.RoutineCacheLookup(true)
			continue
		}
		c.metrics.RoutineCacheLookup(false)
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		fetched, err := c.next.GetRoutineDetails(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, detail := range fetched {
			found[detail.ID] = detail
			c.set(detail)
		}
	}

	result := make([]domain.RoutineDetail, 0, len(found))
	for _, id := range ids {
		if detail, ok := found[id]; ok {
			result = append(result, detail)
			delete(found, id)
		}
	}
	return result, nil
}

// EntryCount returns the number of cached routines.
func (c *RoutineCache) EntryCount() int64 {
	return c.cache.EntryCount()
}

func (c *RoutineCache) get(id primitive.ObjectID) (domain.RoutineDetail, bool) {
	var detail domain.RoutineDetail
	raw, err := c.cache.Get(cacheKey(id))
	if err != nil {
		return detail, false
	}
	if err := json.Unmarshal(raw, &detail); err != nil {
		log.Errorf("failed to unmarshal cached routine %s: %s", id.Hex(), err)
		c.cache.Del(cacheKey(id))
		return detail, false
	}
	return detail, true
}

func (c *RoutineCache) set(detail domain.RoutineDetail) {
	raw, err := json.Marshal(detail)
	if err != nil {
		log.Errorf("failed to marshal routine %s for cache: %s", detail.ID.Hex(), err)
		return
	}
	if err := c.cache.Set(cacheKey(detail.ID), raw, int(c.ttl.Seconds())); err != nil {
		log.Errorf("failed to cache routine %s: %s", detail.ID.Hex(), err)
	}
}

func cacheKey(id primitive.ObjectID) []byte {
	return []byte(fmt.Sprintf("routine::%s", id.Hex()))
}
