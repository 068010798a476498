package history

import (
	"context"
	"encoding/json"

	"github.com/2beens/overload/internal/progression"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	// 0 means no expiration, entries are evicted by size or replaced on Put
	cacheExpireSeconds = 0
	// freecache refuses entries larger than 1/1024 of its size; a client
	// week with many exercises and sets serializes to tens of KB
	maxCachedEntryBytes = 32 * 1024
	MinCacheSizeBytes   = 1024 * maxCachedEntryBytes
)

// CachedRepo keeps recently read or written week goals in memory, in
// front of the given repository.
type CachedRepo struct {
	repo  Repository
	cache *freecache.Cache
}

// NewCachedRepo raises cacheSizeBytes to MinCacheSizeBytes when smaller.
func NewCachedRepo(repo Repository, cacheSizeBytes int) *CachedRepo {
	if cacheSizeBytes < MinCacheSizeBytes {
		log.Infof("history cache size %d raised to %d bytes", cacheSizeBytes, MinCacheSizeBytes)
		cacheSizeBytes = MinCacheSizeBytes
	}
	return &CachedRepo{
		repo:  repo,
		cache: freecache.NewCache(cacheSizeBytes),
	}
}

func (r *CachedRepo) Get(ctx context.Context, clientID, weekID string) (*progression.WeekGoals, error) {
	key := []byte(goalsKey(clientID, weekID))
	if goalsBytes, err := r.cache.Get(key); err == nil {
		var goals progression.WeekGoals
		if err := json.Unmarshal(goalsBytes, &goals); err == nil {
			log.Tracef("week goals [%s / %s] found in cache", clientID, weekID)
			return &goals, nil
		} else {
			log.Errorf("failed to unmarshal cached week goals [%s / %s]: %s", clientID, weekID, err)
		}
	}

	goals, err := r.repo.Get(ctx, clientID, weekID)
	if err != nil {
		return nil, err
	}
	r.store(goals)

	return goals, nil
}

func (r *CachedRepo) Put(ctx context.Context, goals *progression.WeekGoals) error {
	if goals != nil {
		r.cache.Del([]byte(goalsKey(goals.ClientID, goals.WeekID)))
	}
	if err := r.repo.Put(ctx, goals); err != nil {
		return err
	}
	r.store(goals)
	return nil
}

func (r *CachedRepo) store(goals *progression.WeekGoals) {
	goalsBytes, err := json.Marshal(goals)
	if err != nil {
		log.Errorf("failed to marshal week goals for cache: %s", err)
		return
	}
	if err := r.cache.Set([]byte(goalsKey(goals.ClientID, goals.WeekID)), goalsBytes, cacheExpireSeconds); err != nil {
		log.Warnf("week goals [%s / %s] not cached (%d bytes): %s", goals.ClientID, goals.WeekID, len(goalsBytes), err)
	}
}
