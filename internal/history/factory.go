package history

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreFile     = "file"
)

type NewRepositoryParams struct {
	Store          string
	DBPool         *pgxpool.Pool
	RedisClient    *redis.Client
	FilePath       string
	CacheSizeBytes int // no cache when 0
}

// NewRepository builds the goals repository for the configured store,
// optionally fronted by an in-memory cache.
func NewRepository(params NewRepositoryParams) (Repository, error) {
	var repo Repository
	switch params.Store {
	case StorePostgres:
		if params.DBPool == nil {
			return nil, fmt.Errorf("%s store: db pool not set", params.Store)
		}
		repo = NewPostgresRepo(params.DBPool)
	case StoreRedis:
		if params.RedisClient == nil {
			return nil, fmt.Errorf("%s store: redis client not set", params.Store)
		}
		repo = NewRedisRepo(params.RedisClient)
	case StoreFile:
		fileRepo, err := NewFileRepo(params.FilePath)
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", params.Store, err)
		}
		repo = fileRepo
	default:
		return nil, fmt.Errorf("unknown history store: %s", params.Store)
	}

	if params.CacheSizeBytes > 0 {
		return NewCachedRepo(repo, params.CacheSizeBytes), nil
	}
	return repo, nil
}
