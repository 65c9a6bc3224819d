package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	CatalogCachePrefix = "catalog:v:"
	CacheVersionKey    = "catalog:version"
)

// CacheManager caches the public catalog listing in Redis. Invalidation is
// by version: every product mutation bumps the version key, orphaning old
// entries until their TTL expires.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(rdb *redis.Client) *CacheManager {
	return &CacheManager{redis: rdb, ttl: DefaultCacheTTL}
}

// GetCatalogPage retrieves a cached catalog page, if present.
func (cm *CacheManager) GetCatalogPage(ctx context.Context, page, perPage int) (map[string]interface{}, bool) {
	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}
	cached, err := cm.redis.Get(ctx, cm.pageKey(version, page, perPage)).Result()
	if err != nil {
		return nil, false
	}
	var response map[string]interface{}
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		zap.L().Warn("Failed to unmarshal cached catalog page", zap.Error(err))
		return nil, false
	}
	return response, true
}

// SetCatalogPageAsync caches a catalog page without blocking the response.
func (cm *CacheManager) SetCatalogPageAsync(page, perPage int, response map[string]interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(ctx)
		if err != nil || version == 0 {
			return
		}
		jsonBytes, err := json.Marshal(response)
		if err != nil {
			zap.L().Warn("Failed to marshal catalog page for cache", zap.Error(err))
			return
		}
		if err := cm.redis.Set(ctx, cm.pageKey(version, page, perPage), jsonBytes, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache catalog page", zap.Error(err))
		}
	}()
}

// ProductsChanged bumps the cache version, invalidating every cached page.
// Implements the services change-notifier contract.
func (cm *CacheManager) ProductsChanged() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cm.redis.Incr(ctx, CacheVersionKey).Err(); err != nil {
			zap.L().Warn("Failed to bump catalog cache version", zap.Error(err))
		}
	}()
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	version, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err == redis.Nil {
		if err := cm.redis.Set(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (cm *CacheManager) pageKey(version int64, page, perPage int) string {
	return fmt.Sprintf("%s%d:p%d:n%d", CatalogCachePrefix, version, page, perPage)
}
