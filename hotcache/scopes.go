package hotcache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/permissions"
	"github.com/anti-raid/cmdgate/types"
)

// ScopeStore is a scope configuration store that can also be written to
type ScopeStore interface {
	permissions.ScopeStore
	permissions.ScopeWriter
}

// ScopeEntry is a cached lookup. Absence is cached too, most commands have no configuration.
type ScopeEntry struct {
	Found  bool                      `json:"found"`
	Config *types.ScopeConfiguration `json:"config,omitempty"`
}

// ScopeCache caches scope configuration lookups. Writes go through to the store and invalidate
// the cached entry. Cache errors are logged and fall back to the store.
type ScopeCache struct {
	Store  ScopeStore
	Cache  Cache[ScopeEntry]
	TTL    time.Duration
	Logger *zap.Logger
}

func NewScopeCache(store ScopeStore, cache Cache[ScopeEntry], ttl time.Duration, logger *zap.Logger) *ScopeCache {
	return &ScopeCache{Store: store, Cache: cache, TTL: ttl, Logger: logger}
}

// NewRuedisScopeCache is NewScopeCache backed by redis
func NewRuedisScopeCache(store ScopeStore, cache RuedisHotCache[ScopeEntry], ttl time.Duration, logger *zap.Logger) *ScopeCache {
	return NewScopeCache(store, cache, ttl, logger)
}

func scopeKey(deploymentID, commandName string) string {
	return "scope:" + deploymentID + ":" + commandName
}

func (s *ScopeCache) ScopeConfiguration(ctx context.Context, commandName, deploymentID string) (*types.ScopeConfiguration, error) {
	key := scopeKey(deploymentID, commandName)

	entry, err := s.Cache.Get(ctx, key)

	if err == nil {
		return entry.Config, nil
	}

	if !IsMiss(err) {
		s.Logger.Warn("Failed to read scope configuration from cache", zap.String("key", key), zap.Error(err))
	}

	cfg, err := s.Store.ScopeConfiguration(ctx, commandName, deploymentID)

	if err != nil {
		return nil, err
	}

	err = s.Cache.Set(ctx, key, &ScopeEntry{Found: cfg != nil, Config: cfg}, s.TTL)

	if err != nil {
		s.Logger.Warn("Failed to cache scope configuration", zap.String("key", key), zap.Error(err))
	}

	return cfg, nil
}

func (s *ScopeCache) UpsertScopeConfiguration(ctx context.Context, c *types.ScopeConfiguration) error {
	if err := s.Store.UpsertScopeConfiguration(ctx, c); err != nil {
		return err
	}

	return s.invalidate(ctx, c.DeploymentID, c.CommandName)
}

func (s *ScopeCache) DeleteScopeConfiguration(ctx context.Context, deploymentID, commandName string) error {
	if err := s.Store.DeleteScopeConfiguration(ctx, deploymentID, commandName); err != nil {
		return err
	}

	return s.invalidate(ctx, deploymentID, commandName)
}

func (s *ScopeCache) invalidate(ctx context.Context, deploymentID, commandName string) error {
	return s.Cache.Delete(ctx, scopeKey(deploymentID, commandName))
}
