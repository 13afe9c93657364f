package redis

import (
	"context"
	"time"

	"github.com/agreemshield/agreemshield/internal/domain/analysis"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

const contextKeyPrefix = "chat:ctx:"

// ContextCache keeps recently discussed analyses in Redis so the chat
// assistant can answer follow-up questions without another repository load.
// Failures degrade to a cache miss; the assistant falls back to the
// repository either way.
type ContextCache struct {
	cache  Cache
	ttl    time.Duration
	logger logging.Logger
}

// NewContextCache builds the chat context cache. A zero ttl uses the cache
// layer's default.
func NewContextCache(cache Cache, ttl time.Duration, log logging.Logger) *ContextCache {
	return &ContextCache{cache: cache, ttl: ttl, logger: log}
}

// Get returns the cached analysis, or false on miss or error.
func (c *ContextCache) Get(ctx context.Context, id common.ID) (*analysis.Analysis, bool) {
	var a analysis.Analysis
	err := c.cache.Get(ctx, contextKeyPrefix+string(id), &a)
	if err == ErrCacheMiss {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Chat context cache read failed", logging.Err(err))
		return nil, false
	}
	return &a, true
}

// Set stores the analysis for follow-up questions. Errors are logged, not
// returned; a cold cache only costs a repository round trip.
func (c *ContextCache) Set(ctx context.Context, a *analysis.Analysis) {
	if a == nil {
		return
	}
	if err := c.cache.Set(ctx, contextKeyPrefix+string(a.ID), a, c.ttl); err != nil {
		c.logger.Warn("Chat context cache write failed", logging.Err(err))
	}
}
