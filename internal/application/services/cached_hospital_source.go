package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wecare/hospitalbot/internal/domain/entities"
	"github.com/wecare/hospitalbot/internal/domain/providers"
	"github.com/wecare/hospitalbot/internal/infrastructure/observability"
)

// CachedHospitalSource wraps a HospitalSource with a read-through cache
type CachedHospitalSource struct {
	source providers.HospitalSource
	cache  providers.CacheProvider
	key    string
	ttl    int
}

// NewCachedHospitalSource creates a cached hospital source. ttlSeconds <= 0
// falls back to five minutes.
func NewCachedHospitalSource(source providers.HospitalSource, cache providers.CacheProvider, policy string, ttlSeconds int) providers.HospitalSource {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &CachedHospitalSource{
		source: source,
		cache:  cache,
		key:    hospitalsCacheKey(policy),
		ttl:    ttlSeconds,
	}
}

func hospitalsCacheKey(policy string) string {
	return "hospitals:" + policy
}

// FetchHospitals serves from cache when possible. Empty results are never
// cached so a failed fetch is retried on the next turn.
func (s *CachedHospitalSource) FetchHospitals(ctx context.Context) []entities.Hospital {
	logger := observability.LoggerFromContext(ctx)

	cached, err := s.cache.Get(ctx, s.key)
	switch {
	case err == nil:
		var hospitals []entities.Hospital
		if err := json.Unmarshal(cached, &hospitals); err == nil && len(hospitals) > 0 {
			logger.Debug().Str("key", s.key).Int("hospitals", len(hospitals)).Msg("hospital cache hit")
			return hospitals
		}
		logger.Warn().Str("key", s.key).Msg("discarding unreadable hospital cache entry")
	case errors.Is(err, providers.ErrCacheMiss):
		logger.Debug().Str("key", s.key).Msg("hospital cache miss")
	default:
		logger.Warn().Err(err).Str("key", s.key).Msg("hospital cache unavailable")
	}

	hospitals := s.source.FetchHospitals(ctx)
	if len(hospitals) == 0 {
		return hospitals
	}

	data, err := json.Marshal(hospitals)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to encode hospitals for cache")
		return hospitals
	}
	if err := s.cache.Set(ctx, s.key, data, s.ttl); err != nil {
		logger.Warn().Err(err).Str("key", s.key).Msg("failed to cache hospitals")
	}
	return hospitals
}
