// Package location serves the wilaya/commune/center reference data through a
// cache, so the wilaya list is effectively fetched once per session instead
// of on every form mount.
package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rbenali/kahina/internal/cache"
	"github.com/rbenali/kahina/internal/domain"
)

const defaultTTL = 6 * time.Hour

// Service implements domain.Directory on top of an upstream directory and a
// cache. Cache failures degrade to a direct fetch; they never fail a lookup.
type Service struct {
	upstream domain.Directory
	cache    cache.Cache
	ttl      time.Duration
	logger   *slog.Logger
}

func NewService(upstream domain.Directory, c cache.Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl == 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{upstream: upstream, cache: c, ttl: ttl, logger: logger}
}

// ListWilayas returns the wilaya list, cached under a single key.
func (s *Service) ListWilayas(ctx context.Context) ([]domain.Wilaya, error) {
	return cached(ctx, s, "directory:wilayas", func() ([]domain.Wilaya, error) {
		return s.upstream.ListWilayas(ctx)
	})
}

// ListCommunes returns a wilaya's communes, cached per wilaya ID.
func (s *Service) ListCommunes(ctx context.Context, wilayaID int) ([]domain.Commune, error) {
	key := fmt.Sprintf("directory:communes:%d", wilayaID)
	return cached(ctx, s, key, func() ([]domain.Commune, error) {
		return s.upstream.ListCommunes(ctx, wilayaID)
	})
}

// ListCenters returns a commune's stop-desk centers, cached per commune ID.
func (s *Service) ListCenters(ctx context.Context, communeID int) ([]domain.Center, error) {
	key := fmt.Sprintf("directory:centers:%d", communeID)
	return cached(ctx, s, key, func() ([]domain.Center, error) {
		return s.upstream.ListCenters(ctx, communeID)
	})
}

// cached runs the cache-aside pattern for one directory list. Upstream errors
// are returned as-is so callers can surface a retry-capable error state; they
// are never masked by an empty cached list.
func cached[T any](ctx context.Context, s *Service, key string, fetch func() ([]T, error)) ([]T, error) {
	if data, err := s.cache.Get(ctx, key); err == nil {
		var out []T
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		// Corrupt entry: drop it and fall through to the fetch.
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to drop corrupt cache entry", "key", key, "error", err)
		}
	} else if err != cache.ErrCacheMiss {
		s.logger.Warn("directory cache read failed", "key", key, "error", err)
	}

	out, err := fetch()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("directory cache write failed", "key", key, "error", err)
		}
	}

	return out, nil
}
