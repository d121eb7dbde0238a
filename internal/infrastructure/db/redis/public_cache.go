package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/pkg/metrics"
)

const (
	DefaultPublicCacheTTL = 30 * time.Second
	publicKeyPrefix       = "public_resume:"
)

// PublicResumeCache keeps serialized public resumes keyed by link.
// Key format: public_resume:<link>
type PublicResumeCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewPublicResumeCache wraps client. A non-positive ttl falls back to
// DefaultPublicCacheTTL.
func NewPublicResumeCache(client redis.Cmdable, ttl time.Duration) *PublicResumeCache {
	if ttl <= 0 {
		ttl = DefaultPublicCacheTTL
	}
	return &PublicResumeCache{client: client, ttl: ttl}
}

// Get returns the cached resume for link. A miss is (nil, false, nil).
func (c *PublicResumeCache) Get(ctx context.Context, link string) (*domain.Resume, bool, error) {
	raw, err := c.client.Get(ctx, key(link)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.PublicCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.PublicCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("public cache get: %w", err)
	}

	var r domain.Resume
	if err := json.Unmarshal(raw, &r); err != nil {
		metrics.PublicCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("public cache decode: %w", err)
	}
	metrics.PublicCacheTotal.WithLabelValues("hit").Inc()
	return &r, true, nil
}

// Set stores resume under its public link. Resumes without a link are ignored.
func (c *PublicResumeCache) Set(ctx context.Context, resume *domain.Resume) error {
	if resume == nil || resume.PublicURL == "" {
		return nil
	}
	raw, err := json.Marshal(resume)
	if err != nil {
		return fmt.Errorf("public cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key(resume.PublicURL), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("public cache set: %w", err)
	}
	return nil
}

func (c *PublicResumeCache) Invalidate(ctx context.Context, link string) error {
	if link == "" {
		return nil
	}
	if err := c.client.Del(ctx, key(link)).Err(); err != nil {
		return fmt.Errorf("public cache invalidate: %w", err)
	}
	return nil
}

func key(link string) string {
	return publicKeyPrefix + link
}
