package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
	"github.com/resumeforge/resume-api/internal/pkg/metrics"
)

const (
	PublicLinkLength = 8
	publicLinkChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	DefaultLinkAttempts = 10
)

var linkCharCount = big.NewInt(int64(len(publicLinkChars)))

// GeneratePublicLink returns a uniformly random alphanumeric token.
func GeneratePublicLink() (string, error) {
	b := make([]byte, PublicLinkLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, linkCharCount)
		if err != nil {
			return "", err
		}
		b[i] = publicLinkChars[n.Int64()]
	}
	return string(b), nil
}

// PublicLinkAllocator assigns each resume a unique public link exactly once.
type PublicLinkAllocator struct {
	store       ports.PublicLinkStore
	generate    func() (string, error)
	maxAttempts int
	log         zerolog.Logger
}

func NewPublicLinkAllocator(store ports.PublicLinkStore, maxAttempts int, log zerolog.Logger) *PublicLinkAllocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultLinkAttempts
	}
	return &PublicLinkAllocator{
		store:       store,
		generate:    GeneratePublicLink,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// Allocate returns the resume's public link, claiming a new one if it has
// none. Collisions are retried up to maxAttempts times, after which
// domain.ErrAllocationExhausted is returned.
func (a *PublicLinkAllocator) Allocate(ctx context.Context, resumeID int64) (string, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		candidate, err := a.generate()
		if err != nil {
			return "", fmt.Errorf("generate public link: %w", err)
		}

		link, err := a.store.ClaimPublicLink(ctx, resumeID, candidate)
		switch {
		case err == nil:
			result := "allocated"
			if link != candidate {
				result = "reused"
			}
			metrics.PublicLinkAllocationsTotal.WithLabelValues(result).Inc()
			return link, nil
		case errors.Is(err, domain.ErrPublicLinkTaken):
			metrics.PublicLinkAllocationsTotal.WithLabelValues("collision").Inc()
			a.log.Debug().Int64("resume_id", resumeID).Int("attempt", attempt).Msg("public link collision")
		default:
			return "", err
		}
	}

	metrics.PublicLinkAllocationsTotal.WithLabelValues("exhausted").Inc()
	a.log.Error().Int64("resume_id", resumeID).Int("attempts", a.maxAttempts).Msg("public link allocation exhausted")
	return "", fmt.Errorf("resume %d: %w", resumeID, domain.ErrAllocationExhausted)
}
