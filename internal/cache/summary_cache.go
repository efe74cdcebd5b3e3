package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/segyhp/loan-tracker/internal/domain"
)

// SummaryCache stores computed loan summaries between requests
type SummaryCache interface {
	// Get returns the cached summary, or nil when there is none
	Get(ctx context.Context, loanID string) (*domain.LoanSummary, error)

	// Set stores a summary for at most ttl, capped by the cache's own TTL.
	// A non-positive ttl uses the cache's TTL.
	Set(ctx context.Context, summary *domain.LoanSummary, ttl time.Duration) error
	Invalidate(ctx context.Context, loanID string) error
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) SummaryCache {
	return &redisSummaryCache{client: client, ttl: ttl}
}

func summaryKey(loanID string) string {
	return fmt.Sprintf("loan:summary:%s", loanID)
}

func (c *redisSummaryCache) Get(ctx context.Context, loanID string) (*domain.LoanSummary, error) {
	raw, err := c.client.Get(ctx, summaryKey(loanID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var summary domain.LoanSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("decode cached summary: %w", err)
	}
	return &summary, nil
}

func (c *redisSummaryCache) Set(ctx context.Context, summary *domain.LoanSummary, ttl time.Duration) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return c.client.Set(ctx, summaryKey(summary.LoanID), raw, expiry(c.ttl, ttl)).Err()
}

func expiry(max, requested time.Duration) time.Duration {
	if requested <= 0 || requested > max {
		return max
	}
	return requested
}

func (c *redisSummaryCache) Invalidate(ctx context.Context, loanID string) error {
	return c.client.Del(ctx, summaryKey(loanID)).Err()
}
