package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mindpath/internal/model"
)

// ResultCache is a read-through Redis cache of completed analysis
// results, serving the poller fast path.
type ResultCache interface {
	Get(ctx context.Context, submissionID string) (*model.AnalysisResult, error)
	Set(ctx context.Context, result *model.AnalysisResult) error
	Ping(ctx context.Context) error
}

type resultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a new result cache
func NewResultCache(client *redis.Client) ResultCache {
	return &resultCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *resultCache) key(submissionID string) string {
	return fmt.Sprintf("submission:%s:result", submissionID)
}

func (c *resultCache) Get(ctx context.Context, submissionID string) (*model.AnalysisResult, error) {
	data, err := c.client.Get(ctx, c.key(submissionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *resultCache) Set(ctx context.Context, result *model.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(result.SubmissionID), data, c.ttl).Err()
}

func (c *resultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
