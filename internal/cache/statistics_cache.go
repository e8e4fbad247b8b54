package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MartellOnell/testwork/internal/dto"
	"github.com/redis/go-redis/v9"
)

// StatisticsCache keeps computed survey statistics hot for the owner
// dashboard. Entries expire on their own; writers never invalidate.
type StatisticsCache interface {
	Get(ctx context.Context, surveyID uint) (*dto.SurveyStatisticsDTO, error)
	Set(ctx context.Context, stats *dto.SurveyStatisticsDTO) error
}

type statisticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatisticsCache wraps the Redis client. A nil client is allowed and
// turns the cache into a no-op so the service runs without Redis configured.
func NewStatisticsCache(client *redis.Client) StatisticsCache {
	return &statisticsCache{
		client: client,
		ttl:    60 * time.Second,
	}
}

func (c *statisticsCache) key(surveyID uint) string {
	return fmt.Sprintf("survey:%d:statistics", surveyID)
}

func (c *statisticsCache) Get(ctx context.Context, surveyID uint) (*dto.SurveyStatisticsDTO, error) {
	if c.client == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, c.key(surveyID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats dto.SurveyStatisticsDTO
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *statisticsCache) Set(ctx context.Context, stats *dto.SurveyStatisticsDTO) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(stats.SurveyID), data, c.ttl).Err()
}
