package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"pathform/internal/model"
)

// StatsCache keeps per-survey response counters for the author dashboard
type StatsCache interface {
	IncrStarted(ctx context.Context, surveyID string) error
	IncrCompleted(ctx context.Context, surveyID string) error
	IncrRejected(ctx context.Context, surveyID string) error
	Get(ctx context.Context, surveyID string) (*model.SurveyStats, error)
	Delete(ctx context.Context, surveyID string) error
}

type statsCache struct {
	client *redis.Client
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{client: client}
}

func (c *statsCache) key(surveyID string) string {
	return fmt.Sprintf("survey:stats:%s", surveyID)
}

func (c *statsCache) IncrStarted(ctx context.Context, surveyID string) error {
	return c.client.HIncrBy(ctx, c.key(surveyID), "started", 1).Err()
}

func (c *statsCache) IncrCompleted(ctx context.Context, surveyID string) error {
	return c.client.HIncrBy(ctx, c.key(surveyID), "completed", 1).Err()
}

func (c *statsCache) IncrRejected(ctx context.Context, surveyID string) error {
	return c.client.HIncrBy(ctx, c.key(surveyID), "rejected", 1).Err()
}

func (c *statsCache) Get(ctx context.Context, surveyID string) (*model.SurveyStats, error) {
	fields, err := c.client.HGetAll(ctx, c.key(surveyID)).Result()
	if err != nil {
		return nil, err
	}
	stats := &model.SurveyStats{}
	stats.Started, _ = strconv.ParseInt(fields["started"], 10, 64)
	stats.Completed, _ = strconv.ParseInt(fields["completed"], 10, 64)
	stats.Rejected, _ = strconv.ParseInt(fields["rejected"], 10, 64)
	return stats, nil
}

func (c *statsCache) Delete(ctx context.Context, surveyID string) error {
	return c.client.Del(ctx, c.key(surveyID)).Err()
}
