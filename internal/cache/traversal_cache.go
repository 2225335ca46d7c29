package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pathform/internal/flow"
)

// TraversalState is the in-flight state of one respondent: accumulated
// answers plus the engine's traversal position. Abandoned responses are
// never advanced again and simply expire with the key.
type TraversalState struct {
	SurveyID  string            `json:"surveyId"`
	TenantID  string            `json:"tenantId"`
	Answers   map[string]string `json:"answers"`
	Traversal *flow.Traversal   `json:"traversal"`
}

// TraversalCache holds per-respondent traversal state in Redis
type TraversalCache interface {
	Set(ctx context.Context, responseID string, state *TraversalState) error
	Get(ctx context.Context, responseID string) (*TraversalState, error)
	Delete(ctx context.Context, responseID string) error
}

type traversalCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTraversalCache creates a new traversal state cache
func NewTraversalCache(client *redis.Client) TraversalCache {
	return &traversalCache{
		client: client,
		ttl:    24 * time.Hour, // in-flight responses expire after 24h
	}
}

func (c *traversalCache) key(responseID string) string {
	return fmt.Sprintf("response:state:%s", responseID)
}

func (c *traversalCache) Set(ctx context.Context, responseID string, state *TraversalState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(responseID), data, c.ttl).Err()
}

func (c *traversalCache) Get(ctx context.Context, responseID string) (*TraversalState, error) {
	data, err := c.client.Get(ctx, c.key(responseID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state TraversalState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *traversalCache) Delete(ctx context.Context, responseID string) error {
	return c.client.Del(ctx, c.key(responseID)).Err()
}
