package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/evroute/charge-planner/internal/domain"
)

// Live status goes stale quickly; keep entries short-lived.
const statusTTL = 60 * time.Second

// RedisStatusCache implements ports.StatusCache on Redis. Connector lists
// are stored as JSON under one key per station.
type RedisStatusCache struct {
	client *redis.Client
}

func NewRedisStatusCache(client *redis.Client) *RedisStatusCache {
	return &RedisStatusCache{client: client}
}

func statusKey(stationID string) string {
	return "station:status:" + stationID
}

func (c *RedisStatusCache) Get(ctx context.Context, stationID string) ([]domain.ConnectorStatus, bool, error) {
	if c.client == nil {
		return nil, false, errors.New("status cache: redis client is nil")
	}

	raw, err := c.client.Get(ctx, statusKey(stationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("status cache get %q: %w", stationID, err)
	}

	var connectors []domain.ConnectorStatus
	if err := json.Unmarshal(raw, &connectors); err != nil {
		return nil, false, fmt.Errorf("status cache decode %q: %w", stationID, err)
	}

	return connectors, true, nil
}

func (c *RedisStatusCache) Put(ctx context.Context, stationID string, connectors []domain.ConnectorStatus) error {
	if c.client == nil {
		return errors.New("status cache: redis client is nil")
	}

	raw, err := json.Marshal(connectors)
	if err != nil {
		return fmt.Errorf("status cache encode %q: %w", stationID, err)
	}

	if err := c.client.Set(ctx, statusKey(stationID), raw, statusTTL).Err(); err != nil {
		return fmt.Errorf("status cache put %q: %w", stationID, err)
	}

	return nil
}
