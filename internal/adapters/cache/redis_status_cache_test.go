package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/evroute/charge-planner/internal/domain"
)

func newTestCache(t *testing.T) (*RedisStatusCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStatusCache(client), mr
}

func TestRedisStatusCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	connectors := []domain.ConnectorStatus{
		{Status: "2", OutputKw: 100, LastUpdate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)},
		{Status: "3", OutputKw: 50},
	}

	if err := c.Put(ctx, "ST001", connectors); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(ctx, "ST001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(got) != 2 || got[0].Status != "2" || got[0].OutputKw != 100 {
		t.Errorf("got %+v, want round-tripped connectors", got)
	}
}

func TestRedisStatusCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected a miss for an unknown station")
	}
}

func TestRedisStatusCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "ST002", []domain.ConnectorStatus{{Status: "2"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "ST002")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("entry should have expired")
	}
}
