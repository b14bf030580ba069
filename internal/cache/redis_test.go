package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, "quiz:")
}

func TestRedisGetSet(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Expected miss for unknown key")
	}

	c.Set(ctx, "board", []byte(`{"rank":1}`), time.Minute)
	got, ok := c.Get(ctx, "board")
	if !ok || string(got) != `{"rank":1}` {
		t.Errorf("Expected stored payload back, got %q (hit=%v)", got, ok)
	}
}

func TestRedisExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	c := NewRedis(client, "quiz:")
	ctx := context.Background()

	c.Set(ctx, "board", []byte("v"), time.Minute)
	mr.FastForward(2 * time.Minute)
	if _, ok := c.Get(ctx, "board"); ok {
		t.Error("Expected miss after TTL elapsed")
	}
}

func TestRedisDelete(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	c.Set(ctx, "board", []byte("v"), time.Minute)
	c.Delete(ctx, "board")
	if _, ok := c.Get(ctx, "board"); ok {
		t.Error("Expected miss after delete")
	}
}

func TestRedisDegradesToMissWhenDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	c := NewRedis(client, "quiz:")
	ctx := context.Background()

	c.Set(ctx, "board", []byte("v"), time.Minute)
	mr.Close()

	if _, ok := c.Get(ctx, "board"); ok {
		t.Error("Expected a backend failure to read as a miss")
	}
	// Writes against a dead backend must not panic.
	c.Set(ctx, "other", []byte("v"), time.Minute)
	c.Delete(ctx, "board")
}
