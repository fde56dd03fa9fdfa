package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSubmitWindow = 5 * time.Second

// SubmitGuard drops repeated form submissions within a short window.
// Key format: submit:<key>
type SubmitGuard struct {
	client *redis.Client
	window time.Duration
}

// NewSubmitGuard creates a SubmitGuard wrapping the given Redis client.
func NewSubmitGuard(client *redis.Client, window time.Duration) *SubmitGuard {
	if window <= 0 {
		window = defaultSubmitWindow
	}
	return &SubmitGuard{client: client, window: window}
}

// FirstSubmit atomically marks key and reports whether it was unmarked.
func (g *SubmitGuard) FirstSubmit(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(key), "1", g.window).Result()
	if err != nil {
		return false, fmt.Errorf("submit guard: %w", err)
	}
	return ok, nil
}

func (g *SubmitGuard) key(k string) string {
	return "submit:" + k
}
