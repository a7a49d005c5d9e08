package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// mutationTTL is the double-submit window: an identical mutation arriving
// within it is rejected as a duplicate.
const mutationTTL = 5 * time.Second

// MutationGuard de-duplicates in-flight mutations backed by Redis.
// Key format: mutation:<requester>:<op>:<target>
type MutationGuard struct {
	client *redis.Client
}

// NewMutationGuard creates a MutationGuard wrapping the given Redis client.
func NewMutationGuard(client *redis.Client) *MutationGuard {
	return &MutationGuard{client: client}
}

// Acquire claims the slot for this exact mutation. It reports false when an
// identical mutation already holds the slot. The slot expires on its own;
// there is no release.
func (g *MutationGuard) Acquire(ctx context.Context, requester, op, target string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(requester, op, target), "1", mutationTTL).Result()
	if err != nil {
		return false, fmt.Errorf("mutation guard: %w", err)
	}
	return ok, nil
}

func (g *MutationGuard) key(requester, op, target string) string {
	return fmt.Sprintf("mutation:%s:%s:%s", requester, op, target)
}
