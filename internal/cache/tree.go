// tree.go provides a Valkey-backed cache for the serialized skill tree.
// Materializing the full tree walks every category and skill, so the JSON
// snapshot is cached and dropped whenever a hierarchy mutation happens.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HBTGmbH/pwr-skill-service/internal/models"
)

const (
	treeKey = "skilltree:full"

	// DefaultTreeTTL bounds staleness even if an invalidation is missed.
	DefaultTreeTTL = 10 * time.Minute
)

// TreeCache manages the cached tree snapshot in Valkey. A nil *TreeCache
// is valid and behaves as a permanent miss, so the service runs without
// Valkey in tests.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a tree cache backed by the given Valkey client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// Get retrieves the cached tree snapshot. Returns (nil, false) on miss.
func (tc *TreeCache) Get(ctx context.Context) (*models.CategoryNode, bool) {
	if tc == nil {
		return nil, false
	}
	val, err := tc.client.Get(ctx, treeKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("tree cache get error", "error", err)
		return nil, false
	}
	var root models.CategoryNode
	if err := json.Unmarshal(val, &root); err != nil {
		slog.Warn("tree cache decode error", "error", err)
		return nil, false
	}
	slog.Debug("tree cache hit")
	return &root, true
}

// Set stores the tree snapshot with the configured TTL.
func (tc *TreeCache) Set(ctx context.Context, root *models.CategoryNode) {
	if tc == nil {
		return
	}
	data, err := json.Marshal(root)
	if err != nil {
		slog.Warn("tree cache encode error", "error", err)
		return
	}
	if err := tc.client.Set(ctx, treeKey, data, tc.ttl).Err(); err != nil {
		slog.Warn("tree cache set error", "error", err)
	}
}

// Invalidate drops the cached snapshot. Called after every hierarchy
// mutation.
func (tc *TreeCache) Invalidate(ctx context.Context) {
	if tc == nil {
		return
	}
	if err := tc.client.Del(ctx, treeKey).Err(); err != nil {
		slog.Warn("tree cache invalidate error", "error", err)
	}
	slog.Debug("tree cache invalidated")
}
