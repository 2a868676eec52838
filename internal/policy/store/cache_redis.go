package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"lendmatch/internal/policy/models"
	id "lendmatch/pkg/domain"
)

const (
	currentPolicyKeyPrefix = "policy:current:"
	generationKeyPrefix    = "policy:gen:"
)

// fencedSetScript caches a snapshot only when no invalidation happened since
// the reader sampled the generation. KEYS: current, generation.
// ARGV: sampled generation, payload, ttl in ms.
var fencedSetScript = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// DefaultCacheTTL bounds how long a cached current policy may be served.
const DefaultCacheTTL = 5 * time.Minute

// Backend is the persistence the cache fronts.
type Backend interface {
	Save(ctx context.Context, lenderID id.LenderID, draft models.Draft, base id.VersionID) (*models.Snapshot, error)
	Current(ctx context.Context, lenderID id.LenderID) (*models.Snapshot, error)
	History(ctx context.Context, lenderID id.LenderID) ([]*models.Snapshot, error)
	Get(ctx context.Context, versionID id.VersionID) (*models.Snapshot, error)
	ListActive(ctx context.Context) ([]*models.Snapshot, error)
}

// CachedStore is a read-through Redis cache for Current. Redis failures are
// logged and fall through to the backend.
//
// Every invalidation bumps a per-lender generation counter. A reader samples
// the counter before loading from the backend and its writeback is dropped
// when the counter moved, so a snapshot loaded before a save commits is never
// cached after that save's invalidation.
type CachedStore struct {
	Backend
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// CachedStoreOption configures a CachedStore.
type CachedStoreOption func(*CachedStore)

func WithCacheTTL(ttl time.Duration) CachedStoreOption {
	return func(c *CachedStore) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithCacheLogger(logger *slog.Logger) CachedStoreOption {
	return func(c *CachedStore) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewCachedStore(backend Backend, client *redis.Client, opts ...CachedStoreOption) *CachedStore {
	c := &CachedStore{
		Backend: backend,
		client:  client,
		ttl:     DefaultCacheTTL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func currentKey(lenderID id.LenderID) string {
	return currentPolicyKeyPrefix + lenderID.String()
}

func generationKey(lenderID id.LenderID) string {
	return generationKeyPrefix + lenderID.String()
}

// Save writes through to the backend and invalidates the cached current policy.
// When the save runs inside an outer transaction the caller invalidates again
// after commit.
func (c *CachedStore) Save(ctx context.Context, lenderID id.LenderID, draft models.Draft, base id.VersionID) (*models.Snapshot, error) {
	snap, err := c.Backend.Save(ctx, lenderID, draft, base)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, lenderID)
	return snap, nil
}

// Invalidate drops the cached current policy of one lender and fences off
// writebacks from reads that started before it.
func (c *CachedStore) Invalidate(ctx context.Context, lenderID id.LenderID) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(lenderID))
		pipe.Del(ctx, currentKey(lenderID))
		return nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate cached policy",
			"lender_id", lenderID.String(),
			"error", err,
		)
	}
}

func (c *CachedStore) Current(ctx context.Context, lenderID id.LenderID) (*models.Snapshot, error) {
	key := currentKey(lenderID)
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var snap models.Snapshot
		if jsonErr := json.Unmarshal(raw, &snap); jsonErr == nil {
			return &snap, nil
		}
		c.logger.WarnContext(ctx, "discarding malformed cached policy", "lender_id", lenderID.String())
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "policy cache read failed", "lender_id", lenderID.String(), "error", err)
	}

	gen, genErr := c.client.Get(ctx, generationKey(lenderID)).Result()
	if errors.Is(genErr, redis.Nil) {
		gen, genErr = "0", nil
	}

	snap, err := c.Backend.Current(ctx, lenderID)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return snap, nil
	}
	c.writeBack(ctx, lenderID, gen, snap)
	return snap, nil
}

func (c *CachedStore) writeBack(ctx context.Context, lenderID id.LenderID, gen string, snap *models.Snapshot) {
	encoded, err := json.Marshal(snap)
	if err != nil {
		return
	}
	stored, err := fencedSetScript.Run(ctx, c.client,
		[]string{currentKey(lenderID), generationKey(lenderID)},
		gen, encoded, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		c.logger.WarnContext(ctx, "policy cache write failed", "lender_id", lenderID.String(), "error", err)
		return
	}
	if stored == 0 {
		c.logger.DebugContext(ctx, "skipped cache write after concurrent invalidation", "lender_id", lenderID.String())
	}
}
