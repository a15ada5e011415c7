package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/equiptrack/equiptrack-server/internal/logger"
	"github.com/equiptrack/equiptrack-server/internal/model"
)

// Collection decorates a storage collection with read-through caching
// under the entity's declared policy: reads live under keys matched by
// the policy's pattern and expire after its TTL; Insert, Update and
// Delete invalidate the whole pattern before reporting success.
//
// A cache read or write fault degrades to storage; an invalidation
// fault fails the call, because returning success with stale keys
// would break the policy contract.
type Collection struct {
	inner     model.Collection
	backend   Backend
	policy    model.CachePolicy
	namespace string
	logger    *logger.Logger
}

var _ model.Collection = (*Collection)(nil)

// NewCollection wraps inner with the entity's cache policy.
func NewCollection(inner model.Collection, backend Backend, policy model.CachePolicy, namespace string, l *logger.Logger) *Collection {
	return &Collection{
		inner:     inner,
		backend:   backend,
		policy:    policy,
		namespace: namespace,
		logger:    l,
	}
}

func (c *Collection) Name() string {
	return c.inner.Name()
}

func (c *Collection) Insert(ctx context.Context, data map[string]any) (model.Document, error) {
	doc, err := c.inner.Insert(ctx, data)
	if err != nil {
		return model.Document{}, err
	}
	if err := c.invalidate(ctx); err != nil {
		return model.Document{}, err
	}
	return doc, nil
}

func (c *Collection) Find(ctx context.Context, query model.QuerySpec, populate ...model.PopulateSpec) ([]model.Document, error) {
	key := c.key("find", query, populate)
	var cached []model.Document
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	docs, err := c.inner.Find(ctx, query, populate...)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, docs)
	return docs, nil
}

func (c *Collection) FindOne(ctx context.Context, query model.QuerySpec) (*model.Document, error) {
	key := c.key("findOne", query, nil)
	var cached *model.Document
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	doc, err := c.inner.FindOne(ctx, query)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, doc)
	return doc, nil
}

func (c *Collection) FindByID(ctx context.Context, id uuid.UUID, populate ...model.PopulateSpec) (*model.Document, error) {
	key := c.key("findById", id.String(), populate)
	var cached *model.Document
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	doc, err := c.inner.FindByID(ctx, id, populate...)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, doc)
	return doc, nil
}

func (c *Collection) Update(ctx context.Context, id uuid.UUID, partial map[string]any, populate ...model.PopulateSpec) (*model.Document, error) {
	doc, err := c.inner.Update(ctx, id, partial, populate...)
	if err != nil {
		return nil, err
	}
	if err := c.invalidate(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Collection) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := c.inner.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		if err := c.invalidate(ctx); err != nil {
			return false, err
		}
	}
	return deleted, nil
}

// key builds a read key under the policy's pattern:
// <namespace>:<entity>:<op>:<hash of the call shape>.
func (c *Collection) key(op string, query any, populate []model.PopulateSpec) string {
	raw, _ := json.Marshal(map[string]any{"q": query, "p": populate})
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s:%s:%s:%s", c.namespace, c.inner.Name(), op, hex.EncodeToString(sum[:8]))
}

func (c *Collection) lookup(ctx context.Context, key string, out any) bool {
	value, hit, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if !hit {
		return false
	}
	if err := json.Unmarshal(value, out); err != nil {
		c.logger.Warn("cache entry undecodable", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Collection) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.backend.Set(ctx, key, raw, c.policy.TTL); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (c *Collection) invalidate(ctx context.Context) error {
	if err := c.backend.DeletePattern(ctx, c.policy.KeyPattern); err != nil {
		return fmt.Errorf("failed to invalidate cache pattern %s: %w", c.policy.KeyPattern, err)
	}
	return nil
}
