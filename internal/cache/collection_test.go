package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/equiptrack/equiptrack-server/internal/logger"
	"github.com/equiptrack/equiptrack-server/internal/model"
	"github.com/equiptrack/equiptrack-server/internal/testutil"
)

type memBackend struct {
	entries   map[string][]byte
	ttls      map[string]time.Duration
	deletes   []string
	getErr    error
	deleteErr error
	setCalls  int
	getCalls  int
}

func newMemBackend() *memBackend {
	return &memBackend{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (b *memBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.getCalls++
	if b.getErr != nil {
		return nil, false, b.getErr
	}
	value, ok := b.entries[key]
	return value, ok, nil
}

func (b *memBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.setCalls++
	b.entries[key] = value
	b.ttls[key] = ttl
	return nil
}

func (b *memBackend) DeletePattern(_ context.Context, pattern string) error {
	b.deletes = append(b.deletes, pattern)
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.entries = map[string][]byte{}
	return nil
}

type countingCollection struct {
	docs      []model.Document
	findCalls int
}

func (c *countingCollection) Name() string { return "providers" }

func (c *countingCollection) Insert(context.Context, map[string]any) (model.Document, error) {
	return model.Document{ID: uuid.New()}, nil
}

func (c *countingCollection) Find(context.Context, model.QuerySpec, ...model.PopulateSpec) ([]model.Document, error) {
	c.findCalls++
	return c.docs, nil
}

func (c *countingCollection) FindOne(context.Context, model.QuerySpec) (*model.Document, error) {
	c.findCalls++
	if len(c.docs) == 0 {
		return nil, nil
	}
	return &c.docs[0], nil
}

func (c *countingCollection) FindByID(context.Context, uuid.UUID, ...model.PopulateSpec) (*model.Document, error) {
	c.findCalls++
	if len(c.docs) == 0 {
		return nil, nil
	}
	return &c.docs[0], nil
}

func (c *countingCollection) Update(_ context.Context, id uuid.UUID, _ map[string]any, _ ...model.PopulateSpec) (*model.Document, error) {
	return &model.Document{ID: id}, nil
}

func (c *countingCollection) Delete(context.Context, uuid.UUID) (bool, error) {
	return true, nil
}

var testPolicy = model.CachePolicy{
	KeyPattern: "equiptrack:providers:*",
	TTL:        600 * time.Second,
}

func newCached(inner model.Collection, backend Backend, l *logger.Logger) *Collection {
	return NewCollection(inner, backend, testPolicy, "equiptrack", l)
}

func TestCollection_FindReadThrough(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	inner := &countingCollection{docs: []model.Document{{ID: uuid.New(), Data: map[string]any{"name": "Meditec"}}}}
	cached := newCached(inner, backend, testutil.MakeNoopLogger())

	first, err := cached.Find(ctx, model.QuerySpec{"name": "Meditec"})
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, inner.findCalls)

	second, err := cached.Find(ctx, model.QuerySpec{"name": "Meditec"})
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, 1, inner.findCalls, "second read must come from cache")
}

func TestCollection_StoresUnderPolicyTTL(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	cached := newCached(&countingCollection{}, backend, testutil.MakeNoopLogger())

	_, err := cached.Find(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, backend.setCalls)
	for key, ttl := range backend.ttls {
		require.Equal(t, testPolicy.TTL, ttl)
		require.Regexp(t, `^equiptrack:providers:`, key)
	}
}

func TestCollection_DistinctQueriesGetDistinctKeys(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	inner := &countingCollection{}
	cached := newCached(inner, backend, testutil.MakeNoopLogger())

	_, err := cached.Find(ctx, model.QuerySpec{"name": "a"})
	require.NoError(t, err)
	_, err = cached.Find(ctx, model.QuerySpec{"name": "b"})
	require.NoError(t, err)
	require.Equal(t, 2, inner.findCalls)
	require.Len(t, backend.entries, 2)
}

func TestCollection_ReadFaultDegradesToStorage(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	backend.getErr = errors.New("redis down")
	inner := &countingCollection{}
	cached := newCached(inner, backend, testutil.MakeNoopLogger())

	_, err := cached.Find(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, inner.findCalls)
}

func TestCollection_WritesInvalidatePattern(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	cached := newCached(&countingCollection{}, backend, testutil.MakeNoopLogger())

	_, err := cached.Insert(ctx, map[string]any{"name": "x"})
	require.NoError(t, err)

	_, err = cached.Update(ctx, uuid.New(), map[string]any{"name": "y"})
	require.NoError(t, err)

	_, err = cached.Delete(ctx, uuid.New())
	require.NoError(t, err)

	require.Equal(t, []string{testPolicy.KeyPattern, testPolicy.KeyPattern, testPolicy.KeyPattern}, backend.deletes)
}

func TestCollection_InvalidationFaultFailsTheWrite(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	backend.deleteErr = errors.New("redis down")
	cached := newCached(&countingCollection{}, backend, testutil.MakeNoopLogger())

	_, err := cached.Insert(ctx, map[string]any{"name": "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to invalidate cache pattern")
}

func TestCollection_FindByIDCachedSeparatelyFromFind(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	id := uuid.New()
	inner := &countingCollection{docs: []model.Document{{ID: id, Data: map[string]any{"name": "Meditec"}}}}
	cached := newCached(inner, backend, testutil.MakeNoopLogger())

	_, err := cached.FindByID(ctx, id)
	require.NoError(t, err)
	_, err = cached.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 1, inner.findCalls)
}
