package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/equiptrack/equiptrack-server/internal/model"
	"github.com/equiptrack/equiptrack-server/internal/repository"
	"github.com/equiptrack/equiptrack-server/internal/testutil"
)

// fakeCollection is an in-memory document store recording the populate
// specs it receives.
type fakeCollection struct {
	name         string
	docs         map[uuid.UUID]model.Document
	order        []uuid.UUID
	lastPopulate []model.PopulateSpec
	insertErr    error
}

func newFakeCollection(name string) *fakeCollection {
	return &fakeCollection{name: name, docs: map[uuid.UUID]model.Document{}}
}

func (c *fakeCollection) Name() string { return c.name }

func (c *fakeCollection) Insert(_ context.Context, data map[string]any) (model.Document, error) {
	if c.insertErr != nil {
		return model.Document{}, c.insertErr
	}
	doc := model.Document{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Data:      data,
	}
	c.docs[doc.ID] = doc
	c.order = append(c.order, doc.ID)
	return doc, nil
}

func (c *fakeCollection) Find(_ context.Context, query model.QuerySpec, populate ...model.PopulateSpec) ([]model.Document, error) {
	c.lastPopulate = populate
	out := make([]model.Document, 0)
	for _, id := range c.order {
		doc := c.docs[id]
		if matches(doc.Data, query) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (c *fakeCollection) FindOne(_ context.Context, query model.QuerySpec) (*model.Document, error) {
	for _, id := range c.order {
		doc := c.docs[id]
		if matches(doc.Data, query) {
			return &doc, nil
		}
	}
	return nil, nil
}

func (c *fakeCollection) FindByID(_ context.Context, id uuid.UUID, populate ...model.PopulateSpec) (*model.Document, error) {
	c.lastPopulate = populate
	doc, ok := c.docs[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (c *fakeCollection) Update(_ context.Context, id uuid.UUID, partial map[string]any, populate ...model.PopulateSpec) (*model.Document, error) {
	c.lastPopulate = populate
	doc, ok := c.docs[id]
	if !ok {
		return nil, nil
	}
	for k, v := range partial {
		doc.Data[k] = v
	}
	doc.UpdatedAt = time.Now()
	c.docs[id] = doc
	return &doc, nil
}

func (c *fakeCollection) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := c.docs[id]; !ok {
		return false, nil
	}
	delete(c.docs, id)
	return true, nil
}

func matches(data map[string]any, query model.QuerySpec) bool {
	for field, value := range query {
		if data[field] != value {
			return false
		}
	}
	return true
}

func newProviderService(coll model.Collection, spec model.CollectionSpec) *Entity[model.Provider] {
	return NewEntity(repository.New[model.Provider](coll), spec, "el proveedor", testutil.MakeNoopLogger())
}

func TestEntity_CreateAndFindByID(t *testing.T) {
	coll := newFakeCollection("providers")
	s := newProviderService(coll, model.CollectionSpec{Name: "providers"})
	ctx := context.Background()

	created := s.Create(ctx, model.Provider{Name: "Meditec", NIT: "900123"})
	require.True(t, created.IsOk())
	require.NotEmpty(t, created.Value().ID)
	require.Equal(t, "Meditec", created.Value().Name)

	found := s.FindByID(ctx, created.Value().ID)
	require.True(t, found.IsOk())
	require.NotNil(t, found.Value())
	require.Equal(t, "900123", found.Value().NIT)
}

func TestEntity_FindByIDAbsent(t *testing.T) {
	s := newProviderService(newFakeCollection("providers"), model.CollectionSpec{Name: "providers"})

	result := s.FindByID(context.Background(), uuid.NewString())
	require.True(t, result.IsOk())
	require.Nil(t, result.Value())
}

func TestEntity_FindEmptyIsOk(t *testing.T) {
	s := newProviderService(newFakeCollection("providers"), model.CollectionSpec{Name: "providers"})

	result := s.Find(context.Background(), model.QuerySpec{"name": "nadie"})
	require.True(t, result.IsOk())
	require.Empty(t, result.Value())
	require.NotNil(t, result.Value())
}

func TestEntity_DefaultPopulateApplies(t *testing.T) {
	coll := newFakeCollection("curriculums")
	defaults := []model.PopulateSpec{{Path: "area"}, {Path: "provider"}}
	s := NewEntity(repository.New[model.Curriculum](coll), model.CollectionSpec{
		Name:            "curriculums",
		DefaultPopulate: defaults,
	}, "la hoja de vida", testutil.MakeNoopLogger())

	s.Find(context.Background(), nil)
	require.Equal(t, defaults, coll.lastPopulate)
}

func TestEntity_ExplicitPopulateOverridesDefault(t *testing.T) {
	coll := newFakeCollection("curriculums")
	s := NewEntity(repository.New[model.Curriculum](coll), model.CollectionSpec{
		Name:            "curriculums",
		DefaultPopulate: []model.PopulateSpec{{Path: "area"}, {Path: "provider"}},
	}, "la hoja de vida", testutil.MakeNoopLogger())

	s.Find(context.Background(), nil, model.PopulateSpec{Path: "area"})
	require.Equal(t, []model.PopulateSpec{{Path: "area"}}, coll.lastPopulate)
}

func TestEntity_CreateDuplicate(t *testing.T) {
	coll := newFakeCollection("providers")
	coll.insertErr = model.ErrDuplicate
	s := newProviderService(coll, model.CollectionSpec{Name: "providers"})

	result := s.Create(context.Background(), model.Provider{Name: "Meditec"})
	require.False(t, result.IsOk())
	require.Equal(t, model.CodeConflict, result.Err().Code)
	require.Equal(t, "No se pudo crear el proveedor: registro duplicado", result.Err().Message)
}

func TestEntity_UpdateAndDelete(t *testing.T) {
	coll := newFakeCollection("providers")
	s := newProviderService(coll, model.CollectionSpec{Name: "providers"})
	ctx := context.Background()

	created := s.Create(ctx, model.Provider{Name: "Meditec"})
	require.True(t, created.IsOk())
	id := created.Value().ID

	updated := s.Update(ctx, id, map[string]any{"phone": "3001234567"})
	require.True(t, updated.IsOk())
	require.Equal(t, "3001234567", updated.Value().Phone)
	require.Equal(t, "Meditec", updated.Value().Name)

	deleted := s.Delete(ctx, id)
	require.True(t, deleted.IsOk())
	require.True(t, deleted.Value())

	again := s.Delete(ctx, id)
	require.True(t, again.IsOk())
	require.False(t, again.Value())
}
