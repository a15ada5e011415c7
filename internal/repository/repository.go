package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/equiptrack/equiptrack-server/internal/model"
)

// Repository is the generic CRUD wrapper over one collection handle,
// agnostic of the entity's shape. It is a stateless pass-through to
// the storage driver: encoding aside, it adds no caching, retries or
// transactions.
type Repository[T any] struct {
	coll model.Collection
}

// New binds a typed repository to a collection handle.
func New[T any](coll model.Collection) *Repository[T] {
	return &Repository[T]{coll: coll}
}

// Create inserts the entity and returns the persisted state including
// the generated id and timestamps.
func (r *Repository[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	data, err := encode(entity)
	if err != nil {
		return zero, err
	}
	doc, err := r.coll.Insert(ctx, data)
	if err != nil {
		return zero, err
	}
	return decode[T](doc)
}

// Find returns every matching entity; a nil query matches all. Zero
// matches yield an empty slice, never a failure.
func (r *Repository[T]) Find(ctx context.Context, query model.QuerySpec, populate ...model.PopulateSpec) ([]T, error) {
	docs, err := r.coll.Find(ctx, query, populate...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		entity, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// FindOne returns the first match or nil.
func (r *Repository[T]) FindOne(ctx context.Context, query model.QuerySpec) (*T, error) {
	doc, err := r.coll.FindOne(ctx, query)
	if err != nil || doc == nil {
		return nil, err
	}
	return decodePtr[T](*doc)
}

// FindByID returns the entity with the given id or nil. A malformed id
// cannot match any document, so it decodes defensively to absent
// rather than faulting.
func (r *Repository[T]) FindByID(ctx context.Context, id string, populate ...model.PopulateSpec) (*T, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	doc, err := r.coll.FindByID(ctx, uid, populate...)
	if err != nil || doc == nil {
		return nil, err
	}
	return decodePtr[T](*doc)
}

// Update applies a partial field merge and returns the post-update
// state, nil when the id does not exist.
func (r *Repository[T]) Update(ctx context.Context, id string, partial map[string]any, populate ...model.PopulateSpec) (*T, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	doc, err := r.coll.Update(ctx, uid, scrub(partial), populate...)
	if err != nil || doc == nil {
		return nil, err
	}
	return decodePtr[T](*doc)
}

// Delete removes the entity, reporting whether a document was actually
// removed.
func (r *Repository[T]) Delete(ctx context.Context, id string) (bool, error) {
	uid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	return r.coll.Delete(ctx, uid)
}

func parseID(id string) (uuid.UUID, bool) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}
	return uid, true
}

// encode flattens the entity into document data, dropping the fields
// owned by the storage layer.
func encode(entity any) (map[string]any, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entity: %w", err)
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to encode entity: %w", err)
	}
	return scrub(data), nil
}

func scrub(data map[string]any) map[string]any {
	delete(data, "id")
	delete(data, "createdAt")
	delete(data, "updatedAt")
	return data
}

func decode[T any](doc model.Document) (T, error) {
	var entity T
	raw, err := json.Marshal(doc.Flat())
	if err != nil {
		return entity, fmt.Errorf("failed to decode document: %w", err)
	}
	if err := json.Unmarshal(raw, &entity); err != nil {
		return entity, fmt.Errorf("failed to decode document: %w", err)
	}
	return entity, nil
}

func decodePtr[T any](doc model.Document) (*T, error) {
	entity, err := decode[T](doc)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}
