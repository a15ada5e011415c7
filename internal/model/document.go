package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document is the storage envelope around one entity. Identity and
// timestamps are assigned by the storage layer; Data holds the entity
// fields, which the core never interprets beyond declared reference
// paths.
type Document struct {
	ID        uuid.UUID      `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Data      map[string]any `json:"data"`
}

// Flat returns the document as one map with the envelope fields merged
// into the data. This is the shape entities decode from and the shape
// populated references are embedded as.
func (d Document) Flat() map[string]any {
	m := make(map[string]any, len(d.Data)+3)
	for k, v := range d.Data {
		m[k] = v
	}
	m["id"] = d.ID.String()
	m["createdAt"] = d.CreatedAt
	m["updatedAt"] = d.UpdatedAt
	return m
}

// QuerySpec maps field names to filter values: a plain value means
// equality, an operator object is interpreted by the storage driver.
// The core passes it through unchanged.
type QuerySpec map[string]any

// PopulateSpec declares which foreign-reference field to expand and,
// recursively, how deep. Path must name a reference declared on the
// entity's collection; Select optionally projects the expanded
// document down to the listed fields.
type PopulateSpec struct {
	Path     string
	Select   []string
	Populate *PopulateSpec
}

// Collection is the storage-driver boundary: raw document operations
// over one named collection. Zero matches are not failures: Find
// returns an empty slice, FindOne and FindByID return nil.
type Collection interface {
	Name() string
	Insert(ctx context.Context, data map[string]any) (Document, error)
	Find(ctx context.Context, query QuerySpec, populate ...PopulateSpec) ([]Document, error)
	FindOne(ctx context.Context, query QuerySpec) (*Document, error)
	FindByID(ctx context.Context, id uuid.UUID, populate ...PopulateSpec) (*Document, error)
	Update(ctx context.Context, id uuid.UUID, partial map[string]any, populate ...PopulateSpec) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CachePolicy is the contract honored by the caching collaborator:
// every cached read for the entity lives under a key matched by
// KeyPattern and expires after TTL, and writes invalidate the pattern
// before returning success.
type CachePolicy struct {
	KeyPattern string
	TTL        time.Duration
}

// CollectionSpec is the per-entity declaration consumed by the
// registry: collection name, legal reference paths, the default
// populate applied when a caller supplies none, and an optional cache
// policy. It is pure data; entities customize nothing else.
type CollectionSpec struct {
	Name            string
	Refs            map[string]string // field path -> referenced collection
	DefaultPopulate []PopulateSpec
	Cache           *CachePolicy
}
