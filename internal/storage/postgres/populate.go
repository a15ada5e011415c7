package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/equiptrack/equiptrack-server/internal/model"
)

// fetchFunc loads one flattened document from a collection. The
// resolver depends on this seam rather than the pool so it can run
// against any document source.
type fetchFunc func(ctx context.Context, collection string, id uuid.UUID) (map[string]any, error)

// maxPopulateDepth caps reference expansion. The declared relationship
// graph is a DAG, so the cap only bites when a spec is misdeclared;
// hitting it is an error rather than truncation.
const maxPopulateDepth = 8

// resolvePopulate expands the requested reference paths in place.
// Every path must be declared on the collection's spec.
func resolvePopulate(ctx context.Context, fetch fetchFunc, specs map[string]model.CollectionSpec, collection string, data map[string]any, pops []model.PopulateSpec, depth int) error {
	if len(pops) == 0 || data == nil {
		return nil
	}
	if depth > maxPopulateDepth {
		return fmt.Errorf("populate depth exceeds %d on collection %q", maxPopulateDepth, collection)
	}

	spec := specs[collection]
	for _, pop := range pops {
		target, ok := spec.Refs[pop.Path]
		if !ok {
			return fmt.Errorf("unknown populate path %q on collection %q", pop.Path, collection)
		}
		resolved, err := resolveValue(ctx, fetch, specs, target, data[pop.Path], pop, depth)
		if err != nil {
			return err
		}
		if resolved != nil {
			data[pop.Path] = resolved
		}
	}
	return nil
}

// resolveValue handles the three shapes a reference field can take:
// a single id, a list of ids, or something already expanded (left
// untouched).
func resolveValue(ctx context.Context, fetch fetchFunc, specs map[string]model.CollectionSpec, target string, value any, pop model.PopulateSpec, depth int) (any, error) {
	switch v := value.(type) {
	case string:
		return resolveOne(ctx, fetch, specs, target, v, pop, depth)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			id, ok := item.(string)
			if !ok {
				out[i] = item
				continue
			}
			doc, err := resolveOne(ctx, fetch, specs, target, id, pop, depth)
			if err != nil {
				return nil, err
			}
			if doc == nil {
				out[i] = item
				continue
			}
			out[i] = doc
		}
		return out, nil
	default:
		return nil, nil
	}
}

func resolveOne(ctx context.Context, fetch fetchFunc, specs map[string]model.CollectionSpec, target, id string, pop model.PopulateSpec, depth int) (any, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	doc, err := fetch(ctx, target, uid)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	if len(pop.Select) > 0 {
		doc = project(doc, pop.Select)
	}
	if pop.Populate != nil {
		nested := []model.PopulateSpec{*pop.Populate}
		if err := resolvePopulate(ctx, fetch, specs, target, doc, nested, depth+1); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// project keeps only the selected fields. The id always survives so
// the expanded document stays addressable.
func project(doc map[string]any, fields []string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	out["id"] = doc["id"]
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
