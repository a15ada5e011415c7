// Package registry builds the process-wide set of entity services:
// constructed once at startup, immutable afterwards, injected into
// handlers. No component reaches services through globals.
package registry

import (
	"fmt"

	"github.com/equiptrack/equiptrack-server/internal/cache"
	"github.com/equiptrack/equiptrack-server/internal/logger"
	"github.com/equiptrack/equiptrack-server/internal/model"
	"github.com/equiptrack/equiptrack-server/internal/repository"
	"github.com/equiptrack/equiptrack-server/internal/service"
	"github.com/equiptrack/equiptrack-server/internal/storage/postgres"
)

// Registry holds one service per entity type.
type Registry struct {
	Users        *service.Entity[model.User]
	Countries    *service.Entity[model.Country]
	States       *service.Entity[model.State]
	Cities       *service.Entity[model.City]
	Headquarters *service.Entity[model.Headquarter]
	Areas        *service.Entity[model.Area]
	Providers    *service.Entity[model.Provider]
	IPS          *service.Entity[model.IPS]
	Curriculums  *service.Entity[model.Curriculum]
}

// Deps are the shared singletons the registry wires services onto.
// Cache may be nil, which disables the caching collaborator.
type Deps struct {
	Store     *postgres.Store
	Cache     cache.Backend
	Namespace string
	Logger    *logger.Logger
}

// New validates the declared collection specs and constructs every
// entity service. An invalid populate declaration is a construction
// error: the process must not begin serving with a broken reference
// graph.
func New(deps Deps) (*Registry, error) {
	specs := model.CollectionSpecs(deps.Namespace)
	byName := make(map[string]model.CollectionSpec, len(specs))
	for _, spec := range specs {
		byName[spec.Name] = spec
	}
	if err := validateSpecs(byName); err != nil {
		return nil, err
	}

	coll := func(name string) model.Collection {
		var c model.Collection = deps.Store.Collection(name)
		if spec := byName[name]; spec.Cache != nil && deps.Cache != nil {
			c = cache.NewCollection(c, deps.Cache, *spec.Cache, deps.Namespace, deps.Logger)
		}
		return c
	}

	return &Registry{
		Users:        build[model.User](coll("users"), byName["users"], "el usuario", deps.Logger),
		Countries:    build[model.Country](coll("countries"), byName["countries"], "el país", deps.Logger),
		States:       build[model.State](coll("states"), byName["states"], "el departamento", deps.Logger),
		Cities:       build[model.City](coll("cities"), byName["cities"], "la ciudad", deps.Logger),
		Headquarters: build[model.Headquarter](coll("headquarters"), byName["headquarters"], "la sede", deps.Logger),
		Areas:        build[model.Area](coll("areas"), byName["areas"], "el área", deps.Logger),
		Providers:    build[model.Provider](coll("providers"), byName["providers"], "el proveedor", deps.Logger),
		IPS:          build[model.IPS](coll("ips"), byName["ips"], "la IPS", deps.Logger),
		Curriculums:  build[model.Curriculum](coll("curriculums"), byName["curriculums"], "la hoja de vida", deps.Logger),
	}, nil
}

func build[T any](coll model.Collection, spec model.CollectionSpec, label string, l *logger.Logger) *service.Entity[T] {
	return service.NewEntity(repository.New[T](coll), spec, label, l)
}

const maxPopulateDepth = 8

// validateSpecs walks every declared default populate against the
// reference graph, so misdeclared paths surface at startup instead of
// on the first request.
func validateSpecs(specs map[string]model.CollectionSpec) error {
	for name, spec := range specs {
		for _, pop := range spec.DefaultPopulate {
			if err := validatePopulate(specs, name, pop, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func validatePopulate(specs map[string]model.CollectionSpec, collection string, pop model.PopulateSpec, depth int) error {
	if depth > maxPopulateDepth {
		return fmt.Errorf("populate declaration on %q exceeds depth %d", collection, maxPopulateDepth)
	}
	spec, ok := specs[collection]
	if !ok {
		return fmt.Errorf("populate references unknown collection %q", collection)
	}
	target, ok := spec.Refs[pop.Path]
	if !ok {
		return fmt.Errorf("populate path %q is not a declared reference on %q", pop.Path, collection)
	}
	if pop.Populate != nil {
		return validatePopulate(specs, target, *pop.Populate, depth+1)
	}
	return nil
}
