package service

import (
	"context"

	"github.com/equiptrack/equiptrack-server/internal/logger"
	"github.com/equiptrack/equiptrack-server/internal/model"
	"github.com/equiptrack/equiptrack-server/internal/repository"
)

// Entity is the generic per-entity service: one immutable instance per
// entity type, built at startup and shared by every request. Each
// method delegates to the repository and normalizes the outcome
// through Execute, so the public return type is always a Result.
//
// Per-entity customization is limited to the declared default
// populate: when a caller supplies no PopulateSpec, the collection's
// default applies.
type Entity[T any] struct {
	repo            *repository.Repository[T]
	defaultPopulate []model.PopulateSpec
	label           string
	logger          *logger.Logger
}

// NewEntity builds the service for one entity type. label is the noun
// phrase used in failure messages.
func NewEntity[T any](repo *repository.Repository[T], spec model.CollectionSpec, label string, l *logger.Logger) *Entity[T] {
	return &Entity[T]{
		repo:            repo,
		defaultPopulate: spec.DefaultPopulate,
		label:           label,
		logger:          l,
	}
}

func (s *Entity[T]) Create(ctx context.Context, entity T) model.Result[T] {
	return Execute(ctx, s.logger, "crear "+s.label, func(ctx context.Context) (T, error) {
		return s.repo.Create(ctx, entity)
	})
}

func (s *Entity[T]) Find(ctx context.Context, query model.QuerySpec, populate ...model.PopulateSpec) model.Result[[]T] {
	pops := s.populateOrDefault(populate)
	return Execute(ctx, s.logger, "consultar "+s.label, func(ctx context.Context) ([]T, error) {
		return s.repo.Find(ctx, query, pops...)
	})
}

func (s *Entity[T]) FindOne(ctx context.Context, query model.QuerySpec) model.Result[*T] {
	return Execute(ctx, s.logger, "consultar "+s.label, func(ctx context.Context) (*T, error) {
		return s.repo.FindOne(ctx, query)
	})
}

// FindByID resolves one entity. An absent id yields Ok(nil): whether
// absence is an error is the caller's decision, so the service stays
// reusable for optional lookups.
func (s *Entity[T]) FindByID(ctx context.Context, id string, populate ...model.PopulateSpec) model.Result[*T] {
	pops := s.populateOrDefault(populate)
	return Execute(ctx, s.logger, "consultar "+s.label, func(ctx context.Context) (*T, error) {
		return s.repo.FindByID(ctx, id, pops...)
	})
}

func (s *Entity[T]) Update(ctx context.Context, id string, partial map[string]any, populate ...model.PopulateSpec) model.Result[*T] {
	pops := s.populateOrDefault(populate)
	return Execute(ctx, s.logger, "actualizar "+s.label, func(ctx context.Context) (*T, error) {
		return s.repo.Update(ctx, id, partial, pops...)
	})
}

func (s *Entity[T]) Delete(ctx context.Context, id string) model.Result[bool] {
	return Execute(ctx, s.logger, "eliminar "+s.label, func(ctx context.Context) (bool, error) {
		return s.repo.Delete(ctx, id)
	})
}

func (s *Entity[T]) populateOrDefault(populate []model.PopulateSpec) []model.PopulateSpec {
	if len(populate) > 0 {
		return populate
	}
	return s.defaultPopulate
}
