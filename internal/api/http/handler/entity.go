package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/equiptrack/equiptrack-server/internal/logger"
	"github.com/equiptrack/equiptrack-server/internal/model"
)

// EntityService is the service surface the generic handler consumes.
type EntityService[T any] interface {
	Create(ctx context.Context, entity T) model.Result[T]
	Find(ctx context.Context, query model.QuerySpec, populate ...model.PopulateSpec) model.Result[[]T]
	FindByID(ctx context.Context, id string, populate ...model.PopulateSpec) model.Result[*T]
	Update(ctx context.Context, id string, partial map[string]any, populate ...model.PopulateSpec) model.Result[*T]
	Delete(ctx context.Context, id string) model.Result[bool]
}

// Entity is the REST controller every entity module instantiates. It
// is deliberately thin: decode, delegate, map the Result onto the
// response. The one policy it owns is upgrading an absent lookup to a
// NotFound, which the service leaves to its callers.
type Entity[T any] struct {
	service EntityService[T]
	logger  *logger.Logger
}

// NewEntity creates the controller for one entity type.
func NewEntity[T any](service EntityService[T], logger *logger.Logger) *Entity[T] {
	return &Entity[T]{service: service, logger: logger}
}

// Register mounts the route set for the entity under /api/<path>.
func (h *Entity[T]) Register(mux *http.ServeMux, path string) {
	base := "/api/" + path
	mux.HandleFunc("POST "+base, h.create)
	mux.HandleFunc("GET "+base, h.list)
	mux.HandleFunc("GET "+base+"/{id}", h.get)
	mux.HandleFunc("PUT "+base+"/{id}", h.update)
	mux.HandleFunc("DELETE "+base+"/{id}", h.delete)
}

func (h *Entity[T]) create(w http.ResponseWriter, r *http.Request) {
	var entity T
	if !decodeBody(w, r, &entity) {
		return
	}
	respond(w, http.StatusCreated, h.service.Create(r.Context(), entity))
}

func (h *Entity[T]) list(w http.ResponseWriter, r *http.Request) {
	query := model.QuerySpec{}
	for field, values := range r.URL.Query() {
		if len(values) > 0 {
			query[field] = values[0]
		}
	}
	respond(w, http.StatusOK, h.service.Find(r.Context(), query))
}

func (h *Entity[T]) get(w http.ResponseWriter, r *http.Request) {
	result := h.service.FindByID(r.Context(), r.PathValue("id"))
	if !result.IsOk() {
		WriteError(w, result.Err())
		return
	}
	if result.Value() == nil {
		WriteError(w, model.NewNotFound("registro no encontrado"))
		return
	}
	writeJSON(w, http.StatusOK, result.Value())
}

func (h *Entity[T]) update(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if !decodeBody(w, r, &partial) {
		return
	}
	result := h.service.Update(r.Context(), r.PathValue("id"), partial)
	if !result.IsOk() {
		WriteError(w, result.Err())
		return
	}
	if result.Value() == nil {
		WriteError(w, model.NewNotFound("registro no encontrado"))
		return
	}
	writeJSON(w, http.StatusOK, result.Value())
}

func (h *Entity[T]) delete(w http.ResponseWriter, r *http.Request) {
	result := h.service.Delete(r.Context(), r.PathValue("id"))
	if !result.IsOk() {
		WriteError(w, result.Err())
		return
	}
	if !result.Value() {
		WriteError(w, model.NewNotFound("registro no encontrado"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// decodeBody reads the JSON payload, reporting a Validation failure on
// malformed input. It writes the response itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		WriteError(w, model.NewValidationError([]model.Violation{
			{Path: "body", Message: "invalid JSON payload"},
		}))
		return false
	}
	return true
}
