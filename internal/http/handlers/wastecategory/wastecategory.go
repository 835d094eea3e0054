// Package wastecategory serves /waste_categories: create, list, get,
// partial update and delete. Paths are accepted with and without a
// trailing slash.
package wastecategory

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sorting-waste-app/services/internal/http/handlers"
	"github.com/sorting-waste-app/services/internal/types"
)

const prefix = "/waste_categories"

// Service is the part of service.WasteCategories the handlers use.
type Service interface {
	Create(ctx context.Context, in types.WasteCategoryInput) (types.WasteCategory, error)
	Get(ctx context.Context, id string) (types.WasteCategory, error)
	List(ctx context.Context) ([]types.WasteCategory, error)
	Update(ctx context.Context, id string, p types.WasteCategoryPatch) (types.WasteCategory, error)
	Delete(ctx context.Context, id string) error
}

// Register mounts the waste category routes on mux.
func Register(mux *http.ServeMux, svc Service, log *slog.Logger) {
	handlers.Handle(mux, http.MethodPost, prefix, New(svc, log))
	handlers.Handle(mux, http.MethodGet, prefix, GetList(svc, log))
	handlers.Handle(mux, http.MethodGet, prefix+"/{id}", GetByID(svc, log))
	handlers.Handle(mux, http.MethodPut, prefix+"/{id}", Update(svc, log))
	handlers.Handle(mux, http.MethodDelete, prefix+"/{id}", Delete(svc, log))
}

// New handles POST /waste_categories/ and answers 201 with the stored
// category.
func New(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.WasteCategoryInput
		if err := handlers.Decode(w, r, &in); err != nil {
			handlers.Fail(w, r, log, err)
			return
		}

		c, err := svc.Create(r.Context(), in)
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.Created(w, prefix+"/"+c.ID.Hex(), c)
	}
}

// GetByID handles GET /waste_categories/{id}.
func GetByID(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.OK(w, c)
	}
}

// GetList handles GET /waste_categories/.
func GetList(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.OK(w, list)
	}
}

// Update handles PUT /waste_categories/{id}.
func Update(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p types.WasteCategoryPatch
		if err := handlers.Decode(w, r, &p); err != nil {
			handlers.Fail(w, r, log, err)
			return
		}

		c, err := svc.Update(r.Context(), r.PathValue("id"), p)
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.OK(w, c)
	}
}

// Delete handles DELETE /waste_categories/{id} and answers 204.
func Delete(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), r.PathValue("id")); err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.NoContent(w)
	}
}
