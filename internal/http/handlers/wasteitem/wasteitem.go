// Package wasteitem serves /waste_items: create, list, get, partial
// update and delete. Paths are accepted with and without a trailing
// slash.
package wasteitem

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sorting-waste-app/services/internal/http/handlers"
	"github.com/sorting-waste-app/services/internal/types"
)

const prefix = "/waste_items"

// Service is the part of service.WasteItems the handlers use.
type Service interface {
	Create(ctx context.Context, in types.WasteItemInput) (types.WasteItem, error)
	Get(ctx context.Context, id string) (types.WasteItem, error)
	List(ctx context.Context) ([]types.WasteItem, error)
	Update(ctx context.Context, id string, p types.WasteItemPatch) (types.WasteItem, error)
	Delete(ctx context.Context, id string) error
}

// Register mounts the waste item routes on mux.
func Register(mux *http.ServeMux, svc Service, log *slog.Logger) {
	handlers.Handle(mux, http.MethodPost, prefix, New(svc, log))
	handlers.Handle(mux, http.MethodGet, prefix, GetList(svc, log))
	handlers.Handle(mux, http.MethodGet, prefix+"/{id}", GetByID(svc, log))
	handlers.Handle(mux, http.MethodPut, prefix+"/{id}", Update(svc, log))
	handlers.Handle(mux, http.MethodDelete, prefix+"/{id}", Delete(svc, log))
}

// New handles POST /waste_items/.
func New(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.WasteItemInput
		if err := handlers.Decode(w, r, &in); err != nil {
			handlers.Fail(w, r, log, err)
			return
		}

		item, err := svc.Create(r.Context(), in)
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.Created(w, prefix+"/"+item.ID.Hex(), item)
	}
}

// GetByID handles GET /waste_items/{id}.
func GetByID(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.OK(w, item)
	}
}

// GetList handles GET /waste_items/.
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

// Update handles PUT /waste_items/{id}.
func Update(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p types.WasteItemPatch
		if err := handlers.Decode(w, r, &p); err != nil {
			handlers.Fail(w, r, log, err)
			return
		}

		item, err := svc.Update(r.Context(), r.PathValue("id"), p)
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.OK(w, item)
	}
}

// Delete handles DELETE /waste_items/{id}.
func Delete(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), r.PathValue("id")); err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.NoContent(w)
	}
}
