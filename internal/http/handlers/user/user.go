// Package user serves the user collection, registration, the password
// check and the lookup of a user's waste items.
//
// Route table:
//
//	POST   /users                create a user
//	POST   /users/register       same as POST /users
//	POST   /users/login          check email and password
//	GET    /users                list users
//	GET    /users/{id}           get one user
//	GET    /users/{id}/items     waste items created by this user
//	PUT    /users/{id}           partial update
//	DELETE /users/{id}           delete
//
// Every path is also accepted with a trailing slash.
package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sorting-waste-app/services/internal/http/handlers"
	"github.com/sorting-waste-app/services/internal/types"
)

const prefix = "/users"

// Service is the part of service.Users the handlers use.
type Service interface {
	Create(ctx context.Context, in types.UserInput) (types.User, error)
	Get(ctx context.Context, id string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Update(ctx context.Context, id string, p types.UserPatch) (types.User, error)
	Delete(ctx context.Context, id string) error
	Items(ctx context.Context, id string) ([]types.WasteItem, error)
	Login(ctx context.Context, req types.LoginRequest) (types.LoginResult, error)
}

// Register mounts the user routes on mux.
func Register(mux *http.ServeMux, svc Service, log *slog.Logger) {
	create := New(svc, log)
	handlers.Handle(mux, http.MethodPost, prefix, create)
	handlers.Handle(mux, http.MethodPost, prefix+"/register", create)
	handlers.Handle(mux, http.MethodPost, prefix+"/login", Login(svc, log))
	handlers.Handle(mux, http.MethodGet, prefix, GetList(svc, log))
	handlers.Handle(mux, http.MethodGet, prefix+"/{id}", GetByID(svc, log))
	handlers.Handle(mux, http.MethodGet, prefix+"/{id}/items", Items(svc, log))
	handlers.Handle(mux, http.MethodPut, prefix+"/{id}", Update(svc, log))
	handlers.Handle(mux, http.MethodDelete, prefix+"/{id}", Delete(svc, log))
}

// New handles POST /users. A taken email is answered with 409.
func New(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.UserInput
		if err := handlers.Decode(w, r, &in); err != nil {
			handlers.Fail(w, r, log, err)
			return
		}

		u, err := svc.Create(r.Context(), in)
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.Created(w, prefix+"/"+u.ID.Hex(), u)
	}
}

// GetByID handles GET /users/{id}. The password hash is never sent.
func GetByID(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.OK(w, u)
	}
}

// GetList handles GET /users/.
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

// Items handles GET /users/{id}/items.
func Items(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Items(r.Context(), r.PathValue("id"))
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.OK(w, items)
	}
}

// Update handles PUT /users/{id}. A new password is hashed by the
// service before it is stored.
func Update(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p types.UserPatch
		if err := handlers.Decode(w, r, &p); err != nil {
			handlers.Fail(w, r, log, err)
			return
		}

		u, err := svc.Update(r.Context(), r.PathValue("id"), p)
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.OK(w, u)
	}
}

// Delete handles DELETE /users/{id} and answers 204.
func Delete(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), r.PathValue("id")); err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.NoContent(w)
	}
}

// Login handles POST /users/login. Both failure reasons are a 400 with
// the reason as the error message.
func Login(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.LoginRequest
		if err := handlers.Decode(w, r, &req); err != nil {
			handlers.Fail(w, r, log, err)
			return
		}

		res, err := svc.Login(r.Context(), req)
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.OK(w, res)
	}
}
