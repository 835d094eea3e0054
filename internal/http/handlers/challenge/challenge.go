// Package challenge serves the challenge collection and the lookup of a
// challenge's participants.
//
// Route table:
//
//	POST   /challenges            create a challenge
//	GET    /challenges            list challenges
//	GET    /challenges/{id}       get one challenge
//	GET    /challenges/{id}/users users whose challenge is this category
//	PUT    /challenges/{id}       partial update
//	DELETE /challenges/{id}       delete
//
// Every path is also accepted with a trailing slash.
package challenge

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sorting-waste-app/services/internal/http/handlers"
	"github.com/sorting-waste-app/services/internal/types"
)

const prefix = "/challenges"

// Service is the part of service.Challenges the handlers use.
type Service interface {
	Create(ctx context.Context, in types.ChallengeInput) (types.Challenge, error)
	Get(ctx context.Context, id string) (types.Challenge, error)
	List(ctx context.Context) ([]types.Challenge, error)
	Update(ctx context.Context, id string, p types.ChallengePatch) (types.Challenge, error)
	Delete(ctx context.Context, id string) error
	Participants(ctx context.Context, id string) ([]types.User, error)
}

// Register mounts the challenge routes on mux.
func Register(mux *http.ServeMux, svc Service, log *slog.Logger) {
	handlers.Handle(mux, http.MethodPost, prefix, New(svc, log))
	handlers.Handle(mux, http.MethodGet, prefix, GetList(svc, log))
	handlers.Handle(mux, http.MethodGet, prefix+"/{id}", GetByID(svc, log))
	handlers.Handle(mux, http.MethodGet, prefix+"/{id}/users", Users(svc, log))
	handlers.Handle(mux, http.MethodPut, prefix+"/{id}", Update(svc, log))
	handlers.Handle(mux, http.MethodDelete, prefix+"/{id}", Delete(svc, log))
}

// New handles POST /challenges. It answers 201 with the stored
// challenge.
func New(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.ChallengeInput
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

// GetByID handles GET /challenges/{id}.
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

// GetList handles GET /challenges/ and answers with up to
// storage.ListLimit challenges.
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

// Users handles GET /challenges/{id}/users.
func Users(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.Participants(r.Context(), r.PathValue("id"))
		if err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.OK(w, users)
	}
}

// Update handles PUT /challenges/{id}. Members absent from the body or
// set to null keep their stored value.
func Update(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p types.ChallengePatch
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

// Delete handles DELETE /challenges/{id} and answers 204.
func Delete(svc Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), r.PathValue("id")); err != nil {
			handlers.Fail(w, r, log, err)
			return
		}
		handlers.NoContent(w)
	}
}
