// Package service implements the entity lifecycle shared by the four
// services: validate, normalize, persist, and translate storage errors
// into the apperr taxonomy.
package service

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/sorting-waste-app/services/internal/apperr"
	"github.com/sorting-waste-app/services/internal/password"
	"github.com/sorting-waste-app/services/internal/storage"
	"github.com/sorting-waste-app/services/internal/types"
)

// Services aggregates the per-entity services over one store.
type Services struct {
	Challenges      *Challenges
	Users           *Users
	WasteCategories *WasteCategories
	WasteItems      *WasteItems
}

// New wires every service to store.
func New(store storage.Store, hasher *password.Hasher, log *slog.Logger) *Services {
	return &Services{
		Challenges:      &Challenges{store: store, log: log.With(slog.String("entity", "challenge"))},
		Users:           &Users{store: store, hasher: hasher, log: log.With(slog.String("entity", "user"))},
		WasteCategories: &WasteCategories{store: store, log: log.With(slog.String("entity", "waste_category"))},
		WasteItems:      &WasteItems{store: store, log: log.With(slog.String("entity", "waste_item"))},
	}
}

// normalize lower-cases correlation fields so that exact-match lookups
// across collections are case-insensitive in practice.
func normalize(s string) string {
	return strings.ToLower(s)
}

// assign copies a patch member into set when it carries a value.
func assign[T any](set storage.Set, key string, f types.Field[T]) {
	if v, ok := f.Get(); ok {
		set[key] = v
	}
}

// assignNormalized is assign for correlation fields.
func assignNormalized(set storage.Set, key string, f types.Field[string]) {
	if v, ok := f.Get(); ok {
		set[key] = normalize(v)
	}
}

// notFound maps storage.ErrNotFound to a NotFoundError for resource id
// and passes anything else through.
func notFound(err error, resource, id string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &apperr.NotFoundError{Resource: resource, ID: id}
	}
	return err
}
