// Package storage defines the contract every document-store backend
// must satisfy.
//
// Services depend only on these interfaces. The mongodb package is the
// production backend; the sqlite package keeps the same documents in a
// single file for development and tests.
package storage

import (
	"context"
	"errors"

	"github.com/sorting-waste-app/services/internal/types"
)

// ListLimit caps every multi-document read. There is no pagination:
// stores holding more records return the first ListLimit in natural
// order.
const ListLimit int64 = 1000

var (
	// ErrNotFound is returned when no document matches an id, including
	// ids that are not well-formed ObjectIDs.
	ErrNotFound = errors.New("storage: document not found")

	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("storage: duplicate key")
)

// Collection names shared by every backend.
const (
	ChallengesCollection      = "Challenges"
	UsersCollection           = "Users"
	WasteCategoriesCollection = "WasteCategories"
	WasteItemsCollection      = "WasteItems"
)

// Set is a change set: stored field name to new value.
type Set map[string]any

// Collection stores documents of one entity type. Every write touches a
// single document; there are no multi-document transactions.
type Collection[T any] interface {
	// Insert stores doc under a newly assigned id and returns the stored
	// document.
	Insert(ctx context.Context, doc T) (T, error)

	// FindByID returns the document with the given hex id.
	FindByID(ctx context.Context, id string) (T, error)

	// FindOne returns the first document whose field equals value. An
	// "_id" lookup matches only a primitive.ObjectID value.
	FindOne(ctx context.Context, field string, value any) (T, error)

	// Find returns up to limit documents whose field equals value, in
	// natural order. An empty field matches every document. The result
	// is never nil.
	Find(ctx context.Context, field string, value any, limit int64) ([]T, error)

	// Update applies set to the document and returns it after the
	// change. An empty set returns the current document.
	Update(ctx context.Context, id string, set Set) (T, error)

	// Delete removes exactly one document or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// Store is an open handle on the shared database. It is opened once at
// service start and closed at shutdown.
type Store interface {
	Challenges() Collection[types.Challenge]
	Users() Collection[types.User]
	WasteCategories() Collection[types.WasteCategory]
	WasteItems() Collection[types.WasteItem]

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
