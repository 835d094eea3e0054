package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sorting-waste-app/services/internal/apperr"
	"github.com/sorting-waste-app/services/internal/password"
	"github.com/sorting-waste-app/services/internal/storage"
	"github.com/sorting-waste-app/services/internal/types"
	"github.com/sorting-waste-app/services/internal/validation"
)

const (
	userResource = "User"

	// LoginSucceeded is the status reported by a successful Login.
	LoginSucceeded = "successfully logged in"
)

// Users manages user records, credential checks and the lookup of the
// waste items a user created.
//
// Email uniqueness is enforced by a unique index in the store, not by a
// read before the write, so two concurrent registrations with the same
// email cannot both succeed.
type Users struct {
	store  storage.Store
	hasher *password.Hasher
	log    *slog.Logger
}

// Create validates in, hashes the password and stores the user. It
// returns a ConflictError when the email is already registered.
func (s *Users) Create(ctx context.Context, in types.UserInput) (types.User, error) {
	if err := validation.Struct(in); err != nil {
		return types.User{}, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return types.User{}, fmt.Errorf("create user: %w", err)
	}

	email := normalize(in.Email)
	created, err := s.store.Users().Insert(ctx, types.User{
		Name:      in.Name,
		Age:       *in.Age,
		Email:     email,
		Password:  hashed,
		Course:    in.Course,
		Challenge: normalize(in.Challenge),
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return types.User{}, &apperr.ConflictError{Field: types.FieldEmail, Value: email}
		}
		return types.User{}, fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "user created", slog.String("id", created.ID.Hex()))
	return created, nil
}

// Get returns the user with the given id.
func (s *Users) Get(ctx context.Context, id string) (types.User, error) {
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return types.User{}, notFound(err, userResource, id)
	}
	return u, nil
}

// List returns up to storage.ListLimit users.
func (s *Users) List(ctx context.Context) ([]types.User, error) {
	return s.store.Users().Find(ctx, "", nil, storage.ListLimit)
}

// Update applies the members of p that carry a value. A new password is
// hashed before it is stored; a new email that belongs to another user
// is a ConflictError.
func (s *Users) Update(ctx context.Context, id string, p types.UserPatch) (types.User, error) {
	if err := validation.Struct(p); err != nil {
		return types.User{}, err
	}

	set := storage.Set{}
	assign(set, types.FieldName, p.Name)
	assign(set, types.FieldAge, p.Age)
	assignNormalized(set, types.FieldEmail, p.Email)
	assign(set, types.FieldCourse, p.Course)
	assignNormalized(set, types.FieldChallenge, p.Challenge)
	if plain, ok := p.Password.Get(); ok {
		hashed, err := s.hasher.Hash(plain)
		if err != nil {
			return types.User{}, fmt.Errorf("update user %s: %w", id, err)
		}
		set[types.FieldPassword] = hashed
	}

	updated, err := s.store.Users().Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			email, _ := set[types.FieldEmail].(string)
			return types.User{}, &apperr.ConflictError{Field: types.FieldEmail, Value: email}
		}
		return types.User{}, notFound(err, userResource, id)
	}

	if len(set) > 0 {
		s.log.InfoContext(ctx, "user updated", slog.String("id", id), slog.Int("fields", len(set)))
	}
	return updated, nil
}

// Delete removes the user. Waste items the user created are kept.
func (s *Users) Delete(ctx context.Context, id string) error {
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return notFound(err, userResource, id)
	}
	s.log.InfoContext(ctx, "user deleted", slog.String("id", id))
	return nil
}

// Items returns the waste items whose created_by_email equals the email
// of user id.
func (s *Users) Items(ctx context.Context, id string) ([]types.WasteItem, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.store.WasteItems().Find(ctx, types.FieldCreatedByEmail, u.Email, storage.ListLimit)
}

// Login verifies a password for the user registered under email. It
// only checks credentials; nothing is issued on success.
func (s *Users) Login(ctx context.Context, req types.LoginRequest) (types.LoginResult, error) {
	if err := validation.Struct(req); err != nil {
		return types.LoginResult{}, err
	}

	u, err := s.store.Users().FindOne(ctx, types.FieldEmail, normalize(req.Email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return types.LoginResult{}, &apperr.AuthError{Reason: apperr.ReasonEmailNotFound}
		}
		return types.LoginResult{}, fmt.Errorf("login: %w", err)
	}

	if err := s.hasher.Verify(u.Password, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			s.log.InfoContext(ctx, "login rejected", slog.String("id", u.ID.Hex()))
			return types.LoginResult{}, &apperr.AuthError{Reason: apperr.ReasonIncorrectPassword}
		}
		return types.LoginResult{}, fmt.Errorf("login: %w", err)
	}

	return types.LoginResult{Email: u.Email, Status: LoginSucceeded}, nil
}
