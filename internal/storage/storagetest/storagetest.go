// Package storagetest holds the behaviour every storage.Store backend
// must show. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sorting-waste-app/services/internal/storage"
	"github.com/sorting-waste-app/services/internal/types"
)

// NewStore returns an empty, open store. The caller's cleanup closes it.
type NewStore func(t *testing.T) storage.Store

// Run exercises store against the storage.Collection contract.
func Run(t *testing.T, newStore NewStore) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"InsertAndFindByID", insertAndFindByID},
		{"FindByIDUnknown", findByIDUnknown},
		{"FindOne", findOne},
		{"Find", find},
		{"FindLimit", findLimit},
		{"Update", update},
		{"UpdateEmptySet", updateEmptySet},
		{"UpdateUnknown", updateUnknown},
		{"UniqueEmail", uniqueEmail},
		{"Delete", deleteDoc},
		{"Ping", ping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func challenge(category string) types.Challenge {
	return types.Challenge{
		Category:          category,
		Description:       "sort it",
		DifficultyLevel:   5,
		ScoringCriteria:   "points",
		CreatedByUsername: "ana",
		CreatedByEmail:    "ana@x.com",
	}
}

func user(email, challenge string) types.User {
	return types.User{
		Name:      "Ana",
		Age:       30,
		Email:     email,
		Password:  "$2a$04$notarealhashbutlongenough",
		Course:    "env",
		Challenge: challenge,
	}
}

func insertAndFindByID(t *testing.T, s storage.Store) {
	ctx := context.Background()

	in := challenge("food waste")
	created, err := s.Challenges().Insert(ctx, in)
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())

	in.ID = created.ID
	assert.Equal(t, in, created)

	got, err := s.Challenges().FindByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created, got)

	u, err := s.Users().Insert(ctx, user("ana@x.com", ""))
	require.NoError(t, err)
	gotUser, err := s.Users().FindByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "$2a$04$notarealhashbutlongenough", gotUser.Password)
	assert.Empty(t, gotUser.Challenge)
}

func findByIDUnknown(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.WasteItems().FindByID(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.WasteItems().FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func findOne(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.Users().Insert(ctx, user("ana@x.com", "food waste"))
	require.NoError(t, err)
	bob, err := s.Users().Insert(ctx, user("bob@x.com", ""))
	require.NoError(t, err)

	got, err := s.Users().FindOne(ctx, types.FieldEmail, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	_, err = s.Users().FindOne(ctx, types.FieldEmail, "carol@x.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err = s.Users().FindOne(ctx, types.FieldID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)
	assert.Equal(t, "bob@x.com", got.Email)

	_, err = s.Users().FindOne(ctx, types.FieldID, bob.ID.Hex())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.Users().FindOne(ctx, types.FieldID, primitive.NewObjectID())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func find(t *testing.T, s storage.Store) {
	ctx := context.Background()

	empty, err := s.Users().Find(ctx, "", nil, storage.ListLimit)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	var ids []primitive.ObjectID
	for i, c := range []string{"paper", "glass", "paper"} {
		u, err := s.Users().Insert(ctx, user(fmt.Sprintf("u%d@x.com", i), c))
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}

	all, err := s.Users().Find(ctx, "", nil, storage.ListLimit)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := range all {
		assert.Equal(t, ids[i], all[i].ID)
	}

	paper, err := s.Users().Find(ctx, types.FieldChallenge, "paper", storage.ListLimit)
	require.NoError(t, err)
	require.Len(t, paper, 2)
	assert.Equal(t, ids[0], paper[0].ID)
	assert.Equal(t, ids[2], paper[1].ID)

	none, err := s.Users().Find(ctx, types.FieldChallenge, "metal", storage.ListLimit)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func findLimit(t *testing.T, s storage.Store) {
	if testing.Short() {
		t.Skip("inserts ListLimit+1 documents")
	}
	ctx := context.Background()

	for i := int64(0); i < storage.ListLimit+1; i++ {
		_, err := s.WasteCategories().Insert(ctx, types.WasteCategory{
			Category:           fmt.Sprintf("c%d", i),
			Description:        "d",
			DisposalGuidelines: "g",
		})
		require.NoError(t, err)
	}

	all, err := s.WasteCategories().Find(ctx, "", nil, storage.ListLimit)
	require.NoError(t, err)
	assert.Len(t, all, int(storage.ListLimit))
}

func update(t *testing.T, s storage.Store) {
	ctx := context.Background()

	created, err := s.Challenges().Insert(ctx, challenge("paper"))
	require.NoError(t, err)

	got, err := s.Challenges().Update(ctx, created.ID.Hex(), storage.Set{
		types.FieldDifficultyLevel: 9,
		types.FieldDescription:     "harder",
	})
	require.NoError(t, err)

	want := created
	want.DifficultyLevel = 9
	want.Description = "harder"
	assert.Equal(t, want, got)

	stored, err := s.Challenges().FindByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, want, stored)
}

func updateEmptySet(t *testing.T, s storage.Store) {
	ctx := context.Background()

	created, err := s.Challenges().Insert(ctx, challenge("paper"))
	require.NoError(t, err)

	got, err := s.Challenges().Update(ctx, created.ID.Hex(), storage.Set{})
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func updateUnknown(t *testing.T, s storage.Store) {
	ctx := context.Background()
	set := storage.Set{types.FieldDescription: "x"}

	_, err := s.Challenges().Update(ctx, primitive.NewObjectID().Hex(), set)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.Challenges().Update(ctx, "zzz", set)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.Challenges().Update(ctx, primitive.NewObjectID().Hex(), storage.Set{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func uniqueEmail(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.Users().Insert(ctx, user("ana@x.com", ""))
	require.NoError(t, err)

	_, err = s.Users().Insert(ctx, user("ana@x.com", ""))
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	bob, err := s.Users().Insert(ctx, user("bob@x.com", ""))
	require.NoError(t, err)

	_, err = s.Users().Update(ctx, bob.ID.Hex(), storage.Set{types.FieldEmail: "ana@x.com"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	stored, err := s.Users().FindByID(ctx, bob.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", stored.Email)
}

func deleteDoc(t *testing.T, s storage.Store) {
	ctx := context.Background()

	created, err := s.WasteItems().Insert(ctx, types.WasteItem{
		Name:                "bottle",
		Category:            "glass",
		SortingInstructions: "rinse",
		CreatedByUsername:   "ana",
		CreatedByEmail:      "ana@x.com",
	})
	require.NoError(t, err)

	require.NoError(t, s.WasteItems().Delete(ctx, created.ID.Hex()))

	_, err = s.WasteItems().FindByID(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.WasteItems().Delete(ctx, created.ID.Hex()), storage.ErrNotFound)
	assert.ErrorIs(t, s.WasteItems().Delete(ctx, "bad"), storage.ErrNotFound)
}

func ping(t *testing.T, s storage.Store) {
	assert.NoError(t, s.Ping(context.Background()))
}
