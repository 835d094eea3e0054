package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sorting-waste-app/services/internal/storage"
	"github.com/sorting-waste-app/services/internal/types"
	"github.com/sorting-waste-app/services/internal/validation"
)

const challengeResource = "Challenge"

// Challenges manages challenge records and resolves their participants.
type Challenges struct {
	store storage.Store
	log   *slog.Logger
}

// Create validates in, lower-cases the category and creator email, and
// stores the challenge.
func (s *Challenges) Create(ctx context.Context, in types.ChallengeInput) (types.Challenge, error) {
	if err := validation.Struct(in); err != nil {
		return types.Challenge{}, err
	}

	created, err := s.store.Challenges().Insert(ctx, types.Challenge{
		Category:          normalize(in.Category),
		Description:       in.Description,
		DifficultyLevel:   *in.DifficultyLevel,
		ScoringCriteria:   in.ScoringCriteria,
		CreatedByUsername: in.CreatedByUsername,
		CreatedByEmail:    normalize(in.CreatedByEmail),
	})
	if err != nil {
		return types.Challenge{}, fmt.Errorf("create challenge: %w", err)
	}

	s.log.InfoContext(ctx, "challenge created", slog.String("id", created.ID.Hex()))
	return created, nil
}

// Get returns the challenge with the given id.
func (s *Challenges) Get(ctx context.Context, id string) (types.Challenge, error) {
	c, err := s.store.Challenges().FindByID(ctx, id)
	if err != nil {
		return types.Challenge{}, notFound(err, challengeResource, id)
	}
	return c, nil
}

// List returns up to storage.ListLimit challenges.
func (s *Challenges) List(ctx context.Context) ([]types.Challenge, error) {
	return s.store.Challenges().Find(ctx, "", nil, storage.ListLimit)
}

// Update applies the members of p that carry a value.
func (s *Challenges) Update(ctx context.Context, id string, p types.ChallengePatch) (types.Challenge, error) {
	if err := validation.Struct(p); err != nil {
		return types.Challenge{}, err
	}

	set := storage.Set{}
	assignNormalized(set, types.FieldCategory, p.Category)
	assign(set, types.FieldDescription, p.Description)
	assign(set, types.FieldDifficultyLevel, p.DifficultyLevel)
	assign(set, types.FieldScoringCriteria, p.ScoringCriteria)
	assign(set, types.FieldCreatedByUsername, p.CreatedByUsername)
	assignNormalized(set, types.FieldCreatedByEmail, p.CreatedByEmail)

	updated, err := s.store.Challenges().Update(ctx, id, set)
	if err != nil {
		return types.Challenge{}, notFound(err, challengeResource, id)
	}

	if len(set) > 0 {
		s.log.InfoContext(ctx, "challenge updated", slog.String("id", id), slog.Int("fields", len(set)))
	}
	return updated, nil
}

// Delete removes the challenge. Users referencing its category are left
// as they are.
func (s *Challenges) Delete(ctx context.Context, id string) error {
	if err := s.store.Challenges().Delete(ctx, id); err != nil {
		return notFound(err, challengeResource, id)
	}
	s.log.InfoContext(ctx, "challenge deleted", slog.String("id", id))
	return nil
}

// Participants returns the users whose challenge field equals the
// category of challenge id. The two reads are not isolated from each
// other.
func (s *Challenges) Participants(ctx context.Context, id string) ([]types.User, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.store.Users().Find(ctx, types.FieldChallenge, c.Category, storage.ListLimit)
}
