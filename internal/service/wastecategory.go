package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sorting-waste-app/services/internal/storage"
	"github.com/sorting-waste-app/services/internal/types"
	"github.com/sorting-waste-app/services/internal/validation"
)

const wasteCategoryResource = "Waste category"

// WasteCategories manages the catalogue of waste categories.
type WasteCategories struct {
	store storage.Store
	log   *slog.Logger
}

// Create validates in and stores the category under its lower-cased
// name.
func (s *WasteCategories) Create(ctx context.Context, in types.WasteCategoryInput) (types.WasteCategory, error) {
	if err := validation.Struct(in); err != nil {
		return types.WasteCategory{}, err
	}

	created, err := s.store.WasteCategories().Insert(ctx, types.WasteCategory{
		Category:           normalize(in.Category),
		Description:        in.Description,
		DisposalGuidelines: in.DisposalGuidelines,
	})
	if err != nil {
		return types.WasteCategory{}, fmt.Errorf("create waste category: %w", err)
	}

	s.log.InfoContext(ctx, "waste category created", slog.String("id", created.ID.Hex()))
	return created, nil
}

// Get returns the category with the given id.
func (s *WasteCategories) Get(ctx context.Context, id string) (types.WasteCategory, error) {
	c, err := s.store.WasteCategories().FindByID(ctx, id)
	if err != nil {
		return types.WasteCategory{}, notFound(err, wasteCategoryResource, id)
	}
	return c, nil
}

// List returns up to storage.ListLimit categories.
func (s *WasteCategories) List(ctx context.Context) ([]types.WasteCategory, error) {
	return s.store.WasteCategories().Find(ctx, "", nil, storage.ListLimit)
}

// Update applies the members of p that carry a value.
func (s *WasteCategories) Update(ctx context.Context, id string, p types.WasteCategoryPatch) (types.WasteCategory, error) {
	if err := validation.Struct(p); err != nil {
		return types.WasteCategory{}, err
	}

	set := storage.Set{}
	assignNormalized(set, types.FieldCategory, p.Category)
	assign(set, types.FieldDescription, p.Description)
	assign(set, types.FieldDisposalGuidelines, p.DisposalGuidelines)

	updated, err := s.store.WasteCategories().Update(ctx, id, set)
	if err != nil {
		return types.WasteCategory{}, notFound(err, wasteCategoryResource, id)
	}

	if len(set) > 0 {
		s.log.InfoContext(ctx, "waste category updated", slog.String("id", id), slog.Int("fields", len(set)))
	}
	return updated, nil
}

// Delete removes the category.
func (s *WasteCategories) Delete(ctx context.Context, id string) error {
	if err := s.store.WasteCategories().Delete(ctx, id); err != nil {
		return notFound(err, wasteCategoryResource, id)
	}
	s.log.InfoContext(ctx, "waste category deleted", slog.String("id", id))
	return nil
}
