package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sorting-waste-app/services/internal/storage"
	"github.com/sorting-waste-app/services/internal/types"
	"github.com/sorting-waste-app/services/internal/validation"
)

const wasteItemResource = "Waste item"

// WasteItems manages catalogued waste items. The creator email is
// stored lower-cased so Users.Items can find it.
type WasteItems struct {
	store storage.Store
	log   *slog.Logger
}

// Create validates in and stores the item.
func (s *WasteItems) Create(ctx context.Context, in types.WasteItemInput) (types.WasteItem, error) {
	if err := validation.Struct(in); err != nil {
		return types.WasteItem{}, err
	}

	created, err := s.store.WasteItems().Insert(ctx, types.WasteItem{
		Name:                in.Name,
		Category:            normalize(in.Category),
		SortingInstructions: in.SortingInstructions,
		CreatedByUsername:   in.CreatedByUsername,
		CreatedByEmail:      normalize(in.CreatedByEmail),
	})
	if err != nil {
		return types.WasteItem{}, fmt.Errorf("create waste item: %w", err)
	}

	s.log.InfoContext(ctx, "waste item created", slog.String("id", created.ID.Hex()))
	return created, nil
}

// Get returns the item with the given id.
func (s *WasteItems) Get(ctx context.Context, id string) (types.WasteItem, error) {
	item, err := s.store.WasteItems().FindByID(ctx, id)
	if err != nil {
		return types.WasteItem{}, notFound(err, wasteItemResource, id)
	}
	return item, nil
}

// List returns up to storage.ListLimit items.
func (s *WasteItems) List(ctx context.Context) ([]types.WasteItem, error) {
	return s.store.WasteItems().Find(ctx, "", nil, storage.ListLimit)
}

// Update applies the members of p that carry a value.
func (s *WasteItems) Update(ctx context.Context, id string, p types.WasteItemPatch) (types.WasteItem, error) {
	if err := validation.Struct(p); err != nil {
		return types.WasteItem{}, err
	}

	set := storage.Set{}
	assign(set, types.FieldName, p.Name)
	assignNormalized(set, types.FieldCategory, p.Category)
	assign(set, types.FieldSortingInstructions, p.SortingInstructions)
	assign(set, types.FieldCreatedByUsername, p.CreatedByUsername)
	assignNormalized(set, types.FieldCreatedByEmail, p.CreatedByEmail)

	updated, err := s.store.WasteItems().Update(ctx, id, set)
	if err != nil {
		return types.WasteItem{}, notFound(err, wasteItemResource, id)
	}

	if len(set) > 0 {
		s.log.InfoContext(ctx, "waste item updated", slog.String("id", id), slog.Int("fields", len(set)))
	}
	return updated, nil
}

// Delete removes the item.
func (s *WasteItems) Delete(ctx context.Context, id string) error {
	if err := s.store.WasteItems().Delete(ctx, id); err != nil {
		return notFound(err, wasteItemResource, id)
	}
	s.log.InfoContext(ctx, "waste item deleted", slog.String("id", id))
	return nil
}
