// Package mongodb implements storage.Store on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sorting-waste-app/services/internal/config"
	"github.com/sorting-waste-app/services/internal/storage"
	"github.com/sorting-waste-app/services/internal/types"
)

// Store is a storage.Store backed by one MongoDB database.
type Store struct {
	client *mongo.Client

	challenges      *collection[types.Challenge]
	users           *collection[types.User]
	wasteCategories *collection[types.WasteCategory]
	wasteItems      *collection[types.WasteItem]
}

var _ storage.Store = (*Store)(nil)

// New connects to the database described by cfg, verifies the
// connection and ensures the indexes the services rely on.
func New(ctx context.Context, cfg config.Storage) (*Store, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout).
			SetServerSelectionTimeout(cfg.ConnectTimeout)
	}
	if cfg.OperationTimeout > 0 {
		opts.SetTimeout(cfg.OperationTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb.New: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb.New: ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:          client,
		challenges:      &collection[types.Challenge]{coll: db.Collection(storage.ChallengesCollection)},
		users:           &collection[types.User]{coll: db.Collection(storage.UsersCollection)},
		wasteCategories: &collection[types.WasteCategory]{coll: db.Collection(storage.WasteCategoriesCollection)},
		wasteItems:      &collection[types.WasteItem]{coll: db.Collection(storage.WasteItemsCollection)},
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the unique email index and the indexes behind the
// cross-collection lookups. CreateMany is idempotent for identical specs.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: types.FieldEmail, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: types.FieldChallenge, Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongodb.New: users indexes: %w", err)
	}

	_, err = s.wasteItems.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: types.FieldCreatedByEmail, Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongodb.New: waste items index: %w", err)
	}
	return nil
}

func (s *Store) Challenges() storage.Collection[types.Challenge]         { return s.challenges }
func (s *Store) Users() storage.Collection[types.User]                   { return s.users }
func (s *Store) WasteCategories() storage.Collection[types.WasteCategory] { return s.wasteCategories }
func (s *Store) WasteItems() storage.Collection[types.WasteItem]         { return s.wasteItems }

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client pool.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// collection adapts one *mongo.Collection to storage.Collection[T].
type collection[T any] struct {
	coll *mongo.Collection
}

func (c *collection[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T

	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return zero, fmt.Errorf("insert into %s: %w", c.coll.Name(), storage.ErrDuplicate)
		}
		return zero, fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}

	return c.findOne(ctx, bson.M{types.FieldID: res.InsertedID})
}

func (c *collection[T]) FindByID(ctx context.Context, id string) (T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		var zero T
		return zero, storage.ErrNotFound
	}
	return c.findOne(ctx, bson.M{types.FieldID: oid})
}

func (c *collection[T]) FindOne(ctx context.Context, field string, value any) (T, error) {
	return c.findOne(ctx, bson.M{field: value})
}

func (c *collection[T]) findOne(ctx context.Context, filter bson.M) (T, error) {
	var doc T
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return doc, storage.ErrNotFound
		}
		return doc, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	return doc, nil
}

func (c *collection[T]) Find(ctx context.Context, field string, value any, limit int64) ([]T, error) {
	filter := bson.M{}
	if field != "" {
		filter[field] = value
	}

	cursor, err := c.coll.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return docs, nil
}

func (c *collection[T]) Update(ctx context.Context, id string, set storage.Set) (T, error) {
	var doc T

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return doc, storage.ErrNotFound
	}
	if len(set) == 0 {
		return c.findOne(ctx, bson.M{types.FieldID: oid})
	}

	err = c.coll.FindOneAndUpdate(ctx,
		bson.M{types.FieldID: oid},
		bson.M{"$set": bson.M(set)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return doc, storage.ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return doc, fmt.Errorf("update %s: %w", c.coll.Name(), storage.ErrDuplicate)
		}
		return doc, fmt.Errorf("update %s: %w", c.coll.Name(), err)
	}
	return doc, nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := c.coll.DeleteOne(ctx, bson.M{types.FieldID: oid})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.coll.Name(), err)
	}
	if res.DeletedCount != 1 {
		return storage.ErrNotFound
	}
	return nil
}
