// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface using Go's standard database/sql package.
//
// Each collection is a table of (id, doc) rows. doc holds the entity as
// relaxed MongoDB Extended JSON, produced from the same bson tags the
// mongodb backend uses, so both backends store identical documents and
// assign the same kind of id. SQLite's JSON functions provide field
// lookups (json_extract) and partial updates (json_patch).
//
// Importing go-sqlite3 also registers the "sqlite3" driver with
// database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sorting-waste-app/services/internal/config"
	"github.com/sorting-waste-app/services/internal/storage"
	"github.com/sorting-waste-app/services/internal/types"
)

const defaultBusyTimeoutMs = 5000

// SQLite is a storage.Store kept in one database file. The *sql.DB pool
// holds a single connection.
type SQLite struct {
	Db *sql.DB

	challenges      *table[types.Challenge]
	users           *table[types.User]
	wasteCategories *table[types.WasteCategory]
	wasteItems      *table[types.WasteItem]
}

var _ storage.Store = (*SQLite)(nil)

// schema creates the collection tables and their indexes. CREATE ... IF
// NOT EXISTS makes it safe to run on every startup. The unique index on
// the user email is what rejects duplicate registrations.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS challenges (
		id  TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id  TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS waste_categories (
		id  TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS waste_items (
		id  TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email
		ON users (json_extract(doc, '$.email'))`,
	`CREATE INDEX IF NOT EXISTS users_challenge
		ON users (json_extract(doc, '$.challenge'))`,
	`CREATE INDEX IF NOT EXISTS waste_items_created_by_email
		ON waste_items (json_extract(doc, '$.created_by_email'))`,
}

// New opens the database file at cfg.Path, creating it and its parent
// directory if needed, and applies the schema.
func New(ctx context.Context, cfg config.Storage) (*SQLite, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	busy := int64(defaultBusyTimeoutMs)
	if cfg.OperationTimeout > 0 {
		busy = cfg.OperationTimeout.Milliseconds()
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", cfg.Path, busy)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: ping: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite.New: apply schema: %w", err)
		}
	}

	return &SQLite{
		Db:              db,
		challenges:      &table[types.Challenge]{db: db, name: "challenges"},
		users:           &table[types.User]{db: db, name: "users"},
		wasteCategories: &table[types.WasteCategory]{db: db, name: "waste_categories"},
		wasteItems:      &table[types.WasteItem]{db: db, name: "waste_items"},
	}, nil
}

func (s *SQLite) Challenges() storage.Collection[types.Challenge]         { return s.challenges }
func (s *SQLite) Users() storage.Collection[types.User]                   { return s.users }
func (s *SQLite) WasteCategories() storage.Collection[types.WasteCategory] { return s.wasteCategories }
func (s *SQLite) WasteItems() storage.Collection[types.WasteItem]         { return s.wasteItems }

// Ping verifies the database file is still usable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.Db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *SQLite) Close(context.Context) error {
	return s.Db.Close()
}

// table adapts one SQLite table to storage.Collection[T]. name is always
// one of the constants passed by New, never user input, so it is safe
// to format into statements.
type table[T any] struct {
	db   *sql.DB
	name string
}

func (t *table[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T

	id := primitive.NewObjectID()
	encoded, err := encode(doc, id)
	if err != nil {
		return zero, fmt.Errorf("insert into %s: %w", t.name, err)
	}

	_, err = t.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (?, ?)", t.name),
		id.Hex(), encoded,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return zero, fmt.Errorf("insert into %s: %w", t.name, storage.ErrDuplicate)
		}
		return zero, fmt.Errorf("insert into %s: %w", t.name, err)
	}

	return t.FindByID(ctx, id.Hex())
}

func (t *table[T]) FindByID(ctx context.Context, id string) (T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		var zero T
		return zero, storage.ErrNotFound
	}
	return t.queryOne(ctx,
		fmt.Sprintf("SELECT doc FROM %s WHERE id = ?", t.name),
		oid.Hex(),
	)
}

func (t *table[T]) FindOne(ctx context.Context, field string, value any) (T, error) {
	// ids are stored in their own column; only an ObjectID matches one.
	if field == types.FieldID {
		oid, ok := value.(primitive.ObjectID)
		if !ok {
			var zero T
			return zero, storage.ErrNotFound
		}
		return t.FindByID(ctx, oid.Hex())
	}
	return t.queryOne(ctx,
		fmt.Sprintf("SELECT doc FROM %s WHERE json_extract(doc, ?) = ? ORDER BY rowid LIMIT 1", t.name),
		jsonPath(field), value,
	)
}

func (t *table[T]) queryOne(ctx context.Context, query string, args ...any) (T, error) {
	var (
		out T
		raw string
	)
	err := t.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, storage.ErrNotFound
		}
		return out, fmt.Errorf("find in %s: %w", t.name, err)
	}
	if err := bson.UnmarshalExtJSON([]byte(raw), false, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", t.name, err)
	}
	return out, nil
}

func (t *table[T]) Find(ctx context.Context, field string, value any, limit int64) ([]T, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if field == "" {
		rows, err = t.db.QueryContext(ctx,
			fmt.Sprintf("SELECT doc FROM %s ORDER BY rowid LIMIT ?", t.name),
			limit,
		)
	} else {
		rows, err = t.db.QueryContext(ctx,
			fmt.Sprintf("SELECT doc FROM %s WHERE json_extract(doc, ?) = ? ORDER BY rowid LIMIT ?", t.name),
			jsonPath(field), value, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", t.name, err)
	}
	defer rows.Close()

	docs := make([]T, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("find in %s: scan row: %w", t.name, err)
		}
		var doc T
		if err := bson.UnmarshalExtJSON([]byte(raw), false, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", t.name, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find in %s: rows iteration: %w", t.name, err)
	}
	return docs, nil
}

func (t *table[T]) Update(ctx context.Context, id string, set storage.Set) (T, error) {
	var zero T

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, storage.ErrNotFound
	}
	if len(set) == 0 {
		return t.FindByID(ctx, id)
	}
	if _, ok := set[types.FieldID]; ok {
		return zero, fmt.Errorf("update %s: %s is immutable", t.name, types.FieldID)
	}

	patch, err := bson.MarshalExtJSON(bson.M(set), false, false)
	if err != nil {
		return zero, fmt.Errorf("update %s: encode: %w", t.name, err)
	}

	res, err := t.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET doc = json_patch(doc, ?) WHERE id = ?", t.name),
		string(patch), oid.Hex(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return zero, fmt.Errorf("update %s: %w", t.name, storage.ErrDuplicate)
		}
		return zero, fmt.Errorf("update %s: %w", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return zero, fmt.Errorf("update %s: rows affected: %w", t.name, err)
	}
	if n == 0 {
		return zero, storage.ErrNotFound
	}

	return t.FindByID(ctx, id)
}

func (t *table[T]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := t.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name),
		oid.Hex(),
	)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: rows affected: %w", t.name, err)
	}
	if n != 1 {
		return storage.ErrNotFound
	}
	return nil
}

// encode renders doc as relaxed Extended JSON with id stored under _id,
// replacing any id already set on doc.
func encode(doc any, id primitive.ObjectID) (string, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", err
	}
	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return "", err
	}

	out := make(bson.D, 0, len(fields)+1)
	out = append(out, bson.E{Key: types.FieldID, Value: id})
	for _, f := range fields {
		if f.Key != types.FieldID {
			out = append(out, f)
		}
	}

	ext, err := bson.MarshalExtJSON(out, false, false)
	if err != nil {
		return "", err
	}
	return string(ext), nil
}

func jsonPath(field string) string {
	return "$." + field
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
