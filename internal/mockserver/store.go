package mockserver

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

//go:embed seed/db.json
var defaultSeed []byte

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidRecord = errors.New("record must be a json object")
)

// Store persists JSON collections in SQLite. Records keep insertion order.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("init migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// Empty reports whether no record exists in any collection.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return false, fmt.Errorf("count records: %w", err)
	}
	return n == 0, nil
}

// Seed imports every top-level array of a db.json document as a collection;
// other top-level values are skipped. A nil reader uses the bundled seed.
// Collections named in the document are replaced.
func (s *Store) Seed(ctx context.Context, r io.Reader) error {
	data := defaultSeed
	if r != nil {
		b, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("read seed: %w", err)
		}
		data = b
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for collection, raw := range doc {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, collection); err != nil {
			return fmt.Errorf("clear %s: %w", collection, err)
		}
		for i, item := range items {
			rec, err := decodeRecord(item)
			if err != nil {
				return fmt.Errorf("seed %s[%d]: %w", collection, i, err)
			}
			id := recordID(rec)
			if id == "" {
				id = strconv.Itoa(i + 1)
				rec["id"] = i + 1
			}
			body, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("seed %s[%d]: %w", collection, i, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO records (collection, id, position, body) VALUES (?, ?, ?, ?)`,
				collection, id, i, string(body)); err != nil {
				return fmt.Errorf("insert %s/%s: %w", collection, id, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// List returns the records of collection in insertion order.
func (s *Store) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM records WHERE collection = ? ORDER BY position ASC`, collection)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	out := []json.RawMessage{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return out, nil
}

// Get returns one record.
func (s *Store) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE collection = ? AND id = ?`, collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(body), nil
}

// Create appends a record. A missing id is assigned: the next integer when
// every existing id in the collection is numeric and the collection is
// non-empty, a UUID otherwise.
func (s *Store) Create(ctx context.Context, collection string, body []byte) (json.RawMessage, error) {
	rec, err := decodeRecord(body)
	if err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := recordID(rec)
	if id == "" {
		next, numeric, err := nextNumericID(ctx, tx, collection)
		if err != nil {
			return nil, err
		}
		if numeric {
			rec["id"] = next
			id = strconv.FormatInt(next, 10)
		} else {
			id = uuid.NewString()
			rec["id"] = id
		}
	}

	var pos int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM records WHERE collection = ?`, collection).Scan(&pos); err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}
	out, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO records (collection, id, position, body) VALUES (?, ?, ?, ?)`,
		collection, id, pos, string(out)); err != nil {
		return nil, fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}
	return out, nil
}

// Replace overwrites a record. The stored id always matches the path id.
func (s *Store) Replace(ctx context.Context, collection, id string, body []byte) (json.RawMessage, error) {
	rec, err := decodeRecord(body)
	if err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	rec["id"] = storedIDValue(existing, id)
	return s.write(ctx, collection, id, rec)
}

// Merge applies a shallow merge of body onto the record.
func (s *Store) Merge(ctx context.Context, collection, id string, body []byte) (json.RawMessage, error) {
	patch, err := decodeRecord(body)
	if err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	rec, err := decodeRecord(existing)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		rec[k] = v
	}
	return s.write(ctx, collection, id, rec)
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) write(ctx context.Context, collection, id string, rec map[string]any) (json.RawMessage, error) {
	out, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET body = ? WHERE collection = ? AND id = ?`, string(out), collection, id)
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

func nextNumericID(ctx context.Context, tx *sql.Tx, collection string) (int64, bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM records WHERE collection = ?`, collection)
	if err != nil {
		return 0, false, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	var maxID int64
	count := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, false, fmt.Errorf("scan id: %w", err)
		}
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, false, nil
		}
		if n > maxID {
			maxID = n
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, false, fmt.Errorf("iterate ids: %w", err)
	}
	return maxID + 1, count > 0, nil
}

func decodeRecord(body []byte) (map[string]any, error) {
	var rec map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil || rec == nil {
		return nil, ErrInvalidRecord
	}
	return rec, nil
}

func recordID(rec map[string]any) string {
	switch v := rec["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

// storedIDValue keeps the id's JSON type: numeric ids stay numbers.
func storedIDValue(existing json.RawMessage, id string) any {
	rec, err := decodeRecord(existing)
	if err == nil {
		if n, ok := rec["id"].(json.Number); ok {
			return n
		}
	}
	return id
}
