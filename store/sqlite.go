package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"recipebox/models"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS recipes (
	seq  INTEGER PRIMARY KEY AUTOINCREMENT,
	id   TEXT NOT NULL UNIQUE,
	data TEXT NOT NULL
)`

// SQLite stores each recipe as a JSON document. seq keeps creation order.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a single connection serializes writers and keeps ":memory:" databases
	// shared across calls
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) List(ctx context.Context) (*models.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM recipes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	c := models.NewCollection()
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		var r models.Recipe
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("decode recipe: %w", err)
		}
		r.Normalize()
		c.Set(r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return c, nil
}

func (s *SQLite) Get(ctx context.Context, id string) (models.Recipe, error) {
	return s.get(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (s *SQLite) get(ctx context.Context, q queryer, id string) (models.Recipe, error) {
	var data string
	err := q.QueryRowContext(ctx, `SELECT data FROM recipes WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Recipe{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Recipe{}, fmt.Errorf("get %s: %w", id, err)
	}
	var r models.Recipe
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return models.Recipe{}, fmt.Errorf("decode recipe %s: %w", id, err)
	}
	r.Normalize()
	return r, nil
}

func (s *SQLite) Create(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	r = prepare(r)
	data, err := json.Marshal(r)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("encode recipe %s: %w", r.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recipes (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`, r.ID, string(data))
	if err != nil {
		return models.Recipe{}, fmt.Errorf("create %s: %w", r.ID, err)
	}
	return r, nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLite) UpdateField(ctx context.Context, id, field string, value interface{}) error {
	if err := models.CheckUpdatableField(field); err != nil {
		return err
	}
	return s.modify(ctx, id, func(r models.Recipe) (models.Recipe, error) {
		return applyField(r, field, value)
	})
}

func (s *SQLite) SetFavorite(ctx context.Context, id, uid string, favorite bool) error {
	return s.modify(ctx, id, func(r models.Recipe) (models.Recipe, error) {
		r.FavoritedBy = models.WithFavorite(r.FavoritedBy, uid, favorite)
		return r, nil
	})
}

// modify reads, changes and writes one recipe inside a transaction.
func (s *SQLite) modify(ctx context.Context, id string, fn func(models.Recipe) (models.Recipe, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	r, err := s.get(ctx, tx, id)
	if err != nil {
		return err
	}
	r, err = fn(r)
	if err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode recipe %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE recipes SET data = ? WHERE id = ?`, string(data), id); err != nil {
		return fmt.Errorf("update %s: %w", id, err)
	}
	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
