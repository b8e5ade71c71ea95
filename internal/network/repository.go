// internal/network/repository.go
//
// Query helpers for the `network` table.
//
// Context
// -------
// Networks are the locking and consistency scope of the whole engine, but
// their own lifecycle is plain CRUD: list, fetch, create, rename, and a
// soft delete that cascades to the owned structure entries inside one
// transaction.
package network

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/seonet/internal/structure"
)

// All returns every network that is not deleted.
func All(ctx context.Context, db *sqlx.DB) ([]Record, error) {
	const q = `
        SELECT id, name, description, deleted_at, created_at, updated_at
        FROM   network
        WHERE  deleted_at IS NULL
        ORDER  BY name`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ByID fetches a single live network row.
func ByID(ctx context.Context, ext sqlx.ExtContext, id uint64) (*Record, error) {
	const q = `
        SELECT id, name, description, deleted_at, created_at, updated_at
        FROM   network
        WHERE  id = ?
          AND  deleted_at IS NULL
        LIMIT  1`
	var rec Record
	if err := sqlx.GetContext(ctx, ext, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, structure.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Create inserts a network and fills its ID.
func Create(ctx context.Context, db *sqlx.DB, rec *Record) error {
	const q = `INSERT INTO network (name, description) VALUES (?, ?)`
	res, err := db.ExecContext(ctx, q, rec.Name, rec.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// Rename updates name and description.
func Rename(ctx context.Context, db *sqlx.DB, id uint64, name, description string) error {
	const q = `UPDATE network SET name = ?, description = ? WHERE id = ? AND deleted_at IS NULL`
	res, err := db.ExecContext(ctx, q, name, description, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return structure.ErrNotFound
	}
	return nil
}

// SoftDelete marks the network deleted and removes its entries in the same
// transaction.  Change-log rows are kept; they are the immutable history.
func SoftDelete(ctx context.Context, db *sqlx.DB, id uint64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE network SET deleted_at = NOW() WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return structure.ErrNotFound
	}
	if err := structure.DeleteByNetwork(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}
