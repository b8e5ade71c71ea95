// internal/domain/repository.go
//
// Query helpers for the `asset_domain` table.
//
// Context
// -------
// Asset domains are the portfolio of owned hostnames that structure
// entries point at.  Their lifecycle is owned elsewhere; the engine only
// lists them, registers new ones, and answers two questions on every
// mutation: does this domain exist, and what is it called.
package domain

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/seonet/internal/structure"
)

// Record is one row of the asset_domain table.
type Record struct {
	ID        uint64     `db:"id"         json:"id"`
	Domain    string     `db:"domain"     json:"domain"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// All returns every live domain, alphabetically.
func All(ctx context.Context, db *sqlx.DB) ([]Record, error) {
	const q = `
        SELECT id, domain, deleted_at, created_at, updated_at
        FROM   asset_domain
        WHERE  deleted_at IS NULL
        ORDER  BY domain`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a domain and fills its ID.
func Create(ctx context.Context, db *sqlx.DB, rec *Record) error {
	const q = `INSERT INTO asset_domain (domain) VALUES (?)`
	res, err := db.ExecContext(ctx, q, rec.Domain)
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

//
// registry
//

// Registry answers existence and name lookups for the mutation protocol.
// Names are immutable once registered, so resolved names are cached
// process-wide; existence is always checked against the table because a
// domain may be soft-deleted at any time.
type Registry struct {
	db    *sqlx.DB
	mu    sync.RWMutex
	names map[uint64]string
}

// NewRegistry wires a Registry around the shared pool.
func NewRegistry(db *sqlx.DB) *Registry {
	return &Registry{db: db, names: make(map[uint64]string)}
}

// Exists reports whether the domain row is present and not soft-deleted.
func (r *Registry) Exists(ctx context.Context, assetDomainID uint64) (bool, error) {
	const q = `SELECT 1 FROM asset_domain WHERE id = ? AND deleted_at IS NULL LIMIT 1`
	var one int
	err := r.db.GetContext(ctx, &one, q, assetDomainID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DomainName resolves the hostname for a domain id.
func (r *Registry) DomainName(ctx context.Context, assetDomainID uint64) (string, error) {
	r.mu.RLock()
	if name, ok := r.names[assetDomainID]; ok {
		r.mu.RUnlock()
		return name, nil
	}
	r.mu.RUnlock()

	const q = `SELECT domain FROM asset_domain WHERE id = ? LIMIT 1`
	var name string
	if err := r.db.GetContext(ctx, &name, q, assetDomainID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", structure.ErrNotFound
		}
		return "", err
	}

	r.mu.Lock()
	r.names[assetDomainID] = name
	r.mu.Unlock()
	return name, nil
}
