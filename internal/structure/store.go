// internal/structure/store.go
//
// Query helpers for the `structure_entry` table.
//
// Context
// -------
// Helpers accept sqlx.ExtContext so the mutation protocol can run them
// inside a transaction while read paths pass the plain pool.  They are
// thin, parameterised, and return ErrNotFound for missing rows; graph
// validation lives one layer up.
//
// Notes
// -----
// • Column list is spelled out once in entryCols; SELECT * is avoided so
//   schema drift fails loudly at scan time.
// • Oxford commas, two spaces after periods.
package structure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

const entryCols = `id, network_id, asset_domain_id, optimized_path,
       domain_role, domain_status, index_status, target_entry_id,
       ranking_url, primary_keyword, ranking_position, notes,
       created_at, updated_at`

// ByNetwork returns every entry of one network.  This is the full-set read
// the graph model and every mutation starts from.
func ByNetwork(ctx context.Context, ext sqlx.ExtContext, networkID uint64) ([]Entry, error) {
	const q = `SELECT ` + entryCols + `
                 FROM structure_entry
                WHERE network_id = ?
                ORDER BY id`
	var rows []Entry
	if err := sqlx.SelectContext(ctx, ext, &rows, q, networkID); err != nil {
		return nil, err
	}
	return rows, nil
}

// ByID fetches a single entry.
func ByID(ctx context.Context, ext sqlx.ExtContext, id uint64) (*Entry, error) {
	const q = `SELECT ` + entryCols + `
                 FROM structure_entry
                WHERE id = ?`
	var e Entry
	if err := sqlx.GetContext(ctx, ext, &e, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Insert persists a new entry and fills its ID.
func Insert(ctx context.Context, ext sqlx.ExtContext, e *Entry) error {
	const q = `INSERT INTO structure_entry
                 (network_id, asset_domain_id, optimized_path, domain_role,
                  domain_status, index_status, target_entry_id, ranking_url,
                  primary_keyword, ranking_position, notes)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := ext.ExecContext(ctx, q,
		e.NetworkID, e.AssetDomainID, e.OptimizedPath, e.DomainRole,
		e.DomainStatus, e.IndexStatus, e.TargetEntryID, e.RankingURL,
		e.PrimaryKeyword, e.RankingPosition, e.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// Update rewrites every mutable column of an existing entry.  network_id
// and id are immutable by design and never appear in the SET list.
func Update(ctx context.Context, ext sqlx.ExtContext, e *Entry) error {
	const q = `UPDATE structure_entry
                  SET asset_domain_id = ?, optimized_path = ?, domain_role = ?,
                      domain_status = ?, index_status = ?, target_entry_id = ?,
                      ranking_url = ?, primary_keyword = ?, ranking_position = ?,
                      notes = ?
                WHERE id = ?`
	res, err := ext.ExecContext(ctx, q,
		e.AssetDomainID, e.OptimizedPath, e.DomainRole,
		e.DomainStatus, e.IndexStatus, e.TargetEntryID,
		e.RankingURL, e.PrimaryKeyword, e.RankingPosition,
		e.Notes, e.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected can legitimately be 0 on a no-op update, so confirm
		// the row exists before reporting ErrNotFound.
		if _, getErr := ByID(ctx, ext, e.ID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// Delete removes one entry.
func Delete(ctx context.Context, ext sqlx.ExtContext, id uint64) error {
	res, err := ext.ExecContext(ctx, `DELETE FROM structure_entry WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearTargets nulls the target of every entry pointing at targetID and
// returns how many rows were orphaned.  Deletion is local, never transitive.
func ClearTargets(ctx context.Context, ext sqlx.ExtContext, networkID, targetID uint64) (int64, error) {
	const q = `UPDATE structure_entry
                  SET target_entry_id = NULL
                WHERE network_id = ? AND target_entry_id = ?`
	res, err := ext.ExecContext(ctx, q, networkID, targetID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByNetwork removes every entry of a network.  Used by the network
// repository's cascade inside the same transaction as the soft delete.
func DeleteByNetwork(ctx context.Context, ext sqlx.ExtContext, networkID uint64) error {
	_, err := ext.ExecContext(ctx, `DELETE FROM structure_entry WHERE network_id = ?`, networkID)
	return err
}
