// internal/audit/store.go
//
// Insert and filtered listing for the `change_log` table.
//
// Context
// -------
// Record runs inside the mutation transaction so the log row commits with
// the change it describes, or not at all.  List builds its WHERE clause
// from whichever filters the caller set; every branch is parameterised.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
)

// Record inserts one change-log row and fills its ID.  Before/After nil
// maps become SQL NULLs.
func Record(ctx context.Context, ext sqlx.ExtContext, e *Entry) error {
	var beforeJSON, afterJSON any
	if e.Before != nil {
		b, err := json.Marshal(e.Before)
		if err != nil {
			return err
		}
		beforeJSON = b
	}
	if e.After != nil {
		b, err := json.Marshal(e.After)
		if err != nil {
			return err
		}
		afterJSON = b
	}

	const q = `INSERT INTO change_log
                 (network_id, entry_id, actor_email, action_type,
                  affected_node, change_note, before_snapshot, after_snapshot)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := ext.ExecContext(ctx, q,
		e.NetworkID, e.EntryID, e.ActorEmail, e.ActionType,
		e.AffectedNode, e.ChangeNote, beforeJSON, afterJSON)
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

// Filters narrows a change-log listing.  Zero values mean "no filter".
type Filters struct {
	ActorEmail    string
	ActionType    ActionType
	NodeSubstring string
	From          *time.Time
	To            *time.Time
}

// List returns a network's change log, newest first, narrowed by filters.
func List(ctx context.Context, db *sqlx.DB, networkID uint64, f Filters) ([]Entry, error) {
	q := `SELECT id, network_id, entry_id, actor_email, action_type,
                 affected_node, change_note, before_snapshot, after_snapshot,
                 created_at
            FROM change_log
           WHERE network_id = ?`
	args := []any{networkID}

	if f.ActorEmail != "" {
		q += ` AND actor_email = ?`
		args = append(args, f.ActorEmail)
	}
	if f.ActionType != "" {
		q += ` AND action_type = ?`
		args = append(args, f.ActionType)
	}
	if f.NodeSubstring != "" {
		q += ` AND affected_node LIKE ?`
		args = append(args, "%"+f.NodeSubstring+"%")
	}
	if f.From != nil {
		q += ` AND created_at >= ?`
		args = append(args, *f.From)
	}
	if f.To != nil {
		q += ` AND created_at <= ?`
		args = append(args, *f.To)
	}
	q += ` ORDER BY created_at DESC, id DESC`

	var rows []Entry
	if err := db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	for i := range rows {
		if err := rows[i].decode(); err != nil {
			return nil, err
		}
	}
	return rows, nil
}
