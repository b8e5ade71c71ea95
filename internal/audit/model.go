// internal/audit/model.go
//
// Change-log row model.
//
// Context
// -------
// Every successful mutation produces exactly one change-log row: who did
// it, which node it touched, a classification of what kind of change it
// was, the operator's justification, and partial before/after snapshots of
// the fields involved.  Rows are insert-only; nothing ever updates or
// deletes them.
package audit

import (
	"encoding/json"
	"time"
)

// ActionType classifies a mutation for filtering and notification rules.
type ActionType string

const (
	ActionCreateNode ActionType = "create_node"
	ActionUpdateNode ActionType = "update_node"
	ActionDeleteNode ActionType = "delete_node"
	ActionRelinkNode ActionType = "relink_node"
	ActionChangeRole ActionType = "change_role"
	ActionChangePath ActionType = "change_path"
)

// Snapshot is a partial projection of the entry fields relevant to one
// change.  Nil means "no state on this side" (before-create, after-delete).
type Snapshot map[string]any

// Entry mirrors one row in the persistent `change_log` table.  The raw
// JSON snapshot columns are scanned as []byte and exposed decoded.
type Entry struct {
	ID           uint64     `db:"id" json:"id"`
	NetworkID    uint64     `db:"network_id" json:"network_id"`
	EntryID      *uint64    `db:"entry_id" json:"entry_id"`
	ActorEmail   string     `db:"actor_email" json:"actor_email"`
	ActionType   ActionType `db:"action_type" json:"action_type"`
	AffectedNode string     `db:"affected_node" json:"affected_node"`
	ChangeNote   string     `db:"change_note" json:"change_note"`
	BeforeRaw    []byte     `db:"before_snapshot" json:"-"`
	AfterRaw     []byte     `db:"after_snapshot" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`

	Before Snapshot `db:"-" json:"before_snapshot"`
	After  Snapshot `db:"-" json:"after_snapshot"`
}

// decode fills Before and After from the raw JSON columns.
func (e *Entry) decode() error {
	if len(e.BeforeRaw) > 0 {
		if err := json.Unmarshal(e.BeforeRaw, &e.Before); err != nil {
			return err
		}
	}
	if len(e.AfterRaw) > 0 {
		if err := json.Unmarshal(e.AfterRaw, &e.After); err != nil {
			return err
		}
	}
	return nil
}
