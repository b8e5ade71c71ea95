// internal/notify/store.go
//
// Query helpers for the `network_notification` table.
//
// Context
// -------
// Insert runs inside the mutation transaction alongside the change-log
// row.  The read-state mutators run outside any lock: flipping `read` is
// not a graph mutation and carries no change log.
package notify

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Insert persists one notification and fills its ID.
func Insert(ctx context.Context, ext sqlx.ExtContext, n *Notification) error {
	const q = "INSERT INTO network_notification" +
		" (network_id, notification_type, change_log_id, affected_node," +
		"  message, actor_email, change_note, `read`)" +
		" VALUES (?, ?, ?, ?, ?, ?, ?, FALSE)"
	res, err := ext.ExecContext(ctx, q,
		n.NetworkID, n.Type, n.ChangeLogID, n.AffectedNode,
		n.Message, n.ActorEmail, n.ChangeNote)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ByNetwork returns a network's notifications, newest first.
func ByNetwork(ctx context.Context, db *sqlx.DB, networkID uint64) ([]Notification, error) {
	const q = "SELECT id, network_id, notification_type, change_log_id," +
		" affected_node, message, actor_email, change_note, `read`, created_at" +
		" FROM network_notification WHERE network_id = ?" +
		" ORDER BY created_at DESC, id DESC"
	var rows []Notification
	if err := db.SelectContext(ctx, &rows, q, networkID); err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRead flips one notification to read.
func MarkRead(ctx context.Context, db *sqlx.DB, id uint64) error {
	_, err := db.ExecContext(ctx,
		"UPDATE network_notification SET `read` = TRUE WHERE id = ?", id)
	return err
}

// MarkAllRead flips every unread notification of a network.
func MarkAllRead(ctx context.Context, db *sqlx.DB, networkID uint64) error {
	_, err := db.ExecContext(ctx,
		"UPDATE network_notification SET `read` = TRUE WHERE network_id = ? AND `read` = FALSE",
		networkID)
	return err
}
