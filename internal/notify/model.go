// internal/notify/model.go
//
// Network-notification row model.
//
// Context
// -------
// Notifications are the user-facing alerts derived from specific mutation
// classes by the correlator.  Each row back-references the change-log
// entry that triggered it, so an operator can jump from the alert to the
// full before/after record.  The only mutable column is `read`.
package notify

import "time"

// Type enumerates the alert classes the correlator can emit.
type Type string

const (
	TypeMainDomainChange Type = "main_domain_change"
	TypeNodeDeleted      Type = "node_deleted"
	TypeTargetRelinked   Type = "target_relinked"
	TypeOrphanDetected   Type = "orphan_detected"
	TypeSEOConflict      Type = "seo_conflict"
	TypeHighTierNoindex  Type = "high_tier_noindex"
)

// Notification mirrors one row in `network_notification`.
type Notification struct {
	ID           uint64    `db:"id" json:"id"`
	NetworkID    uint64    `db:"network_id" json:"network_id"`
	Type         Type      `db:"notification_type" json:"notification_type"`
	ChangeLogID  *uint64   `db:"change_log_id" json:"change_log_id"`
	AffectedNode string    `db:"affected_node" json:"affected_node"`
	Message      string    `db:"message" json:"message"`
	ActorEmail   string    `db:"actor_email" json:"actor_email"`
	ChangeNote   string    `db:"change_note" json:"change_note"`
	Read         bool      `db:"read" json:"read"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
