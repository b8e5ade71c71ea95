// internal/structure/entry.go
//
// StructureEntry row model and role/status vocabulary.
//
// Context
// -------
// A structure entry is one node of an SEO network: a registered domain plus
// an optional optimized path, pointing (via target_entry_id) at another node
// in the same network.  Exactly one entry per non-empty network carries the
// `main` role; everything else is `supporting` and either targets another
// node or is an orphan.
//
// The role/status matrix is small and strict:
//
//	main        → primary
//	supporting  → canonical | 301_redirect | 302_redirect | restore
//
// Notes
// -----
// • Tier is derived, never stored; the `db:"-"` field carries it on reads.
// • Oxford commas, two spaces after periods.
package structure

import "time"

// Role classifies a node as the network's destination or a feeder.
type Role string

const (
	RoleMain       Role = "main"
	RoleSupporting Role = "supporting"
)

// Status describes how traffic at the node's address is handled.
type Status string

const (
	StatusPrimary     Status = "primary"
	StatusCanonical   Status = "canonical"
	Status301Redirect Status = "301_redirect"
	Status302Redirect Status = "302_redirect"
	StatusRestore     Status = "restore"
)

// IndexStatus mirrors the node's robots directive.
type IndexStatus string

const (
	IndexStatusIndex   IndexStatus = "index"
	IndexStatusNoindex IndexStatus = "noindex"
)

// Entry mirrors one row in the persistent `structure_entry` table.
type Entry struct {
	ID              uint64      `db:"id" json:"id"`
	NetworkID       uint64      `db:"network_id" json:"network_id"`
	AssetDomainID   uint64      `db:"asset_domain_id" json:"asset_domain_id"`
	OptimizedPath   string      `db:"optimized_path" json:"optimized_path"`
	DomainRole      Role        `db:"domain_role" json:"domain_role"`
	DomainStatus    Status      `db:"domain_status" json:"domain_status"`
	IndexStatus     IndexStatus `db:"index_status" json:"index_status"`
	TargetEntryID   *uint64     `db:"target_entry_id" json:"target_entry_id"`
	RankingURL      *string     `db:"ranking_url" json:"ranking_url,omitempty"`
	PrimaryKeyword  *string     `db:"primary_keyword" json:"primary_keyword,omitempty"`
	RankingPosition *int        `db:"ranking_position" json:"ranking_position,omitempty"`
	Notes           string      `db:"notes" json:"notes"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`

	// Tier is filled from the derivation engine on read paths; nil means
	// unresolved (orphan or disconnected chain).
	Tier *int `db:"-" json:"tier,omitempty"`
}

// IsMain reports whether the entry carries the main role.
func (e *Entry) IsMain() bool { return e.DomainRole == RoleMain }

// ValidStatus reports whether status is a member of the vocabulary at all.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPrimary, StatusCanonical, Status301Redirect, Status302Redirect, StatusRestore:
		return true
	}
	return false
}

// ValidateRoleStatus enforces the role/status matrix.  Primary is reserved
// for the main node; the four supporting statuses are invalid on it.
func ValidateRoleStatus(role Role, status Status) error {
	switch role {
	case RoleMain:
		if status != StatusPrimary {
			return &ValidationError{
				Field:  "domain_status",
				Reason: "main node must use status \"primary\", got " + string(status),
			}
		}
	case RoleSupporting:
		if !ValidStatus(status) || status == StatusPrimary {
			return &ValidationError{
				Field:  "domain_status",
				Reason: "supporting node may not use status " + string(status),
			}
		}
	default:
		return &ValidationError{Field: "domain_role", Reason: "unknown role " + string(role)}
	}
	return nil
}

// DefaultStatus returns the status a new node receives when the caller
// leaves it unset: primary for main, canonical for supporting.
func DefaultStatus(role Role) Status {
	if role == RoleMain {
		return StatusPrimary
	}
	return StatusCanonical
}
