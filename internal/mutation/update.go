// internal/mutation/update.go
//
// UpdateNode: partial edit of one entry.
//
// Context
// -------
// Any field may change except id and network_id.  Promoting a node to main
// while a different main exists is refused (switch-main is the atomic path
// for that), as is demoting the only main of a populated network.  Target
// changes are re-validated for acyclicity against the proposed graph
// before anything is written.
//
// The change-log action type is classified by what actually changed: role
// → change_role, path → change_path, target → relink_node, anything else →
// update_node.  When several classes apply, role wins over path over
// target, matching how operators read the log.
package mutation

import (
	"context"

	"github.com/yanizio/seonet/internal/audit"
	"github.com/yanizio/seonet/internal/notify"
	"github.com/yanizio/seonet/internal/structure"
)

// UpdateInput carries a partial edit.  Nil pointers leave fields
// untouched; SetTarget distinguishes "clear the target" (set_target true,
// target_entry_id null) from "leave it alone".  Wire names mirror the
// entry model; EntryID and Actor come from the URL and the identity
// header, never from the body.
type UpdateInput struct {
	EntryID         uint64                 `json:"-" validate:"required"`
	AssetDomainID   *uint64                `json:"asset_domain_id"`
	OptimizedPath   *string                `json:"optimized_path"`
	Role            *structure.Role        `json:"domain_role"`
	Status          *structure.Status      `json:"domain_status"`
	IndexStatus     *structure.IndexStatus `json:"index_status"`
	SetTarget       bool                   `json:"set_target"`
	TargetEntryID   *uint64                `json:"target_entry_id"`
	RankingURL      *string                `json:"ranking_url"`
	PrimaryKeyword  *string                `json:"primary_keyword"`
	RankingPosition *int                   `json:"ranking_position"`
	Notes           *string                `json:"notes"`
	ChangeNote      string                 `json:"change_note" validate:"required"`
	Actor           string                 `json:"-" validate:"required,email"`
}

// UpdateNode validates and persists a partial edit, returning the stored
// entry with its derived tier attached.
func (p *Protocol) UpdateNode(ctx context.Context, in UpdateInput) (*structure.Entry, error) {
	if err := checkInput(in); err != nil {
		return nil, reject(err)
	}
	if err := p.checkNote(in.ChangeNote); err != nil {
		return nil, reject(err)
	}

	// Resolve the owning network before taking its lock; the entry is
	// re-read under the lock so this pre-read cannot go stale unnoticed.
	pre, err := structure.ByID(ctx, p.db, in.EntryID)
	if err != nil {
		return nil, err
	}

	var updated *structure.Entry
	err = p.withNetwork(ctx, pre.NetworkID, func(ctx context.Context, entries []structure.Entry, g *structure.Graph) error {
		cur := g.Entry(in.EntryID)
		if cur == nil {
			return structure.ErrNotFound
		}

		next := *cur
		roleChanged := applyEdit(&next, in)
		if roleChanged {
			// May shed the target and force status on promotion, so the
			// changed-field flags are derived afterwards.
			if err := p.checkRoleChange(g, cur, &next); err != nil {
				return reject(err)
			}
		}
		pathChanged := next.AssetDomainID != cur.AssetDomainID || next.OptimizedPath != cur.OptimizedPath
		targetChanged := !sameTarget(cur.TargetEntryID, next.TargetEntryID)
		if err := structure.ValidateRoleStatus(next.DomainRole, next.DomainStatus); err != nil {
			return reject(err)
		}

		if pathChanged {
			if next.AssetDomainID != cur.AssetDomainID {
				ok, err := p.domains.Exists(ctx, next.AssetDomainID)
				if err != nil {
					return err
				}
				if !ok {
					return reject(&structure.ValidationError{
						Field:  "asset_domain_id",
						Reason: "domain is not registered",
					})
				}
			}
			for i := range entries {
				if entries[i].ID == next.ID {
					continue
				}
				if entries[i].AssetDomainID == next.AssetDomainID && entries[i].OptimizedPath == next.OptimizedPath {
					return reject(&structure.InvariantViolation{
						Rule:   "duplicate_address",
						Detail: "address already occupied by entry " + p.label(ctx, &entries[i]),
					})
				}
			}
		}

		if targetChanged && next.TargetEntryID != nil {
			if next.DomainRole == structure.RoleMain {
				return reject(&structure.ValidationError{
					Field:  "target_entry_id",
					Reason: "main node may not have a target",
				})
			}
			if g.Entry(*next.TargetEntryID) == nil {
				return reject(&structure.ValidationError{
					Field:  "target_entry_id",
					Reason: "target is not an entry of this network",
				})
			}
			if g.WouldCycle(next.ID, *next.TargetEntryID) {
				return reject(&structure.InvariantViolation{
					Rule:   "cycle",
					Detail: "repointing would disconnect the chain from the main node",
				})
			}
		}

		tx, err := p.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if err := structure.Update(ctx, tx, &next); err != nil {
			return err
		}

		proposed := replaceEntry(entries, next)
		rep, err := derive(cur.NetworkID, proposed)
		if err != nil {
			return err
		}

		action, fields := classify(roleChanged, pathChanged, targetChanged, cur, &next)
		logRow := &audit.Entry{
			NetworkID:    cur.NetworkID,
			EntryID:      &cur.ID,
			ActorEmail:   in.Actor,
			ActionType:   action,
			AffectedNode: p.label(ctx, &next),
			ChangeNote:   in.ChangeNote,
			Before:       snapshot(cur, fields...),
			After:        snapshot(&next, fields...),
		}
		if err := audit.Record(ctx, tx, logRow); err != nil {
			return err
		}

		ev := notify.Event{
			NetworkID:    cur.NetworkID,
			ChangeLogID:  logRow.ID,
			AffectedNode: logRow.AffectedNode,
			ActorEmail:   in.Actor,
			ChangeNote:   in.ChangeNote,
		}
		if targetChanged {
			if err := p.corr.Relinked(ctx, tx, ev, targetLabel(ctx, p, g, cur.TargetEntryID), targetLabel(ctx, p, g, next.TargetEntryID)); err != nil {
				return err
			}
		}
		if tier := tierFor(rep, next.ID); p.corr.HighTierIndexed(&next, tier) {
			if err := p.corr.IndexBreach(ctx, tx, ev, *tier); err != nil {
				return err
			}
		}
		if err := p.corr.Conflicts(ctx, tx, ev, proposed); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}

		next.Tier = tierFor(rep, next.ID)
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.applied(pre.NetworkID)
	return updated, nil
}

// applyEdit copies set fields from in onto next and reports whether the
// role changed.
func applyEdit(next *structure.Entry, in UpdateInput) (roleChanged bool) {
	if in.AssetDomainID != nil {
		next.AssetDomainID = *in.AssetDomainID
	}
	if in.OptimizedPath != nil {
		next.OptimizedPath = *in.OptimizedPath
	}
	if in.Role != nil && *in.Role != next.DomainRole {
		next.DomainRole = *in.Role
		roleChanged = true
	}
	if in.Status != nil {
		next.DomainStatus = *in.Status
	}
	if in.IndexStatus != nil {
		next.IndexStatus = *in.IndexStatus
	}
	if in.SetTarget {
		next.TargetEntryID = in.TargetEntryID
	}
	if in.RankingURL != nil {
		next.RankingURL = in.RankingURL
	}
	if in.PrimaryKeyword != nil {
		next.PrimaryKeyword = in.PrimaryKeyword
	}
	if in.RankingPosition != nil {
		next.RankingPosition = in.RankingPosition
	}
	if in.Notes != nil {
		next.Notes = *in.Notes
	}
	return roleChanged
}

// checkRoleChange guards both directions of a role edit: promotion to main
// is only legal while no other main exists, and the sole main of a
// populated network cannot simply be demoted.
func (p *Protocol) checkRoleChange(g *structure.Graph, cur, next *structure.Entry) error {
	if next.DomainRole == structure.RoleMain {
		if main, ok := g.MainNode(); ok && main.ID != cur.ID {
			return &structure.InvariantViolation{
				Rule:   "single_main",
				Detail: "another main exists; use switch-main",
			}
		}
		// A fresh main sheds its target and carries primary status.
		next.TargetEntryID = nil
		next.DomainStatus = structure.StatusPrimary
		return nil
	}
	if cur.DomainRole == structure.RoleMain && g.Len() > 1 {
		return &structure.InvariantViolation{
			Rule:   "single_main",
			Detail: "demoting the main would leave the network without one; use switch-main",
		}
	}
	return nil
}

// classify picks the change-log action and the snapshot field list.  The
// role, path, and target classes snapshot their defining fields; a plain
// update snapshots exactly what changed.
func classify(roleChanged, pathChanged, targetChanged bool, cur, next *structure.Entry) (audit.ActionType, []string) {
	switch {
	case roleChanged:
		return audit.ActionChangeRole, []string{"domain_role", "domain_status", "target_entry_id"}
	case pathChanged:
		return audit.ActionChangePath, []string{"asset_domain_id", "optimized_path"}
	case targetChanged:
		return audit.ActionRelinkNode, []string{"target_entry_id"}
	default:
		return audit.ActionUpdateNode, diffFields(cur, next)
	}
}

// diffFields lists the plain-edit fields that differ between the stored
// row and the proposed one, in column order.
func diffFields(cur, next *structure.Entry) []string {
	var out []string
	if cur.DomainStatus != next.DomainStatus {
		out = append(out, "domain_status")
	}
	if cur.IndexStatus != next.IndexStatus {
		out = append(out, "index_status")
	}
	if !sameStr(cur.RankingURL, next.RankingURL) {
		out = append(out, "ranking_url")
	}
	if !sameStr(cur.PrimaryKeyword, next.PrimaryKeyword) {
		out = append(out, "primary_keyword")
	}
	if !sameInt(cur.RankingPosition, next.RankingPosition) {
		out = append(out, "ranking_position")
	}
	if cur.Notes != next.Notes {
		out = append(out, "notes")
	}
	return out
}

func sameStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameTarget(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// replaceEntry returns a copy of entries with the edited row swapped in.
func replaceEntry(entries []structure.Entry, next structure.Entry) []structure.Entry {
	out := append([]structure.Entry(nil), entries...)
	for i := range out {
		if out[i].ID == next.ID {
			out[i] = next
			break
		}
	}
	return out
}

// targetLabel renders a target reference for notification text.
func targetLabel(ctx context.Context, p *Protocol, g *structure.Graph, id *uint64) string {
	if id == nil {
		return "none"
	}
	if e := g.Entry(*id); e != nil {
		return p.label(ctx, e)
	}
	return "none"
}
