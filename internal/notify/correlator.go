// internal/notify/correlator.go
//
// Mutation → notification correlation rules.
//
// Context
// -------
// The mutation protocol calls one correlator method per mutation class
// after the change-log row exists, inside the same transaction, so the
// alert and the audit record commit together.  The rules:
//
//   - switch-main            → main_domain_change, always.
//   - delete with orphans    → node_deleted (orphans themselves surface as
//     report-time warnings on the next read, not stored rows).
//   - supporting node set to index at tier ≥ threshold → high_tier_noindex
//     (policy heuristic, not an invariant).
//   - two nodes at one address with conflicting statuses → seo_conflict
//     (only reachable when the uniqueness check was historically bypassed).
//
// The pure rule predicates are split out so they test without a database.
package notify

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/seonet/internal/structure"
)

// Correlator turns mutation outcomes into notification rows.
type Correlator struct {
	// HighTierThreshold is the tier at or above which an indexed
	// supporting node is considered low-value.
	HighTierThreshold int
}

// Event carries the mutation context every rule needs.
type Event struct {
	NetworkID    uint64
	ChangeLogID  uint64
	AffectedNode string
	ActorEmail   string
	ChangeNote   string
}

func (c *Correlator) emit(ctx context.Context, ext sqlx.ExtContext, ev Event, typ Type, message string) error {
	logID := ev.ChangeLogID
	n := &Notification{
		NetworkID:    ev.NetworkID,
		Type:         typ,
		ChangeLogID:  &logID,
		AffectedNode: ev.AffectedNode,
		Message:      message,
		ActorEmail:   ev.ActorEmail,
		ChangeNote:   ev.ChangeNote,
	}
	if err := Insert(ctx, ext, n); err != nil {
		return err
	}
	Deliver(n)
	return nil
}

// MainChanged always fires on a switch-main transition.
func (c *Correlator) MainChanged(ctx context.Context, ext sqlx.ExtContext, ev Event, oldLabel, newLabel string) error {
	msg := fmt.Sprintf("main domain changed from %s to %s", oldLabel, newLabel)
	return c.emit(ctx, ext, ev, TypeMainDomainChange, msg)
}

// NodeDeleted fires only when the deletion orphaned at least one entry.
func (c *Correlator) NodeDeleted(ctx context.Context, ext sqlx.ExtContext, ev Event, orphaned int64) error {
	if orphaned == 0 {
		return nil
	}
	msg := fmt.Sprintf("%s deleted; %d node(s) left without a target", ev.AffectedNode, orphaned)
	return c.emit(ctx, ext, ev, TypeNodeDeleted, msg)
}

// Relinked fires when an update repointed a node's target.
func (c *Correlator) Relinked(ctx context.Context, ext sqlx.ExtContext, ev Event, oldTarget, newTarget string) error {
	msg := fmt.Sprintf("%s relinked from %s to %s", ev.AffectedNode, oldTarget, newTarget)
	return c.emit(ctx, ext, ev, TypeTargetRelinked, msg)
}

// IndexBreach fires when HighTierIndexed flagged the written entry.
func (c *Correlator) IndexBreach(ctx context.Context, ext sqlx.ExtContext, ev Event, tier int) error {
	msg := fmt.Sprintf("%s is indexed at tier %d (threshold %d); consider noindex",
		ev.AffectedNode, tier, c.HighTierThreshold)
	return c.emit(ctx, ext, ev, TypeHighTierNoindex, msg)
}

// Conflicts emits one seo_conflict per conflicting address pair found in
// the committed entry set.
func (c *Correlator) Conflicts(ctx context.Context, ext sqlx.ExtContext, ev Event, entries []structure.Entry) error {
	for _, pair := range ConflictPairs(entries) {
		msg := fmt.Sprintf("entries %d and %d share an address with conflicting statuses (%s vs %s)",
			pair[0].ID, pair[1].ID, pair[0].DomainStatus, pair[1].DomainStatus)
		if err := c.emit(ctx, ext, ev, TypeSEOConflict, msg); err != nil {
			return err
		}
	}
	return nil
}

// HighTierIndexed reports whether a written entry trips the low-value
// heuristic: a supporting node set to index at or above the threshold.
// A nil tier (unresolved node) never trips it.
func (c *Correlator) HighTierIndexed(e *structure.Entry, tier *int) bool {
	if e.IsMain() || e.IndexStatus != structure.IndexStatusIndex || tier == nil {
		return false
	}
	return *tier >= c.HighTierThreshold
}

// ConflictPairs returns every pair of entries occupying the same
// (asset_domain_id, optimized_path) address with differing statuses.
func ConflictPairs(entries []structure.Entry) [][2]*structure.Entry {
	type addr struct {
		domain uint64
		path   string
	}
	seen := make(map[addr][]*structure.Entry, len(entries))
	var out [][2]*structure.Entry
	for i := range entries {
		e := &entries[i]
		key := addr{e.AssetDomainID, e.OptimizedPath}
		for _, prev := range seen[key] {
			if prev.DomainStatus != e.DomainStatus {
				out = append(out, [2]*structure.Entry{prev, e})
			}
		}
		seen[key] = append(seen[key], e)
	}
	return out
}
