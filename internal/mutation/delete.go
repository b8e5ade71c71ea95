// internal/mutation/delete.go
//
// DeleteNode: remove one entry, orphaning its dependents.
//
// Deletion is local, never transitive: entries pointing at the deleted
// node get a NULL target and live on as orphans.  The main node cannot be
// deleted while other nodes exist; the network must shrink to a single
// node or designate a new main first.
package mutation

import (
	"context"

	"github.com/yanizio/seonet/internal/audit"
	"github.com/yanizio/seonet/internal/notify"
	"github.com/yanizio/seonet/internal/structure"
)

// DeleteResult reports what a deletion did.
type DeleteResult struct {
	OrphanedCount int64 `json:"orphaned_count"`
}

// DeleteNode validates and removes an entry, returning how many entries
// its removal orphaned.
func (p *Protocol) DeleteNode(ctx context.Context, entryID uint64, changeNote, actorEmail string) (*DeleteResult, error) {
	if err := p.checkNote(changeNote); err != nil {
		return nil, reject(err)
	}
	if actorEmail == "" {
		return nil, reject(&structure.ValidationError{Field: "actor", Reason: "missing actor identity"})
	}

	pre, err := structure.ByID(ctx, p.db, entryID)
	if err != nil {
		return nil, err
	}

	var result *DeleteResult
	err = p.withNetwork(ctx, pre.NetworkID, func(ctx context.Context, entries []structure.Entry, g *structure.Graph) error {
		cur := g.Entry(entryID)
		if cur == nil {
			return structure.ErrNotFound
		}

		if cur.IsMain() && g.Len() > 1 {
			return reject(&structure.InvariantViolation{
				Rule:   "single_main",
				Detail: "cannot delete the main node while other nodes exist; switch main first",
			})
		}

		tx, err := p.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		orphaned, err := structure.ClearTargets(ctx, tx, cur.NetworkID, cur.ID)
		if err != nil {
			return err
		}
		if err := structure.Delete(ctx, tx, cur.ID); err != nil {
			return err
		}

		logRow := &audit.Entry{
			NetworkID:    cur.NetworkID,
			ActorEmail:   actorEmail,
			ActionType:   audit.ActionDeleteNode,
			AffectedNode: p.label(ctx, cur),
			ChangeNote:   changeNote,
			Before: snapshot(cur, "asset_domain_id", "optimized_path", "domain_role",
				"domain_status", "index_status", "target_entry_id"),
			// After stays nil: the node is gone.
		}
		if err := audit.Record(ctx, tx, logRow); err != nil {
			return err
		}

		ev := notify.Event{
			NetworkID:    cur.NetworkID,
			ChangeLogID:  logRow.ID,
			AffectedNode: logRow.AffectedNode,
			ActorEmail:   actorEmail,
			ChangeNote:   changeNote,
		}
		if err := p.corr.NodeDeleted(ctx, tx, ev, orphaned); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}

		result = &DeleteResult{OrphanedCount: orphaned}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.applied(pre.NetworkID)
	return result, nil
}
