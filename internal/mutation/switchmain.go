// internal/mutation/switchmain.go
//
// SwitchMainTarget: atomic two-entry main transition.
//
// Context
// -------
// The old main becomes a supporting node with canonical status targeting
// the new main; the designated entry becomes main with primary status and
// no target.  Both row updates run in one SQL transaction, so a crash
// between them cannot persist a zero-main or two-main state.  Every other
// entry's target is left untouched; tiers are recomputed because every
// node's distance to main may have changed.
//
// Switching to B and then back to A restores the original role assignment
// exactly when B originally targeted A, which is the common hub shape.
package mutation

import (
	"context"

	"github.com/yanizio/seonet/internal/audit"
	"github.com/yanizio/seonet/internal/notify"
	"github.com/yanizio/seonet/internal/structure"
)

// SwitchResult returns both transitioned entries with derived tiers.
type SwitchResult struct {
	OldMain *structure.Entry `json:"old_main"`
	NewMain *structure.Entry `json:"new_main"`
}

// SwitchMainTarget promotes newMainID and demotes the current main in one
// transaction.
func (p *Protocol) SwitchMainTarget(ctx context.Context, networkID, newMainID uint64, changeNote, actorEmail string) (*SwitchResult, error) {
	if err := p.checkNote(changeNote); err != nil {
		return nil, reject(err)
	}
	if actorEmail == "" {
		return nil, reject(&structure.ValidationError{Field: "actor", Reason: "missing actor identity"})
	}

	var result *SwitchResult
	err := p.withNetwork(ctx, networkID, func(ctx context.Context, entries []structure.Entry, g *structure.Graph) error {
		next := g.Entry(newMainID)
		if next == nil {
			return structure.ErrNotFound
		}

		oldMain, ok := g.MainNode()
		if !ok {
			return reject(&structure.InvariantViolation{
				Rule:   "single_main",
				Detail: "network has no main node; promote one via update instead",
			})
		}
		if oldMain.ID == newMainID {
			return reject(&structure.ValidationError{
				Field:  "new_main_entry_id",
				Reason: "entry is already the main node",
			})
		}

		demoted := *oldMain
		demoted.DomainRole = structure.RoleSupporting
		demoted.DomainStatus = structure.StatusCanonical
		demoted.TargetEntryID = &next.ID

		promoted := *next
		promoted.DomainRole = structure.RoleMain
		promoted.DomainStatus = structure.StatusPrimary
		promoted.TargetEntryID = nil

		tx, err := p.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if err := structure.Update(ctx, tx, &demoted); err != nil {
			return err
		}
		if err := structure.Update(ctx, tx, &promoted); err != nil {
			return err
		}

		proposed := replaceEntry(replaceEntry(entries, demoted), promoted)
		rep, err := derive(networkID, proposed)
		if err != nil {
			return err
		}

		oldLabel := p.label(ctx, oldMain)
		newLabel := p.label(ctx, &promoted)

		logRow := &audit.Entry{
			NetworkID:    networkID,
			EntryID:      &promoted.ID,
			ActorEmail:   actorEmail,
			ActionType:   audit.ActionRelinkNode,
			AffectedNode: newLabel,
			ChangeNote:   changeNote,
			Before: audit.Snapshot{
				"main_entry_id": oldMain.ID,
				"main_node":     oldLabel,
			},
			After: audit.Snapshot{
				"main_entry_id": promoted.ID,
				"main_node":     newLabel,
			},
		}
		if err := audit.Record(ctx, tx, logRow); err != nil {
			return err
		}

		ev := notify.Event{
			NetworkID:    networkID,
			ChangeLogID:  logRow.ID,
			AffectedNode: newLabel,
			ActorEmail:   actorEmail,
			ChangeNote:   changeNote,
		}
		if err := p.corr.MainChanged(ctx, tx, ev, oldLabel, newLabel); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}

		demoted.Tier = tierFor(rep, demoted.ID)
		promoted.Tier = tierFor(rep, promoted.ID)
		result = &SwitchResult{OldMain: &demoted, NewMain: &promoted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.applied(networkID)
	return result, nil
}
