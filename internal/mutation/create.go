// internal/mutation/create.go
//
// CreateNode: add one entry to a network.
//
// Rejections, all pre-write: occupied address, second main (switch-main is
// the only path to change mains), target outside the network, invalid
// role/status combination, missing asset domain, short change note.
package mutation

import (
	"context"

	"github.com/yanizio/seonet/internal/audit"
	"github.com/yanizio/seonet/internal/notify"
	"github.com/yanizio/seonet/internal/structure"
)

// CreateInput carries every field a new node accepts.  Status nil defaults
// by role: primary for main, canonical for supporting.  Wire names mirror
// the entry model; NetworkID and Actor come from the URL and the identity
// header, never from the body.
type CreateInput struct {
	NetworkID       uint64                `json:"-"                validate:"required"`
	AssetDomainID   uint64                `json:"asset_domain_id"  validate:"required"`
	OptimizedPath   string                `json:"optimized_path"`
	Role            structure.Role        `json:"domain_role"      validate:"required"`
	Status          *structure.Status     `json:"domain_status"`
	IndexStatus     structure.IndexStatus `json:"index_status"`
	TargetEntryID   *uint64               `json:"target_entry_id"`
	RankingURL      *string               `json:"ranking_url"`
	PrimaryKeyword  *string               `json:"primary_keyword"`
	RankingPosition *int                  `json:"ranking_position"`
	Notes           string                `json:"notes"`
	ChangeNote      string                `json:"change_note"      validate:"required"`
	Actor           string                `json:"-"                validate:"required,email"`
}

// CreateNode validates and persists a new entry, returning it with its
// derived tier attached.
func (p *Protocol) CreateNode(ctx context.Context, in CreateInput) (*structure.Entry, error) {
	if err := checkInput(in); err != nil {
		return nil, reject(err)
	}
	if err := p.checkNote(in.ChangeNote); err != nil {
		return nil, reject(err)
	}

	status := structure.DefaultStatus(in.Role)
	if in.Status != nil {
		status = *in.Status
	}
	if err := structure.ValidateRoleStatus(in.Role, status); err != nil {
		return nil, reject(err)
	}
	indexStatus := in.IndexStatus
	if indexStatus == "" {
		indexStatus = structure.IndexStatusNoindex
	}

	ok, err := p.domains.Exists(ctx, in.AssetDomainID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reject(&structure.ValidationError{
			Field:  "asset_domain_id",
			Reason: "domain is not registered",
		})
	}

	var created *structure.Entry
	err = p.withNetwork(ctx, in.NetworkID, func(ctx context.Context, entries []structure.Entry, g *structure.Graph) error {
		for i := range entries {
			if entries[i].AssetDomainID == in.AssetDomainID && entries[i].OptimizedPath == in.OptimizedPath {
				return reject(&structure.InvariantViolation{
					Rule:   "duplicate_address",
					Detail: "address already occupied by entry " + p.label(ctx, &entries[i]),
				})
			}
		}

		switch in.Role {
		case structure.RoleMain:
			if _, hasMain := g.MainNode(); hasMain {
				return reject(&structure.InvariantViolation{
					Rule:   "single_main",
					Detail: "network already has a main node; use switch-main",
				})
			}
			if in.TargetEntryID != nil {
				return reject(&structure.ValidationError{
					Field:  "target_entry_id",
					Reason: "main node may not have a target",
				})
			}
		case structure.RoleSupporting:
			if in.TargetEntryID != nil {
				if g.Entry(*in.TargetEntryID) == nil {
					return reject(&structure.ValidationError{
						Field:  "target_entry_id",
						Reason: "target is not an entry of this network",
					})
				}
			}
		}

		e := &structure.Entry{
			NetworkID:       in.NetworkID,
			AssetDomainID:   in.AssetDomainID,
			OptimizedPath:   in.OptimizedPath,
			DomainRole:      in.Role,
			DomainStatus:    status,
			IndexStatus:     indexStatus,
			TargetEntryID:   in.TargetEntryID,
			RankingURL:      in.RankingURL,
			PrimaryKeyword:  in.PrimaryKeyword,
			RankingPosition: in.RankingPosition,
			Notes:           in.Notes,
		}

		tx, err := p.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if err := structure.Insert(ctx, tx, e); err != nil {
			return err
		}

		proposed := append(append([]structure.Entry(nil), entries...), *e)
		rep, err := derive(in.NetworkID, proposed)
		if err != nil {
			return err
		}

		logRow := &audit.Entry{
			NetworkID:    in.NetworkID,
			EntryID:      &e.ID,
			ActorEmail:   in.Actor,
			ActionType:   audit.ActionCreateNode,
			AffectedNode: p.label(ctx, e),
			ChangeNote:   in.ChangeNote,
			After: snapshot(e, "asset_domain_id", "optimized_path", "domain_role",
				"domain_status", "index_status", "target_entry_id"),
		}
		if err := audit.Record(ctx, tx, logRow); err != nil {
			return err
		}

		ev := notify.Event{
			NetworkID:    in.NetworkID,
			ChangeLogID:  logRow.ID,
			AffectedNode: logRow.AffectedNode,
			ActorEmail:   in.Actor,
			ChangeNote:   in.ChangeNote,
		}
		if tier := tierFor(rep, e.ID); p.corr.HighTierIndexed(e, tier) {
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

		e.Tier = tierFor(rep, e.ID)
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.applied(in.NetworkID)
	return created, nil
}
