// internal/mutation/protocol.go
//
// Mutation protocol service: shared plumbing.
//
// Context
// -------
// The four operations (create, update, delete, switch-main) all follow the
// same shape: acquire the per-network lock with a bounded wait, read the
// network's full entry set, validate against the in-memory graph, write in
// one transaction together with the change-log row and any notifications,
// recompute tiers, and invalidate the report cache.  Rejections happen
// before the transaction opens, so a refused mutation writes nothing.
//
// Operation bodies live in create.go, update.go, delete.go, and
// switchmain.go; this file holds the service type, the input validation
// helpers, and the lock/load/commit plumbing they share.
//
// Notes
// -----
// • Once the lock is held an operation runs to completion; mid-write
//   cancellation is not supported.
// • Oxford commas, two spaces after periods.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/seonet/internal/audit"
	"github.com/yanizio/seonet/internal/metrics"
	"github.com/yanizio/seonet/internal/netlock"
	"github.com/yanizio/seonet/internal/network"
	"github.com/yanizio/seonet/internal/notify"
	"github.com/yanizio/seonet/internal/structure"
)

// DomainRegistry is the external asset-domain collaborator.  The protocol
// only needs to confirm a domain exists and to render node labels.
type DomainRegistry interface {
	Exists(ctx context.Context, assetDomainID uint64) (bool, error)
	DomainName(ctx context.Context, assetDomainID uint64) (string, error)
}

// Policy carries the configurable knobs the protocol enforces.
type Policy struct {
	// ChangeNoteMin is the minimum change-note length, enforced
	// server-side on every mutation.
	ChangeNoteMin int
	// LockWait bounds how long a mutation queues on the per-network lock.
	LockWait time.Duration
}

// Protocol executes validated, invariant-preserving mutations against one
// network at a time.
type Protocol struct {
	db      *sqlx.DB
	locks   *netlock.Registry
	reports *structure.ReportCache
	domains DomainRegistry
	corr    *notify.Correlator
	pol     Policy
}

// New wires a Protocol.
func New(db *sqlx.DB, locks *netlock.Registry, reports *structure.ReportCache,
	domains DomainRegistry, corr *notify.Correlator, pol Policy) *Protocol {
	return &Protocol{
		db:      db,
		locks:   locks,
		reports: reports,
		domains: domains,
		corr:    corr,
		pol:     pol,
	}
}

//
// input validation
//

var v = validator.New()

// checkInput runs struct-tag validation and maps the first failure onto
// the fault taxonomy.
func checkInput(in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &structure.ValidationError{
			Field:  strings.ToLower(fe.Field()),
			Reason: "failed " + fe.Tag() + " check",
		}
	}
	return err
}

// checkNote enforces the server-side change-note minimum.
func (p *Protocol) checkNote(note string) error {
	if len(strings.TrimSpace(note)) < p.pol.ChangeNoteMin {
		return &structure.ValidationError{
			Field:  "change_note",
			Reason: fmt.Sprintf("must be at least %d characters", p.pol.ChangeNoteMin),
		}
	}
	return nil
}

//
// lock / load / commit plumbing
//

// withNetwork acquires the network lock, loads the full entry set, builds
// the graph, and hands everything to fn.  The entries slice is the graph's
// backing store; fn must not mutate it.
func (p *Protocol) withNetwork(ctx context.Context, networkID uint64,
	fn func(ctx context.Context, entries []structure.Entry, g *structure.Graph) error) error {

	release, err := p.locks.Acquire(ctx, networkID, p.pol.LockWait)
	if err != nil {
		metrics.LockBusyTotal.Inc()
		return err
	}
	defer release()

	if _, err := network.ByID(ctx, p.db, networkID); err != nil {
		return err
	}

	entries, err := structure.ByNetwork(ctx, p.db, networkID)
	if err != nil {
		return err
	}
	g, err := structure.BuildGraph(networkID, entries)
	if err != nil {
		zap.S().Errorw("graph integrity fault", "network", networkID, "err", err)
		return err
	}
	return fn(ctx, entries, g)
}

// derive recomputes tiers for a proposed entry set.  The set was validated
// moments earlier under the same lock, so a build failure here means a
// writer bypassed the lock; it is logged and surfaced as-is.
func derive(networkID uint64, entries []structure.Entry) (*structure.TierReport, error) {
	g, err := structure.BuildGraph(networkID, entries)
	if err != nil {
		zap.S().Errorw("post-write graph integrity fault", "network", networkID, "err", err)
		return nil, err
	}
	metrics.TierRecomputeTotal.Inc()
	return structure.DeriveTiers(g), nil
}

// applied finishes a committed mutation: counts it and drops the cached
// report so the next read rebuilds from the new rows.
func (p *Protocol) applied(networkID uint64) {
	metrics.MutationApplyTotal.Inc()
	p.reports.Invalidate(networkID)
}

// reject wraps a pre-write refusal with its metric.
func reject(err error) error {
	metrics.MutationRejectTotal.Inc()
	return err
}

//
// labels and snapshots
//

// label renders a node's user-facing address: domain name plus path.
func (p *Protocol) label(ctx context.Context, e *structure.Entry) string {
	name, err := p.domains.DomainName(ctx, e.AssetDomainID)
	if err != nil {
		// Label rendering must never fail a mutation; fall back to the id.
		name = fmt.Sprintf("domain#%d", e.AssetDomainID)
	}
	return name + e.OptimizedPath
}

// snapshot projects the named entry fields into an audit snapshot.
func snapshot(e *structure.Entry, fields ...string) audit.Snapshot {
	s := make(audit.Snapshot, len(fields))
	for _, f := range fields {
		switch f {
		case "asset_domain_id":
			s[f] = e.AssetDomainID
		case "optimized_path":
			s[f] = e.OptimizedPath
		case "domain_role":
			s[f] = string(e.DomainRole)
		case "domain_status":
			s[f] = string(e.DomainStatus)
		case "index_status":
			s[f] = string(e.IndexStatus)
		case "target_entry_id":
			if e.TargetEntryID != nil {
				s[f] = *e.TargetEntryID
			} else {
				s[f] = nil
			}
		case "ranking_url":
			if e.RankingURL != nil {
				s[f] = *e.RankingURL
			} else {
				s[f] = nil
			}
		case "primary_keyword":
			if e.PrimaryKeyword != nil {
				s[f] = *e.PrimaryKeyword
			} else {
				s[f] = nil
			}
		case "ranking_position":
			if e.RankingPosition != nil {
				s[f] = *e.RankingPosition
			} else {
				s[f] = nil
			}
		case "notes":
			s[f] = e.Notes
		}
	}
	return s
}

// tierFor pulls one entry's derived tier out of a report, tolerating a nil
// report from the post-commit integrity path.
func tierFor(rep *structure.TierReport, id uint64) *int {
	if rep == nil {
		return nil
	}
	return rep.TierOf[id]
}
