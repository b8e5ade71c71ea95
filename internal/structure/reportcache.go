// internal/structure/reportcache.go
//
// Cached read path for tier reports.
//
// Context
// -------
// Tier reports only change when a mutation commits, so read traffic is
// served from a per-network cache.  Concurrent misses for the same network
// collapse into one build via singleflight, and the mutation protocol calls
// Invalidate after every commit.  Reads therefore never wait on the
// per-network mutation lock; they see either the pre- or post-mutation
// report, never a torn one, because builds only read committed rows.
package structure

import (
	"context"
	"strconv"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ReportCache serves DeriveTiers output per network.
type ReportCache struct {
	db  *sqlx.DB
	sfg singleflight.Group

	mu      sync.RWMutex
	reports map[uint64]*TierReport
}

// NewReportCache returns an empty cache over db.
func NewReportCache(db *sqlx.DB) *ReportCache {
	return &ReportCache{db: db, reports: make(map[uint64]*TierReport)}
}

// Get returns the cached report for networkID, building it on demand.
// A *MalformedGraph build failure is logged at ERROR and returned; it is
// never cached, so a repaired network recovers on the next read.
func (c *ReportCache) Get(ctx context.Context, networkID uint64) (*TierReport, error) {
	c.mu.RLock()
	rep, ok := c.reports[networkID]
	c.mu.RUnlock()
	if ok {
		return rep, nil
	}

	v, err, _ := c.sfg.Do(strconv.FormatUint(networkID, 10), func() (interface{}, error) {
		// Double-check after the singleflight barrier.
		c.mu.RLock()
		rep, ok := c.reports[networkID]
		c.mu.RUnlock()
		if ok {
			return rep, nil
		}

		rep, err := c.build(ctx, networkID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.reports[networkID] = rep
		c.mu.Unlock()
		return rep, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TierReport), nil
}

// Invalidate drops the cached report after a committed mutation.
func (c *ReportCache) Invalidate(networkID uint64) {
	c.mu.Lock()
	delete(c.reports, networkID)
	c.mu.Unlock()
}

func (c *ReportCache) build(ctx context.Context, networkID uint64) (*TierReport, error) {
	entries, err := ByNetwork(ctx, c.db, networkID)
	if err != nil {
		return nil, err
	}
	g, err := BuildGraph(networkID, entries)
	if err != nil {
		zap.S().Errorw("tier report build failed", "network", networkID, "err", err)
		return nil, err
	}
	return DeriveTiers(g), nil
}
