// internal/structure/reportcache_test.go
//
// Unit-tests for the tier report cache: one build per miss, identical
// report until invalidated, and no caching of malformed graphs.

package structure

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// expectEntrySet queues one full-network read returning the given rows.
func expectEntrySet(mock sqlmock.Sqlmock, entries ...Entry) {
	cols := []string{
		"id", "network_id", "asset_domain_id", "optimized_path",
		"domain_role", "domain_status", "index_status", "target_entry_id",
		"ranking_url", "primary_keyword", "ranking_position", "notes",
		"created_at", "updated_at",
	}
	rows := sqlmock.NewRows(cols)
	now := time.Now()
	for _, e := range entries {
		var target any
		if e.TargetEntryID != nil {
			target = *e.TargetEntryID
		}
		rows.AddRow(e.ID, e.NetworkID, e.AssetDomainID, e.OptimizedPath,
			string(e.DomainRole), string(e.DomainStatus), string(e.IndexStatus),
			target, nil, nil, nil, e.Notes, now, now)
	}
	mock.ExpectQuery("SELECT (.+) FROM structure_entry WHERE network_id").
		WithArgs(uint64(7)).
		WillReturnRows(rows)
}

func TestReportCache_IdenticalUntilInvalidated(t *testing.T) {
	db, mock := newMockDB(t)
	cache := NewReportCache(db)

	// One query serves both reads.
	expectEntrySet(mock, mainEntry(1, 7), supportingEntry(2, 7, ref(1)))

	first, err := cache.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := cache.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get (cached): %v", err)
	}
	if first != second {
		t.Fatal("cached read rebuilt the report; want the identical one")
	}
	if tier := first.TierOf[2]; tier == nil || *tier != 1 {
		t.Fatalf("tier of 2 = %v, want 1", tier)
	}

	// After invalidation the next read rebuilds from the new rows.
	cache.Invalidate(7)
	expectEntrySet(mock, mainEntry(1, 7),
		supportingEntry(2, 7, ref(1)), supportingEntry(3, 7, ref(2)))

	third, err := cache.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get (rebuilt): %v", err)
	}
	if third == first {
		t.Fatal("invalidated report was served again")
	}
	if tier := third.TierOf[3]; tier == nil || *tier != 2 {
		t.Fatalf("tier of 3 = %v, want 2", tier)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestReportCache_ConcurrentMissesBuildOnce(t *testing.T) {
	db, mock := newMockDB(t)
	cache := NewReportCache(db)

	// Exactly one query is queued; a second build would fail the mock.
	expectEntrySet(mock, mainEntry(1, 7), supportingEntry(2, 7, ref(1)))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Get(context.Background(), 7); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	wg.Wait()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("more than one build ran: %v", err)
	}
}

func TestReportCache_MalformedGraphIsNotCached(t *testing.T) {
	db, mock := newMockDB(t)
	cache := NewReportCache(db)

	// Two mains fail the build; the failure must not stick.
	expectEntrySet(mock, mainEntry(1, 7), mainEntry(2, 7))

	if _, err := cache.Get(context.Background(), 7); err == nil {
		t.Fatal("Get on a two-main network succeeded")
	}

	// Repaired rows are picked up on the very next read.
	expectEntrySet(mock, mainEntry(1, 7), supportingEntry(2, 7, ref(1)))
	rep, err := cache.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get after repair: %v", err)
	}
	if rep.Degraded() {
		t.Fatalf("repaired report degraded: %+v", rep.Issues)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
