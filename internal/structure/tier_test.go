// internal/structure/tier_test.go
//
// Unit-tests for the tier derivation engine.
//
// Scenarios mirror the behaviour contract of the read path: BFS tiers from
// the main node, shortest distance wins, unreachable entries stay nil and
// are classified as orphans or disconnected cycles, a main-less network
// yields a degraded report instead of an error, and derivation is
// idempotent for an unchanged entry set.

package structure

import (
	"reflect"
	"testing"
)

func buildGraph(t *testing.T, network uint64, entries []Entry) *Graph {
	t.Helper()
	g, err := BuildGraph(network, entries)
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	return g
}

func tierOf(t *testing.T, rep *TierReport, id uint64) int {
	t.Helper()
	p, ok := rep.TierOf[id]
	if !ok {
		t.Fatalf("entry %d missing from TierOf", id)
	}
	if p == nil {
		t.Fatalf("entry %d unresolved, want a tier", id)
	}
	return *p
}

func TestDeriveTiers_Chain(t *testing.T) {
	g := buildGraph(t, 7, []Entry{
		mainEntry(1, 7),
		supportingEntry(2, 7, ref(1)),
		supportingEntry(3, 7, ref(2)),
		supportingEntry(4, 7, ref(2)),
	})
	rep := DeriveTiers(g)

	if got := tierOf(t, rep, 1); got != 0 {
		t.Fatalf("tier(main) = %d, want 0", got)
	}
	if got := tierOf(t, rep, 2); got != 1 {
		t.Fatalf("tier(2) = %d, want 1", got)
	}
	for _, id := range []uint64{3, 4} {
		if got := tierOf(t, rep, id); got != 2 {
			t.Fatalf("tier(%d) = %d, want 2", id, got)
		}
	}

	wantDist := map[int]int{0: 1, 1: 1, 2: 2}
	if !reflect.DeepEqual(rep.Distribution, wantDist) {
		t.Fatalf("Distribution = %v, want %v", rep.Distribution, wantDist)
	}
	if rep.Degraded() {
		t.Fatalf("Degraded = true on a clean network: %+v", rep.Issues)
	}
}

func TestDeriveTiers_MainPlusOne(t *testing.T) {
	// {A: main} then a supporting B → A gives {A:0, B:1}, distribution
	// {0:1, 1:1}, no orphans.
	g := buildGraph(t, 7, []Entry{
		mainEntry(1, 7),
		supportingEntry(2, 7, ref(1)),
	})
	rep := DeriveTiers(g)

	if tierOf(t, rep, 1) != 0 || tierOf(t, rep, 2) != 1 {
		t.Fatalf("TierOf = %v, want {1:0, 2:1}", rep.TierOf)
	}
	if !reflect.DeepEqual(rep.Distribution, map[int]int{0: 1, 1: 1}) {
		t.Fatalf("Distribution = %v", rep.Distribution)
	}
	if len(rep.Issues.Orphans) != 0 {
		t.Fatalf("Orphans = %v, want none", rep.Issues.Orphans)
	}
}

func TestDeriveTiers_OrphanReported(t *testing.T) {
	g := buildGraph(t, 7, []Entry{
		mainEntry(1, 7),
		supportingEntry(2, 7, ref(1)),
		supportingEntry(3, 7, nil), // no target
	})
	rep := DeriveTiers(g)

	if tierOf(t, rep, 1) != 0 || tierOf(t, rep, 2) != 1 {
		t.Fatal("tiers for reachable entries changed by the orphan")
	}
	if p := rep.TierOf[3]; p != nil {
		t.Fatalf("tier(orphan) = %d, want unresolved", *p)
	}
	if !reflect.DeepEqual(rep.Issues.Orphans, []uint64{3}) {
		t.Fatalf("Orphans = %v, want [3]", rep.Issues.Orphans)
	}
	if len(rep.Issues.Cycles) != 0 {
		t.Fatalf("Cycles = %v, want none", rep.Issues.Cycles)
	}
}

func TestDeriveTiers_DisconnectedCycle(t *testing.T) {
	g := buildGraph(t, 7, []Entry{
		mainEntry(1, 7),
		supportingEntry(2, 7, ref(3)),
		supportingEntry(3, 7, ref(2)),
	})
	rep := DeriveTiers(g)

	if tierOf(t, rep, 1) != 0 {
		t.Fatal("main tier disturbed by disconnected cycle")
	}
	if rep.TierOf[2] != nil || rep.TierOf[3] != nil {
		t.Fatal("cycle members must stay unresolved, never default to 0")
	}
	if !reflect.DeepEqual(rep.Issues.Cycles, []uint64{2, 3}) {
		t.Fatalf("Cycles = %v, want [2 3]", rep.Issues.Cycles)
	}
}

func TestDeriveTiers_NoMain(t *testing.T) {
	g := buildGraph(t, 7, []Entry{
		supportingEntry(2, 7, nil),
		supportingEntry(3, 7, ref(2)),
	})
	rep := DeriveTiers(g)

	if !rep.Issues.NoMain {
		t.Fatal("Issues.NoMain = false, want true")
	}
	for id, p := range rep.TierOf {
		if p != nil {
			t.Fatalf("tier(%d) = %d on a main-less network", id, *p)
		}
	}
	if len(rep.Distribution) != 0 {
		t.Fatalf("Distribution = %v, want empty", rep.Distribution)
	}
}

func TestDeriveTiers_Branching(t *testing.T) {
	// Two branches of different depth hang off main; each node settles at
	// tier(target) + 1 regardless of how deep its sibling branch runs.
	g := buildGraph(t, 7, []Entry{
		mainEntry(1, 7),
		supportingEntry(2, 7, ref(1)),
		supportingEntry(3, 7, ref(2)),
		supportingEntry(4, 7, ref(1)),
		supportingEntry(5, 7, ref(4)),
	})
	rep := DeriveTiers(g)

	if got := tierOf(t, rep, 4); got != 1 {
		t.Fatalf("tier(4) = %d, want 1", got)
	}
	if got := tierOf(t, rep, 5); got != 2 {
		t.Fatalf("tier(5) = %d, want 2", got)
	}
}

func TestDeriveTiers_Idempotent(t *testing.T) {
	entries := []Entry{
		mainEntry(1, 7),
		supportingEntry(2, 7, ref(1)),
		supportingEntry(3, 7, ref(2)),
		supportingEntry(4, 7, nil),
	}
	a := DeriveTiers(buildGraph(t, 7, entries))
	b := DeriveTiers(buildGraph(t, 7, entries))

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("derivation not idempotent:\n a = %+v\n b = %+v", a, b)
	}
}
