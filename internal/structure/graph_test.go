// internal/structure/graph_test.go
//
// Unit-tests for the graph model: adjacency, main detection, orphans, and
// cycle checks.  All in-memory; no database involved.

package structure

import (
	"errors"
	"testing"
)

func ref(id uint64) *uint64 { return &id }

func mainEntry(id, network uint64) Entry {
	return Entry{
		ID: id, NetworkID: network, AssetDomainID: id,
		DomainRole: RoleMain, DomainStatus: StatusPrimary,
		IndexStatus: IndexStatusIndex,
	}
}

func supportingEntry(id, network uint64, target *uint64) Entry {
	return Entry{
		ID: id, NetworkID: network, AssetDomainID: id,
		DomainRole: RoleSupporting, DomainStatus: StatusCanonical,
		IndexStatus: IndexStatusNoindex, TargetEntryID: target,
	}
}

func TestBuildGraph_SingleMain(t *testing.T) {
	g, err := BuildGraph(7, []Entry{
		mainEntry(1, 7),
		supportingEntry(2, 7, ref(1)),
		supportingEntry(3, 7, ref(2)),
	})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}

	main, ok := g.MainNode()
	if !ok || main.ID != 1 {
		t.Fatalf("MainNode = %v, %v; want entry 1", main, ok)
	}
	if kids := g.ChildrenOf(1); len(kids) != 1 || kids[0] != 2 {
		t.Fatalf("ChildrenOf(1) = %v, want [2]", kids)
	}
	if tgt, ok := g.Target(3); !ok || tgt != 2 {
		t.Fatalf("Target(3) = %d, %v; want 2", tgt, ok)
	}
	if g.HasCycle() {
		t.Fatal("HasCycle = true on a chain")
	}
}

func TestBuildGraph_TwoMainsIsMalformed(t *testing.T) {
	_, err := BuildGraph(7, []Entry{mainEntry(1, 7), mainEntry(2, 7)})

	var mg *MalformedGraph
	if !errors.As(err, &mg) {
		t.Fatalf("err = %v, want *MalformedGraph", err)
	}
	if mg.NetworkID != 7 || len(mg.Mains) != 2 {
		t.Fatalf("MalformedGraph = %+v", mg)
	}
}

func TestGraph_Orphans(t *testing.T) {
	g, err := BuildGraph(7, []Entry{
		mainEntry(1, 7),
		supportingEntry(2, 7, ref(1)),
		supportingEntry(3, 7, nil),
	})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}

	orphans := g.Orphans()
	if len(orphans) != 1 || orphans[0].ID != 3 {
		t.Fatalf("Orphans = %v, want [entry 3]", orphans)
	}
}

func TestGraph_HasCycle(t *testing.T) {
	t.Run("two node mutual reference", func(t *testing.T) {
		g, err := BuildGraph(7, []Entry{
			mainEntry(1, 7),
			supportingEntry(2, 7, ref(3)),
			supportingEntry(3, 7, ref(2)),
		})
		if err != nil {
			t.Fatalf("BuildGraph: %v", err)
		}
		if !g.HasCycle() {
			t.Fatal("HasCycle = false, want true for 2↔3")
		}
	})

	t.Run("chain into main is acyclic", func(t *testing.T) {
		g, err := BuildGraph(7, []Entry{
			mainEntry(1, 7),
			supportingEntry(2, 7, ref(1)),
			supportingEntry(3, 7, ref(2)),
			supportingEntry(4, 7, ref(2)),
		})
		if err != nil {
			t.Fatalf("BuildGraph: %v", err)
		}
		if g.HasCycle() {
			t.Fatal("HasCycle = true on a tree")
		}
	})
}

func TestGraph_WouldCycle(t *testing.T) {
	g, err := BuildGraph(7, []Entry{
		mainEntry(1, 7),
		supportingEntry(2, 7, ref(1)),
		supportingEntry(3, 7, ref(2)),
		supportingEntry(4, 7, nil),
	})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}

	cases := []struct {
		name      string
		from, to  uint64
		wantCycle bool
	}{
		{"self loop", 2, 2, true},
		{"repoint at own descendant", 2, 3, true},
		{"orphan joins chain", 4, 3, false},
		{"repoint deeper node at main", 3, 1, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := g.WouldCycle(c.from, c.to); got != c.wantCycle {
				t.Fatalf("WouldCycle(%d, %d) = %v, want %v", c.from, c.to, got, c.wantCycle)
			}
		})
	}
}

func TestValidateRoleStatus(t *testing.T) {
	if err := ValidateRoleStatus(RoleMain, StatusPrimary); err != nil {
		t.Fatalf("main/primary rejected: %v", err)
	}
	if err := ValidateRoleStatus(RoleSupporting, Status301Redirect); err != nil {
		t.Fatalf("supporting/301 rejected: %v", err)
	}

	var ve *ValidationError
	if err := ValidateRoleStatus(RoleMain, StatusCanonical); !errors.As(err, &ve) {
		t.Fatalf("main/canonical: err = %v, want *ValidationError", err)
	}
	if err := ValidateRoleStatus(RoleSupporting, StatusPrimary); !errors.As(err, &ve) {
		t.Fatalf("supporting/primary: err = %v, want *ValidationError", err)
	}
}
