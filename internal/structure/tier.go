// internal/structure/tier.go
//
// Tier derivation engine.
//
// Context
// -------
// Tier is the shortest distance, in target-hops, from a node to the main
// node: tier(main) = 0, tier(n) = tier(target(n)) + 1.  Derivation runs a
// breadth-first traversal from the main node across reverse edges, so a
// node's tier is settled the first time it is reached and deep chains can
// never inflate it.
//
// Nodes the traversal never reaches stay unresolved (nil tier) and are
// classified in the issues report: no target → orphan, target set but
// disconnected from main → cycle/unreachable chain.  A network without a
// main node yields a degraded report (Issues.NoMain), not an error —
// "no main yet" is a legitimate transient state.
package structure

import "sort"

// Issues is the structural-health section of a TierReport.
type Issues struct {
	Orphans []uint64 `json:"orphans"`
	Cycles  []uint64 `json:"cycles"`
	NoMain  bool     `json:"no_main"`
}

// TierReport is the verbatim output of the read path.
type TierReport struct {
	NetworkID    uint64          `json:"network_id"`
	TierOf       map[uint64]*int `json:"tier_of"`
	Distribution map[int]int     `json:"distribution"`
	Issues       Issues          `json:"issues"`
}

// Degraded reports whether the network has structural defects worth
// operator attention.
func (r *TierReport) Degraded() bool {
	return r.Issues.NoMain || len(r.Issues.Orphans) > 0 || len(r.Issues.Cycles) > 0
}

// DeriveTiers computes every node's tier from the graph.  Pure; idempotent
// for an unchanged entry set.
func DeriveTiers(g *Graph) *TierReport {
	rep := &TierReport{
		NetworkID:    g.NetworkID,
		TierOf:       make(map[uint64]*int, g.Len()),
		Distribution: make(map[int]int),
	}

	main, ok := g.MainNode()
	if !ok {
		rep.Issues.NoMain = true
		classifyUnvisited(g, nil, rep)
		return rep
	}

	// BFS outward from main over reverse edges.  visited doubles as the
	// tier assignment; a node is enqueued exactly once.
	visited := make(map[uint64]int, g.Len())
	queue := []uint64{main.ID}
	visited[main.ID] = 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		tier := visited[cur]

		t := tier
		rep.TierOf[cur] = &t
		rep.Distribution[tier]++

		for _, child := range g.ChildrenOf(cur) {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = tier + 1
			queue = append(queue, child)
		}
	}

	classifyUnvisited(g, visited, rep)
	return rep
}

// classifyUnvisited fills nil tiers and the issue lists for every entry the
// traversal never reached.  Lists are sorted for stable output.
func classifyUnvisited(g *Graph, visited map[uint64]int, rep *TierReport) {
	for id, e := range g.entries {
		if _, ok := visited[id]; ok {
			continue
		}
		rep.TierOf[id] = nil
		if e.TargetEntryID == nil {
			if !e.IsMain() {
				rep.Issues.Orphans = append(rep.Issues.Orphans, id)
			}
		} else {
			rep.Issues.Cycles = append(rep.Issues.Cycles, id)
		}
	}
	sort.Slice(rep.Issues.Orphans, func(i, j int) bool { return rep.Issues.Orphans[i] < rep.Issues.Orphans[j] })
	sort.Slice(rep.Issues.Cycles, func(i, j int) bool { return rep.Issues.Cycles[i] < rep.Issues.Cycles[j] })
}
