// internal/structure/graph.go
//
// In-memory graph model of one network's entries.
//
// Context
// -------
// The graph is a pure function of the entry set: forward edges follow
// target_entry_id (supporting → target), reverse edges are derived so the
// tier engine can walk outward from the main node.  Out-degree is at most
// one, which keeps cycle detection a simple forward walk.
//
// BuildGraph fails with *MalformedGraph when more than one main node is
// present.  Everything else (orphans, cycles, missing main) is representable
// and reported, not fatal.
//
// Notes
// -----
// • No mutation, no I/O.  Callers rebuild after every committed write.
// • Oxford commas, two spaces after periods.
package structure

// Graph is the adjacency view over one network's entries.
type Graph struct {
	NetworkID uint64

	entries map[uint64]*Entry
	out     map[uint64]uint64   // entry id → target id (absent when target is NULL)
	in      map[uint64][]uint64 // entry id → ids pointing at it
	mainID  uint64
	hasMain bool
}

// BuildGraph indexes entries into a Graph.  The slice is not retained;
// entry pointers are, so callers must not mutate them afterwards.
func BuildGraph(networkID uint64, entries []Entry) (*Graph, error) {
	g := &Graph{
		NetworkID: networkID,
		entries:   make(map[uint64]*Entry, len(entries)),
		out:       make(map[uint64]uint64, len(entries)),
		in:        make(map[uint64][]uint64, len(entries)),
	}

	var mains []uint64
	for i := range entries {
		e := &entries[i]
		g.entries[e.ID] = e
		if e.IsMain() {
			mains = append(mains, e.ID)
			continue
		}
		if e.TargetEntryID != nil {
			g.out[e.ID] = *e.TargetEntryID
			g.in[*e.TargetEntryID] = append(g.in[*e.TargetEntryID], e.ID)
		}
	}

	if len(mains) > 1 {
		return nil, &MalformedGraph{NetworkID: networkID, Mains: mains}
	}
	if len(mains) == 1 {
		g.mainID = mains[0]
		g.hasMain = true
	}
	return g, nil
}

// Len reports the number of entries in the graph.
func (g *Graph) Len() int { return len(g.entries) }

// Entry returns the entry for id, or nil.
func (g *Graph) Entry(id uint64) *Entry { return g.entries[id] }

// MainNode returns the unique main entry, or (nil, false) on an empty or
// main-less network.
func (g *Graph) MainNode() (*Entry, bool) {
	if !g.hasMain {
		return nil, false
	}
	return g.entries[g.mainID], true
}

// Orphans returns every supporting entry with no target, ordered by id walk
// of the entry map (callers sort when presenting).
func (g *Graph) Orphans() []*Entry {
	var out []*Entry
	for _, e := range g.entries {
		if !e.IsMain() && e.TargetEntryID == nil {
			out = append(out, e)
		}
	}
	return out
}

// ChildrenOf returns the ids of entries whose target is id.
func (g *Graph) ChildrenOf(id uint64) []uint64 { return g.in[id] }

// Target returns the forward edge of id, if any.
func (g *Graph) Target(id uint64) (uint64, bool) {
	t, ok := g.out[id]
	return t, ok
}

// HasCycle reports whether any forward walk revisits a node before
// terminating at the main node or at a NULL target.
func (g *Graph) HasCycle() bool {
	return len(g.cycleMembers()) > 0
}

// cycleMembers returns the ids of every entry sitting on, or feeding into
// detection of, a forward-edge cycle.  Walk state: 0 unvisited, 1 on the
// current walk, 2 settled.
func (g *Graph) cycleMembers() map[uint64]struct{} {
	state := make(map[uint64]int, len(g.entries))
	cyclic := make(map[uint64]struct{})

	for id := range g.entries {
		if state[id] != 0 {
			continue
		}
		// Walk forward, recording the path.
		var path []uint64
		cur, ok := id, true
		for ok && state[cur] == 0 {
			state[cur] = 1
			path = append(path, cur)
			cur, ok = g.out[cur]
		}
		if ok && state[cur] == 1 {
			// Closed a loop on this walk: everything from cur onward cycles.
			inLoop := false
			for _, p := range path {
				if p == cur {
					inLoop = true
				}
				if inLoop {
					cyclic[p] = struct{}{}
				}
			}
		}
		for _, p := range path {
			state[p] = 2
		}
	}
	return cyclic
}

// WouldCycle reports whether repointing fromID at newTarget closes a loop.
// The check walks forward from newTarget with the proposed edge applied; it
// is used by the mutation protocol before any write.
func (g *Graph) WouldCycle(fromID, newTarget uint64) bool {
	if fromID == newTarget {
		return true
	}
	// Reaching fromID from newTarget means the proposed edge closes a loop;
	// fromID's old outgoing edge is irrelevant because it is being replaced.
	seen := map[uint64]struct{}{fromID: {}}
	cur, ok := newTarget, true
	for ok {
		if _, dup := seen[cur]; dup {
			return cur == fromID
		}
		seen[cur] = struct{}{}
		cur, ok = g.out[cur]
	}
	return false
}
