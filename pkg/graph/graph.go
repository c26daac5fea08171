// Package graph implements the inheritance graph: a registry of class
// declarations keyed by fully-qualified name, with transitive reachability
// over the direct-parent relation.
package graph

import (
	"sort"

	"github.com/zby/classpairs/pkg/models"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Graph stores declarations and answers ancestor queries. It is built once,
// then queried read-only; it is not safe for concurrent mutation.
//
// The parent relation may name classes that were never registered, and may
// contain cycles. Queries degrade to "not an ancestor" in both cases and
// never fail.
type Graph struct {
	names    []string
	parents  map[string][]string
	source   map[string]string
	unitOf   map[string]string
	unitText map[string]string
}

// New creates an empty inheritance graph.
func New() *Graph {
	return &Graph{
		parents:  make(map[string][]string),
		source:   make(map[string]string),
		unitOf:   make(map[string]string),
		unitText: make(map[string]string),
	}
}

// Register inserts or overwrites a declaration. Duplicate parent names are
// dropped, first spelling wins. Registering the same name twice replaces the
// earlier entry (last write wins); callers control ordering to keep that
// deterministic. The unit's full text is recorded under unitID, last write
// wins there too.
func (g *Graph) Register(name string, parents []string, source, unitID, unitText string) {
	if _, known := g.parents[name]; !known {
		g.names = append(g.names, name)
	}
	deduped := make([]string, 0, len(parents))
	seen := make(map[string]bool, len(parents))
	for _, p := range parents {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		deduped = append(deduped, p)
	}
	g.parents[name] = deduped
	g.source[name] = source
	g.unitOf[name] = unitID
	g.unitText[unitID] = unitText
}

// IsAncestor reports whether candidate is name itself, a direct parent of
// name, or reachable from name through the parent relation. The traversal is
// iterative with a visited set, so cycles terminate and deep hierarchies do
// not grow the call stack.
func (g *Graph) IsAncestor(candidate, name string) bool {
	if candidate == name {
		return true
	}
	visited := map[string]bool{name: true}
	stack := append([]string(nil), g.parents[name]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == candidate {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		stack = append(stack, g.parents[cur]...)
	}
	return false
}

// ancestorsOf returns every name reachable from name through the parent
// relation, including unregistered parent references. name itself is only
// included when a cycle leads back to it.
func (g *Graph) ancestorsOf(name string) map[string]bool {
	reach := make(map[string]bool)
	stack := append([]string(nil), g.parents[name]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reach[cur] {
			continue
		}
		reach[cur] = true
		stack = append(stack, g.parents[cur]...)
	}
	return reach
}

// AllPairs enumerates every (ancestor, descendant) pair of distinct
// registered names where the ancestor is reachable from the descendant.
// Reachability is computed once per name, then pairs are emitted in
// lexicographic (ancestor, descendant) order so the result does not depend
// on registration or filesystem traversal order. The identity pair (X, X)
// is never included and no pair appears twice.
func (g *Graph) AllPairs() []models.Pair {
	sorted := g.Names()
	reach := make(map[string]map[string]bool, len(sorted))
	for _, name := range sorted {
		reach[name] = g.ancestorsOf(name)
	}

	var pairs []models.Pair
	for _, anc := range sorted {
		for _, desc := range sorted {
			if anc == desc {
				continue
			}
			if reach[desc][anc] {
				pairs = append(pairs, models.Pair{Ancestor: anc, Descendant: desc})
			}
		}
	}
	return pairs
}

// Names returns the registered names in lexicographic order.
func (g *Graph) Names() []string {
	out := append([]string(nil), g.names...)
	sort.Strings(out)
	return out
}

// Parents returns the direct parents of name as registered.
func (g *Graph) Parents(name string) []string {
	return g.parents[name]
}

// Source returns the declaration source text for name.
func (g *Graph) Source(name string) string {
	return g.source[name]
}

// Unit returns the identifier of the unit that owns name.
func (g *Graph) Unit(name string) string {
	return g.unitOf[name]
}

// UnitText returns the cached full text of a source unit.
func (g *Graph) UnitText(unitID string) string {
	return g.unitText[unitID]
}

// DeclarationsIn returns the names owned by unitID, lexicographically sorted.
func (g *Graph) DeclarationsIn(unitID string) []string {
	var out []string
	for _, name := range g.names {
		if g.unitOf[name] == unitID {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered declarations.
func (g *Graph) Len() int {
	return len(g.names)
}

// Cycles returns the strongly connected components of the parent relation
// that form cycles, each as a sorted list of registered names. Self-parent
// declarations count as single-node cycles. Edges to unregistered parents
// are ignored.
func (g *Graph) Cycles() [][]string {
	if len(g.names) == 0 {
		return nil
	}

	dg := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(g.names))
	byID := make(map[int64]string, len(g.names))
	for i, name := range g.Names() {
		id := int64(i)
		ids[name] = id
		byID[id] = name
		dg.AddNode(simple.Node(id))
	}

	var selfLoops []string
	for name, parents := range g.parents {
		for _, p := range parents {
			pid, known := ids[p]
			if !known {
				continue
			}
			if p == name {
				selfLoops = append(selfLoops, name)
				continue
			}
			dg.SetEdge(simple.Edge{F: simple.Node(ids[name]), T: simple.Node(pid)})
		}
	}

	var cycles [][]string
	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) < 2 {
			continue
		}
		members := make([]string, 0, len(scc))
		for _, n := range scc {
			members = append(members, byID[n.ID()])
		}
		sort.Strings(members)
		cycles = append(cycles, members)
	}
	for _, name := range selfLoops {
		cycles = append(cycles, []string{name})
	}
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles
}
