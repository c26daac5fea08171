// Package report turns ancestor/descendant pairs into per-unit-pair report
// plans and renders them to text artifacts.
package report

import (
	"sort"

	"github.com/zby/classpairs/pkg/graph"
	"github.com/zby/classpairs/pkg/models"
)

// GroupPairs partitions pairs by the (ancestor unit, descendant unit) that
// own the two classes. Group order follows the first appearance of each
// unit pair in the input sequence; pair order within a group is preserved.
// Every input pair lands in exactly one group.
func GroupPairs(pairs []models.Pair, g *graph.Graph) []models.Group {
	type unitKey struct{ ancestor, descendant string }

	var groups []models.Group
	index := make(map[unitKey]int)
	for _, p := range pairs {
		key := unitKey{g.Unit(p.Ancestor), g.Unit(p.Descendant)}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.Group{
				AncestorUnit:   key.ancestor,
				DescendantUnit: key.descendant,
			})
		}
		groups[i].Pairs = append(groups[i].Pairs, p)
	}
	return groups
}

// PlanGroup computes the role-labeled declaration sets for one group.
// All sets are sorted lexicographically for reproducible report ordering.
func PlanGroup(group models.Group, g *graph.Graph) models.ReportPlan {
	participants := make(map[string]bool)
	ancestorSet := make(map[string]bool)
	descendantSet := make(map[string]bool)
	for _, p := range group.Pairs {
		participants[p.Ancestor] = true
		participants[p.Descendant] = true
		ancestorSet[p.Ancestor] = true
		descendantSet[p.Descendant] = true
	}

	plan := models.ReportPlan{
		AncestorUnit:    group.AncestorUnit,
		DescendantUnit:  group.DescendantUnit,
		Pairs:           group.Pairs,
		AncestorRoles:   sortedKeys(ancestorSet),
		DescendantRoles: sortedKeys(descendantSet),
		AncestorText:    g.UnitText(group.AncestorUnit),
	}

	plan.AncestorOthers = othersIn(g, group.AncestorUnit, participants)
	if !group.SameUnit() {
		plan.DescendantOthers = othersIn(g, group.DescendantUnit, participants)
		plan.DescendantText = g.UnitText(group.DescendantUnit)
	}
	return plan
}

// othersIn lists the declarations of a unit that take no part in the group.
func othersIn(g *graph.Graph, unitID string, participants map[string]bool) []string {
	var out []string
	for _, name := range g.DeclarationsIn(unitID) {
		if !participants[name] {
			out = append(out, name)
		}
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
