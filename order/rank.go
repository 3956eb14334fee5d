package order

import "sort"

// AncestorSource enumerates the strict ancestors of a class, most general
// first. The hierarchy package provides the reflect-backed walk;
// RuntimeLineTable adapts it for registered classes. A nil result means the
// class has no known ancestors.
type AncestorSource interface {
	Ancestors(c Class) []Class
}

// classGroup collects the input members that share a declaring class,
// together with the facts the rank is computed from.
type classGroup struct {
	class   Class
	depth   int   // number of strict ancestors
	first   int   // input index of the first member seen for this class
	members []int // input indexes, in input order
}

// rankClasses groups members by declaring class and orders the groups so
// that ancestors come before descendants. A strict ancestor always has
// strictly fewer ancestors of its own than any of its descendants, so
// ancestor count is the primary key; unrelated classes keep first-appearance
// order, which is consistent but otherwise unspecified.
func rankClasses(members []Member, src AncestorSource) []*classGroup {
	byClass := make(map[Class]*classGroup)
	var groups []*classGroup

	for i, m := range members {
		g, ok := byClass[m.Declaring]
		if !ok {
			g = &classGroup{class: m.Declaring, first: i}
			if src != nil {
				g.depth = len(src.Ancestors(m.Declaring))
			}
			byClass[m.Declaring] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, i)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].depth != groups[j].depth {
			return groups[i].depth < groups[j].depth
		}
		return groups[i].first < groups[j].first
	})
	return groups
}
