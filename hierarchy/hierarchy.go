// Package hierarchy walks struct-embedding chains.
//
// Embedding is Go's ancestry mechanism: a struct that embeds another type
// promotes that type's methods and fields. This package enumerates the
// embedded ancestors of a type so callers can order types from most general
// to most derived, the way method-order recovery and tag lookup need them.
package hierarchy

import (
	"reflect"
	"sort"
)

// Ancestors returns the strict embedded ancestors of t, most general first.
//
// The walk is breadth-first over anonymous fields, dereferences pointer
// embeds, and removes duplicates, so diamond-shaped embedding reports each
// ancestor once. "Most general first" means that whenever one returned type
// is itself embedded (directly or transitively) by another, it appears
// earlier. Types that embed each other through pointers have no such order
// and keep discovery order.
//
// Non-struct types and unnamed types have no ancestors and return nil.
func Ancestors(t reflect.Type) []reflect.Type {
	base := deref(t)
	if base == nil {
		return nil
	}

	anc := closure(base)
	if len(anc) < 2 {
		return anc
	}

	// A strict ancestor always has a strictly smaller closure than its
	// descendant, so sorting by closure size puts ancestors first.
	sizes := make(map[reflect.Type]int, len(anc))
	for _, a := range anc {
		sizes[a] = len(closure(a))
	}
	sort.SliceStable(anc, func(i, j int) bool {
		return sizes[anc[i]] < sizes[anc[j]]
	})
	return anc
}

// Chain returns Ancestors(t) followed by t itself, so the slice reads from
// the most general ancestor down to the type in hand.
func Chain(t reflect.Type) []reflect.Type {
	base := deref(t)
	if base == nil {
		return nil
	}
	return append(Ancestors(base), base)
}

// Embeds reports whether t embeds ancestor, directly or transitively.
func Embeds(t, ancestor reflect.Type) bool {
	base := deref(t)
	target := deref(ancestor)
	if base == nil || target == nil {
		return false
	}
	for _, a := range closure(base) {
		if a == target {
			return true
		}
	}
	return false
}

// closure collects every embedded type reachable from base, in breadth-first
// discovery order. The seen set keeps pointer-embedding cycles finite.
func closure(base reflect.Type) []reflect.Type {
	var out []reflect.Type
	seen := map[reflect.Type]bool{base: true}
	queue := []reflect.Type{base}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Kind() != reflect.Struct {
			continue
		}
		for i := 0; i < cur.NumField(); i++ {
			f := cur.Field(i)
			if !f.Anonymous {
				continue
			}
			ft := deref(f.Type)
			if ft == nil || seen[ft] {
				continue
			}
			seen[ft] = true
			out = append(out, ft)
			queue = append(queue, ft)
		}
	}
	return out
}

// deref unwraps one level of pointer. Embedded fields are declared as either
// a named type or a pointer to one, so a single unwrap suffices.
func deref(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}
