// Package tagutil resolves struct tags across embedded fields with
// build-once caching. Field visibility follows Go selector rules: promoted
// fields are reachable by their usual names, outer fields shadow embedded
// ones, and ambiguous same-depth fields are not visible at all.
package tagutil

import (
	"reflect"
	"sync"
)

// Index caches one tag table per struct type. Tables are immutable once
// built, so an Index is safe for concurrent use.
type Index struct {
	types sync.Map // reflect.Type -> tagTable
}

type tagTable struct {
	names []string
	tags  map[string]reflect.StructTag
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{}
}

// Fields returns the visible field names of t in declaration order, with
// embedded fields expanded in place. Pointer types are dereferenced; the
// result is nil for non-struct types. The returned slice is a copy.
func (ix *Index) Fields(t reflect.Type) []string {
	table := ix.table(t)
	if len(table.names) == 0 {
		return nil
	}
	return append([]string(nil), table.names...)
}

// Tag returns the struct tag of the named visible field.
func (ix *Index) Tag(t reflect.Type, field string) (reflect.StructTag, bool) {
	tag, ok := ix.table(t).tags[field]
	return tag, ok
}

// Lookup returns the value of key in the named field's tag, reporting
// whether the key was present. A missing field reads as a missing key.
func (ix *Index) Lookup(t reflect.Type, field, key string) (string, bool) {
	tag, ok := ix.Tag(t, field)
	if !ok {
		return "", false
	}
	return tag.Lookup(key)
}

// Get returns the value of key in the named field's tag, or the empty
// string when either the field or the key is absent.
func (ix *Index) Get(t reflect.Type, field, key string) string {
	value, _ := ix.Lookup(t, field, key)
	return value
}

// table returns the cached tag table for t, building it on first use.
func (ix *Index) table(t reflect.Type) tagTable {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return tagTable{}
	}
	if cached, ok := ix.types.Load(t); ok {
		return cached.(tagTable)
	}

	fields := reflect.VisibleFields(t)
	table := tagTable{
		names: make([]string, 0, len(fields)),
		tags:  make(map[string]reflect.StructTag, len(fields)),
	}
	for _, f := range fields {
		table.names = append(table.names, f.Name)
		table.tags[f.Name] = f.Tag
	}

	actual, _ := ix.types.LoadOrStore(t, table)
	return actual.(tagTable)
}
