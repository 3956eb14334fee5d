package order

import "reflect"

// Class identifies the named type that declares a method.
type Class struct {
	Path string // import path of the defining package
	Name string // type name within that package
}

// String returns the qualified name, import path and type name joined by a dot.
func (c Class) String() string {
	if c.Path == "" {
		return c.Name
	}
	return c.Path + "." + c.Name
}

// IsZero reports whether c carries no identity.
func (c Class) IsZero() bool {
	return c.Path == "" && c.Name == ""
}

// Member describes one method: the class that declares it, its name, and the
// internal-name encodings of its parameter and result types in declared
// order. Members are value types and are never mutated by this package.
//
// Members usually come from Describe, but callers may build them by hand as
// long as Params and Results use the encoding produced by EncodeType.
type Member struct {
	Declaring Class
	Name      string
	Params    []string
	Results   []string
}

// Result is the outcome of a recovery pass. Members holds the input members
// reordered by recovered source position; the caller's slice is left
// untouched. Resolved is true only when every member received a position.
type Result struct {
	Members  []Member
	Resolved bool
}

// classOf derives the Class of a reflect type, unwrapping one pointer level.
// Unnamed types yield the zero Class.
func classOf(t reflect.Type) Class {
	if t == nil {
		return Class{}
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return Class{}
	}
	return Class{Path: t.PkgPath(), Name: t.Name()}
}
