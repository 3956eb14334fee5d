package order

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/conduit-lang/introspect/hierarchy"
)

// ErrUnnamedType reports a value whose type has no name and therefore no
// class identity to recover order for.
var ErrUnnamedType = errors.New("type has no name")

// Describe builds member descriptors for the exported methods of v's type.
//
// Each method's declaring class is resolved through the embedding chain:
// promoted methods are attributed to the embedded type that actually carries
// the method body, detected by the autogenerated position the runtime
// reports for wrapper methods. When the runtime carries no line data the
// walk cannot see wrappers and every method is attributed to v's own type.
//
// Only exported methods appear, because the runtime's introspection facility
// enumerates nothing else. The result order is the facility's enumeration
// order, which is alphabetical rather than declaration order; pass the
// result to a Recoverer to get declaration order back.
func Describe(v any) ([]Member, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, errors.New("value has no dynamic type")
	}
	base := t
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	if base.Name() == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnnamedType, t)
	}

	enum := base
	skipReceiver := base.Kind() != reflect.Interface
	if skipReceiver {
		enum = reflect.PointerTo(base)
	}

	ancestors := hierarchy.Ancestors(base)
	members := make([]Member, 0, enum.NumMethod())
	for i := 0; i < enum.NumMethod(); i++ {
		m := enum.Method(i)
		params, results := encodeSignature(m.Type, skipReceiver)
		members = append(members, Member{
			Declaring: declaringClass(base, ancestors, m.Name),
			Name:      m.Name,
			Params:    params,
			Results:   results,
		})
	}
	return members, nil
}

// declaringClass finds the type whose body declares the named method: the
// queried type itself when it holds a direct declaration, otherwise the
// nearest embedded ancestor that does. Falls back to the queried type when
// no direct declaration is detectable.
func declaringClass(base reflect.Type, ancestors []reflect.Type, name string) Class {
	if declaresDirectly(base, name) {
		return classOf(base)
	}
	// Ancestors are ordered most general first; promotion picks the
	// shallowest declaration, so walk from the derived end.
	for i := len(ancestors) - 1; i >= 0; i-- {
		if declaresDirectly(ancestors[i], name) {
			if c := classOf(ancestors[i]); !c.IsZero() {
				return c
			}
		}
	}
	return classOf(base)
}

// declaresDirectly reports whether t's own body declares the named method,
// as opposed to inheriting it through embedding. Interface types count every
// method they list, since reflect cannot attribute those to embedded
// interfaces.
func declaresDirectly(t reflect.Type, name string) bool {
	if t.Kind() == reflect.Interface {
		_, ok := t.MethodByName(name)
		return ok
	}
	if m, ok := t.MethodByName(name); ok && methodLine(m) > 0 {
		return true
	}
	if m, ok := reflect.PointerTo(t).MethodByName(name); ok && methodLine(m) > 0 {
		return true
	}
	return false
}
