// Package reflectutil provides lookup and invocation helpers on top of the
// reflect package: finding methods by name and argument types with Go
// assignability rules, calling methods with plain values, and navigating
// struct fields by dotted path.
package reflectutil

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Error types.
var (
	ErrMethodNotFound  = errors.New("method not found")
	ErrArgumentCount   = errors.New("incorrect number of arguments")
	ErrArgumentType    = errors.New("argument type mismatch")
	ErrFieldNotFound   = errors.New("field not found")
	ErrUnexportedField = errors.New("field is unexported")
	ErrNilPointer      = errors.New("nil pointer in field path")
	ErrNotStruct       = errors.New("value is not a struct")
)

// Method finds the method named name on v whose parameters accept argTypes
// in order, following Go assignability: interface parameters accept any
// implementing type, directional channel parameters accept bidirectional
// channels, and a nil entry stands for an untyped nil literal, which only
// nilable parameter kinds accept. Variadic methods accept any number of
// trailing arguments of the variadic element type.
//
// The returned value is bound to v and can be invoked with Call on
// reflect.Value directly.
func Method(v any, name string, argTypes ...reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Value{}, fmt.Errorf("%w: %s on nil value", ErrMethodNotFound, name)
	}
	m := reflect.ValueOf(v).MethodByName(name)
	if !m.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s on %s", ErrMethodNotFound, name, reflect.TypeOf(v))
	}

	mt := m.Type()
	if err := checkArity(mt, len(argTypes), name); err != nil {
		return reflect.Value{}, err
	}
	for i, at := range argTypes {
		pt := paramType(mt, i)
		if at == nil {
			if !nilable(pt) {
				return reflect.Value{}, fmt.Errorf("%w: call %s, argument %d: nil is not assignable to %s",
					ErrArgumentType, name, i, pt)
			}
			continue
		}
		if !at.AssignableTo(pt) {
			return reflect.Value{}, fmt.Errorf("%w: call %s, argument %d: %s is not assignable to %s",
				ErrArgumentType, name, i, at, pt)
		}
	}
	return m, nil
}

// Call invokes the method named name on v with the given arguments and
// returns its results. Arguments follow the same assignability rules as
// Method; a nil argument becomes the parameter type's zero value.
func Call(v any, name string, args ...any) ([]any, error) {
	argTypes := make([]reflect.Type, len(args))
	for i, a := range args {
		if a != nil {
			argTypes[i] = reflect.TypeOf(a)
		}
	}
	m, err := Method(v, name, argTypes...)
	if err != nil {
		return nil, err
	}

	mt := m.Type()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			in[i] = reflect.Zero(paramType(mt, i))
			continue
		}
		in[i] = reflect.ValueOf(a)
	}

	results := m.Call(in)
	out := make([]any, len(results))
	for i, r := range results {
		out[i] = r.Interface()
	}
	return out, nil
}

// FieldByPath resolves a dotted field path such as "Spec.Template.Name"
// against v, dereferencing pointers along the way. Promoted fields from
// embedded structs are reachable by their usual selector names.
func FieldByPath(v any, path string) (any, error) {
	val := reflect.ValueOf(v)
	for _, name := range strings.Split(path, ".") {
		for val.Kind() == reflect.Pointer {
			if val.IsNil() {
				return nil, fmt.Errorf("%w: at %q in path %q", ErrNilPointer, name, path)
			}
			val = val.Elem()
		}
		if val.Kind() != reflect.Struct {
			return nil, fmt.Errorf("%w: at %q in path %q", ErrNotStruct, name, path)
		}
		f := val.FieldByName(name)
		if !f.IsValid() {
			return nil, fmt.Errorf("%w: %q in path %q on %s", ErrFieldNotFound, name, path, val.Type())
		}
		if !f.CanInterface() {
			return nil, fmt.Errorf("%w: %q in path %q on %s", ErrUnexportedField, name, path, val.Type())
		}
		val = f
	}
	return val.Interface(), nil
}

// Implements reports whether v's type satisfies the interface that ifacePtr
// points to. Pass a nil pointer to the interface type:
//
//	reflectutil.Implements(buf, (*io.Reader)(nil))
func Implements(v any, ifacePtr any) bool {
	if v == nil || ifacePtr == nil {
		return false
	}
	pt := reflect.TypeOf(ifacePtr)
	if pt.Kind() != reflect.Pointer || pt.Elem().Kind() != reflect.Interface {
		return false
	}
	return reflect.TypeOf(v).Implements(pt.Elem())
}

// checkArity validates the argument count against the method type, allowing
// any count at or above the fixed parameters for variadic methods.
func checkArity(mt reflect.Type, n int, name string) error {
	if mt.IsVariadic() {
		if n < mt.NumIn()-1 {
			return fmt.Errorf("%w: found %d but expected at least %d: call %s",
				ErrArgumentCount, n, mt.NumIn()-1, name)
		}
		return nil
	}
	if n != mt.NumIn() {
		return fmt.Errorf("%w: found %d but expected %d: call %s",
			ErrArgumentCount, n, mt.NumIn(), name)
	}
	return nil
}

// paramType returns the parameter type at position i, unrolling the variadic
// slice for trailing positions.
func paramType(mt reflect.Type, i int) reflect.Type {
	if mt.IsVariadic() && i >= mt.NumIn()-1 {
		return mt.In(mt.NumIn() - 1).Elem()
	}
	return mt.In(i)
}

// nilable reports whether the kind of t accepts an untyped nil.
func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	}
	return false
}
