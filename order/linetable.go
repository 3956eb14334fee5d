package order

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/conduit-lang/introspect/hierarchy"
)

// autogeneratedFile is the position the runtime reports for compiler-built
// method wrappers (promoted methods, pointer adapters). Such methods carry no
// usable declaration line.
const autogeneratedFile = "<autogenerated>"

// ErrClassUnknown reports that a line facility has no record of a class.
// For RuntimeLineTable that means the type was never registered.
var ErrClassUnknown = errors.New("class not registered")

// MethodLine is one entry of a class's line table: a method name, its
// parameter and result encodings, and the source line of its declaration.
// Line is zero when no line information is recorded for the method.
type MethodLine struct {
	Name    string
	Params  []string
	Results []string
	Line    int
}

// LineTable reports the methods a class declares together with their source
// lines. MethodLines fails (rather than returning a partial list) when the
// class cannot be located at all; the recovery coordinator treats that as a
// signal to fall back to byte scanning for the class.
type LineTable interface {
	MethodLines(c Class) ([]MethodLine, error)
}

// RuntimeLineTable is the default LineTable. It maps classes to live
// reflect types and reads declaration lines from the runtime's function
// line table. Standard toolchain builds carry that table; exotic build modes
// may strip it, which the one-shot availability probe detects.
//
// The zero value is not usable; construct with NewRuntimeLineTable. All
// methods are safe for concurrent use.
//
// Example usage:
//
//	lt := order.NewRuntimeLineTable()
//	cls := lt.Register(reflect.TypeOf(&Widget{}))
//	lines, err := lt.MethodLines(cls)
type RuntimeLineTable struct {
	types sync.Map // Class -> reflect.Type

	probeOnce sync.Once
	available bool
}

// NewRuntimeLineTable creates an empty runtime line table.
func NewRuntimeLineTable() *RuntimeLineTable {
	return &RuntimeLineTable{}
}

// Register records a type under its class identity and returns that
// identity. Pointer types are unwrapped. Unnamed types have no class
// identity and return the zero Class without registering anything.
// Registering the same class twice keeps the first entry.
func (lt *RuntimeLineTable) Register(t reflect.Type) Class {
	c := classOf(t)
	if c.IsZero() {
		return Class{}
	}
	base := t
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	lt.types.LoadOrStore(c, base)
	return c
}

// MethodLines lists the exported methods of a registered class with their
// declaration lines. Promoted methods and other compiler-built wrappers are
// listed with Line zero, as are methods of interface classes, which have no
// code of their own. Unregistered classes fail with ErrClassUnknown.
func (lt *RuntimeLineTable) MethodLines(c Class) ([]MethodLine, error) {
	v, ok := lt.types.Load(c)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassUnknown, c)
	}
	t := v.(reflect.Type)

	enum := t
	skipReceiver := t.Kind() != reflect.Interface
	if skipReceiver {
		// The pointer method set covers both value and pointer receivers.
		enum = reflect.PointerTo(t)
	}

	lines := make([]MethodLine, 0, enum.NumMethod())
	for i := 0; i < enum.NumMethod(); i++ {
		m := enum.Method(i)
		params, results := encodeSignature(m.Type, skipReceiver)
		lines = append(lines, MethodLine{
			Name:    m.Name,
			Params:  params,
			Results: results,
			Line:    declaredLine(t, m.Name),
		})
	}
	return lines, nil
}

// Ancestors makes the table usable as an AncestorSource for classes it has
// registered, walking the registered type's embedding chain.
func (lt *RuntimeLineTable) Ancestors(c Class) []Class {
	v, ok := lt.types.Load(c)
	if !ok {
		return nil
	}
	anc := hierarchy.Ancestors(v.(reflect.Type))
	out := make([]Class, 0, len(anc))
	for _, a := range anc {
		if cls := classOf(a); !cls.IsZero() {
			out = append(out, cls)
		}
	}
	return out
}

// LineInfoAvailable reports whether the runtime exposes usable line data.
// The probe resolves a function of this package against the runtime line
// table and runs once per instance; the result is memoized.
func (lt *RuntimeLineTable) LineInfoAvailable() bool {
	lt.probeOnce.Do(func() {
		pc := reflect.ValueOf(NewRuntimeLineTable).Pointer()
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			return
		}
		file, line := fn.FileLine(fn.Entry())
		lt.available = line > 0 && file != "" && file != autogeneratedFile
	})
	return lt.available
}

// declaredLine returns the declaration line of the named method when the
// type declares it directly, and zero when the method is a wrapper or
// carries no line data. The value method set is checked before the pointer
// method set: a value-receiver method seen through the pointer type is a
// compiler wrapper, while the value type holds the real declaration.
func declaredLine(t reflect.Type, name string) int {
	if t.Kind() == reflect.Interface {
		return 0
	}
	if m, ok := t.MethodByName(name); ok {
		if line := methodLine(m); line > 0 {
			return line
		}
	}
	if m, ok := reflect.PointerTo(t).MethodByName(name); ok {
		if line := methodLine(m); line > 0 {
			return line
		}
	}
	return 0
}

// methodLine resolves a method's entry point against the runtime line table.
// Zero means no line: missing func value, stripped table, or a wrapper.
func methodLine(m reflect.Method) int {
	if !m.Func.IsValid() {
		return 0
	}
	fn := runtime.FuncForPC(m.Func.Pointer())
	if fn == nil {
		return 0
	}
	file, line := fn.FileLine(fn.Entry())
	if file == "" || file == autogeneratedFile {
		return 0
	}
	return line
}
