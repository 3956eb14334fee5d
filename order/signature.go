package order

import (
	"crypto/sha256"
	"encoding/hex"
	"reflect"
	"strconv"
	"strings"
)

// Internal-name encoding of Go types, used for signature keys and for the
// descriptor text the byte-scan strategy matches against. Basic kinds map to
// single reserved letters, composite kinds recurse behind a one-character
// prefix, and named types carry their full import path so distinct types
// never collide.
//
// The only non-injective corner is unnamed struct and interface types, which
// fall back to their reflect string form. Two such types with the same
// printed form encode identically; when that produces duplicate signature
// keys the first match wins.

var errType = reflect.TypeOf((*error)(nil)).Elem()

var kindCodes = map[reflect.Kind]byte{
	reflect.Bool:          'b',
	reflect.Int:           'i',
	reflect.Int8:          'c',
	reflect.Int16:         'h',
	reflect.Int32:         'l',
	reflect.Int64:         'q',
	reflect.Uint:          'u',
	reflect.Uint8:         'C',
	reflect.Uint16:        'H',
	reflect.Uint32:        'L',
	reflect.Uint64:        'Q',
	reflect.Uintptr:       'P',
	reflect.Float32:       'f',
	reflect.Float64:       'd',
	reflect.Complex64:     'x',
	reflect.Complex128:    'X',
	reflect.String:        's',
	reflect.UnsafePointer: 'p',
}

// EncodeType computes the internal name of a type. The encoding is
// deterministic, and distinct named or basic types always encode
// differently.
func EncodeType(t reflect.Type) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	encodeType(&b, t)
	return b.String()
}

func encodeType(b *strings.Builder, t reflect.Type) {
	if t == errType {
		b.WriteByte('E')
		return
	}
	// unsafe.Pointer is formally a named type but acts as a basic one.
	if t.Kind() == reflect.UnsafePointer && t.PkgPath() == "unsafe" {
		b.WriteByte('p')
		return
	}
	// Named types keep their identity even when their kind is basic:
	// a float64-backed Celsius must not collide with plain float64.
	if t.Name() != "" && t.PkgPath() != "" {
		b.WriteByte('N')
		b.WriteString(t.PkgPath())
		b.WriteByte('/')
		b.WriteString(t.Name())
		b.WriteByte(';')
		return
	}
	if code, ok := kindCodes[t.Kind()]; ok {
		b.WriteByte(code)
		return
	}

	switch t.Kind() {
	case reflect.Ptr:
		b.WriteByte('*')
		encodeType(b, t.Elem())
	case reflect.Slice:
		b.WriteByte('[')
		encodeType(b, t.Elem())
	case reflect.Array:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(t.Len()))
		encodeType(b, t.Elem())
	case reflect.Map:
		b.WriteByte('M')
		encodeType(b, t.Key())
		encodeType(b, t.Elem())
	case reflect.Chan:
		b.WriteByte('G')
		b.WriteByte('0' + byte(t.ChanDir()))
		encodeType(b, t.Elem())
	case reflect.Func:
		b.WriteByte('F')
		b.WriteByte('(')
		for i := 0; i < t.NumIn(); i++ {
			encodeType(b, t.In(i))
		}
		b.WriteByte(')')
		for i := 0; i < t.NumOut(); i++ {
			encodeType(b, t.Out(i))
		}
		b.WriteByte(';')
	case reflect.Interface:
		if t.NumMethod() == 0 {
			b.WriteByte('A')
			return
		}
		b.WriteByte('T')
		b.WriteString(t.String())
		b.WriteByte(';')
	default:
		// Unnamed structs and anything future reflect versions add.
		b.WriteByte('T')
		b.WriteString(t.String())
		b.WriteByte(';')
	}
}

// Key builds the canonical signature key of a member: qualified class name,
// member name, parenthesized parameter encodings, then result encodings.
// Keys are injective over the members declared in one class because the full
// parameter and result types participate.
func Key(m Member) string {
	var b strings.Builder
	b.Grow(len(m.Declaring.Path) + len(m.Declaring.Name) + len(m.Name) + 16)
	b.WriteString(m.Declaring.Path)
	b.WriteByte('.')
	b.WriteString(m.Declaring.Name)
	b.WriteByte('.')
	b.WriteString(m.Name)
	writeDescriptor(&b, m.Params, m.Results)
	return b.String()
}

// KeyHash returns a short stable digest of a member's signature key, suitable
// for compact log fields. Sixteen hex characters of SHA-256.
func KeyHash(m Member) string {
	sum := sha256.Sum256([]byte(Key(m)))
	return hex.EncodeToString(sum[:8])
}

// descriptor returns the class-local form of a signature: name plus the
// parenthesized parameter and result encodings. Both strategies match on it.
func descriptor(name string, params, results []string) string {
	var b strings.Builder
	b.WriteString(name)
	writeDescriptor(&b, params, results)
	return b.String()
}

func writeDescriptor(b *strings.Builder, params, results []string) {
	b.WriteByte('(')
	for _, p := range params {
		b.WriteString(p)
	}
	b.WriteByte(')')
	for _, r := range results {
		b.WriteString(r)
	}
}

// encodeSignature encodes the parameter and result types of a func type.
// Method types obtained from a concrete type's method set carry the receiver
// as the first parameter; skipReceiver drops it.
func encodeSignature(ft reflect.Type, skipReceiver bool) (params, results []string) {
	in := 0
	if skipReceiver {
		in = 1
	}
	if n := ft.NumIn() - in; n > 0 {
		params = make([]string, 0, n)
		for i := in; i < ft.NumIn(); i++ {
			params = append(params, EncodeType(ft.In(i)))
		}
	}
	if n := ft.NumOut(); n > 0 {
		results = make([]string, 0, n)
		for i := 0; i < n; i++ {
			results = append(results, EncodeType(ft.Out(i)))
		}
	}
	return params, results
}
