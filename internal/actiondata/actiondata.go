// Package actiondata implements the blackboard a pipeline's actions use to
// hand coordinates, flags and intermediate results to each other.
//
// Values are a closed tagged union; keys are typed, so a key can only ever
// hold one kind of value and mismatches fail to compile. Reading a key that
// no earlier action wrote returns ErrStaleData.
package actiondata

import (
	"errors"
	"fmt"
	"sort"

	"github.com/GriffinCanCode/gazeweb/internal/gaze"
)

// ErrStaleData is returned when an action reads a key that was never written.
var ErrStaleData = errors.New("stale action data")

// Kind tags the type held by a Value.
type Kind int

const (
	KindFloat Kind = iota + 1
	KindCoordinate
	KindString
	KindBool
	KindInt
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindCoordinate:
		return "coordinate"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return "unknown"
	}
}

// Scalar lists the Go types a Value can hold.
type Scalar interface {
	float64 | gaze.Point | string | bool | int
}

// Value is one tagged entry of the map.
type Value struct {
	kind Kind
	f    float64
	p    gaze.Point
	s    string
	b    bool
	i    int
}

// Kind returns the value tag.
func (v Value) Kind() Kind { return v.kind }

// String formats the value for logs.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindCoordinate:
		return fmt.Sprintf("(%.1f,%.1f)", v.p.X, v.p.Y)
	case KindString:
		return v.s
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	default:
		return "<unset>"
	}
}

func wrap[T Scalar](v T) Value {
	switch x := any(v).(type) {
	case float64:
		return Value{kind: KindFloat, f: x}
	case gaze.Point:
		return Value{kind: KindCoordinate, p: x}
	case string:
		return Value{kind: KindString, s: x}
	case bool:
		return Value{kind: KindBool, b: x}
	case int:
		return Value{kind: KindInt, i: x}
	}
	panic("unreachable")
}

func unwrap[T Scalar](v Value) (T, bool) {
	var out T
	var raw any
	switch v.kind {
	case KindFloat:
		raw = v.f
	case KindCoordinate:
		raw = v.p
	case KindString:
		raw = v.s
	case KindBool:
		raw = v.b
	case KindInt:
		raw = v.i
	default:
		return out, false
	}
	out, ok := raw.(T)
	return out, ok
}

// Key names one entry and fixes its type.
type Key[T Scalar] struct {
	name string
}

// Name returns the key name.
func (k Key[T]) Name() string { return k.name }

// NewKey declares a key. Keys are declared once at package level and shared
// by the producing and consuming actions.
func NewKey[T Scalar](name string) Key[T] {
	return Key[T]{name: name}
}

// Map is the per-pipeline blackboard. It is owned by exactly one pipeline
// and only touched from the frame thread.
type Map struct {
	values map[string]Value
}

// New creates an empty map.
func New() *Map {
	return &Map{values: make(map[string]Value)}
}

// Set writes v under k.
func Set[T Scalar](m *Map, k Key[T], v T) {
	m.values[k.name] = wrap(v)
}

// Get reads k, failing with ErrStaleData when it was never written.
func Get[T Scalar](m *Map, k Key[T]) (T, error) {
	var zero T
	v, ok := m.values[k.name]
	if !ok {
		return zero, fmt.Errorf("%w: %s never written", ErrStaleData, k.name)
	}
	out, ok := unwrap[T](v)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %s", ErrStaleData, k.name, v.kind)
	}
	return out, nil
}

// Lookup reads k and reports whether it was written.
func Lookup[T Scalar](m *Map, k Key[T]) (T, bool) {
	v, err := Get(m, k)
	return v, err == nil
}

// Has reports whether k was written.
func Has[T Scalar](m *Map, k Key[T]) bool {
	_, ok := m.values[k.name]
	return ok
}

// Delete removes k.
func Delete[T Scalar](m *Map, k Key[T]) {
	delete(m.values, k.name)
}

// Len returns the number of written keys.
func (m *Map) Len() int { return len(m.values) }

// Snapshot returns the map contents formatted for logs, keyed by name.
func (m *Map) Snapshot() map[string]string {
	out := make(map[string]string, len(m.values))
	for name, v := range m.values {
		out[name] = v.String()
	}
	return out
}

// Names returns the written key names in sorted order.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.values))
	for name := range m.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
