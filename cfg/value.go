// Package cfg implements the hierarchical CFG configuration language: a
// JSON superset with comments, trailing commas, unquoted keys, triple-quoted
// strings, complex and date-time literals, back-tick literals, arithmetic
// and logical expressions, references, slicing, and file inclusion.
package cfg

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-sql/civil"

	"github.com/shapestone/shape-cfg/internal/ast"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindComplex
	KindBool
	KindNone
	KindString
	KindDateTime
	KindList
	KindMapping
	KindNestedConfig

	// kindInternalList and kindInternalMapping hold unevaluated AST and
	// never escape the public API: unwrap converts them before any Value
	// reaches a caller.
	kindInternalList
	kindInternalMapping
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	case KindBool:
		return "bool"
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindDateTime:
		return "datetime"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	case KindNestedConfig:
		return "config"
	case kindInternalList:
		return "internal-list"
	case kindInternalMapping:
		return "internal-mapping"
	default:
		return "unknown"
	}
}

// DateTime holds either a naive (zone-less) civil date-time or a zoned
// time.Time, matching the distinction the back-tick ISO date-time rule
// draws between values with and without an offset.
type DateTime struct {
	HasZone bool
	Naive   civil.DateTime
	Zoned   time.Time
}

func (d DateTime) String() string {
	if d.HasZone {
		return d.Zoned.Format(time.RFC3339Nano)
	}
	return d.Naive.String()
}

// Value is the tagged union returned from every public lookup. Exactly one
// of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind     Kind
	Int      int64
	Float    float64
	Complex  complex128
	Bool     bool
	Str      string
	Time     DateTime
	List     []Value
	Mapping  *OrderedMap
	Nested   *Config

	internalList    []ast.Node
	internalMapping *table
}

// None is the singleton none Value.
var None = Value{Kind: KindNone}

// Integer builds an integer Value.
func Integer(v int64) Value { return Value{Kind: KindInteger, Int: v} }

// Float builds a float Value.
func Float(v float64) Value { return Value{Kind: KindFloat, Float: v} }

// String builds a string Value.
func String(v string) Value { return Value{Kind: KindString, Str: v} }

// Boolean builds a bool Value.
func Boolean(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// OrderedMap is an insertion-ordered string-keyed map of Values, used for
// the Mapping variant of Value and for AsDict results.
type OrderedMap struct {
	keys   []string
	values map[string]Value
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]Value)}
}

// Set appends key if new, or overwrites it in place if already present.
func (m *OrderedMap) Set(key string, v Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value for key and whether it is present.
func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key if present.
func (m *OrderedMap) Delete(key string) {
	if _, exists := m.values[key]; !exists {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len reports the number of entries.
func (m *OrderedMap) Len() int { return len(m.keys) }

// Clone returns a shallow copy with its own key/value storage.
func (m *OrderedMap) Clone() *OrderedMap {
	out := NewOrderedMap()
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}
	return out
}

// Text renders v in the form used by ${path} interpolation: integers,
// floats and bools stringified; strings verbatim; lists and mappings
// rendered recursively with ", " separators.
func Text(v Value) string {
	switch v.Kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		return v.Str
	case KindDateTime:
		return v.Time.String()
	case KindNone:
		return ""
	case KindList:
		parts := make([]string, len(v.List))
		for i, el := range v.List {
			parts[i] = Text(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		parts := make([]string, 0, v.Mapping.Len())
		for _, k := range v.Mapping.Keys() {
			val, _ := v.Mapping.Get(k)
			parts = append(parts, k+": "+Text(val))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindComplex:
		return fmt.Sprintf("%v", v.Complex)
	default:
		return ""
	}
}
