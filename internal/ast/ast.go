// Package ast defines the tagged AST node variants produced by the CFG
// parser: token leaves, unary and binary operators, slices, lists and
// ordered mappings.
package ast

import (
	"fmt"

	"github.com/shapestone/shape-cfg/internal/token"
)

// Node is implemented by every AST variant. Loc anchors error messages and
// reference-cycle reports at the node's source location.
type Node interface {
	Loc() token.Location
}

// Literal wraps a single token: a number, string, boolean, none, or a Word
// used as an identifier (context variable reference, or the head of a
// path).
type Literal struct {
	Tok *token.Token
}

func (n *Literal) Loc() token.Location { return n.Tok.Start }

// Unary is a prefix operator applied to a single operand: +x, -x, ~x,
// not x, @x (include), $x (reference).
type Unary struct {
	Op      token.Kind
	OpStart token.Location
	Operand Node
}

func (n *Unary) Loc() token.Location { return n.OpStart }

// Binary is an infix operator. Dot access (a.b), subscript (a[i]) and
// slicing (a[i:j:k]) are modeled as Binary nodes with Op LeftBracket or
// Dot and Rhs holding the index expression, word token leaf, or *Slice.
type Binary struct {
	Op  token.Kind
	Lhs Node
	Rhs Node
}

func (n *Binary) Loc() token.Location { return n.Lhs.Loc() }

// Slice holds up to three optional expressions: start, stop, step.
type Slice struct {
	Start    Node
	Stop     Node
	Step     Node
	AtLoc    token.Location
}

func (n *Slice) Loc() token.Location { return n.AtLoc }

// List is an ordered sequence of element expressions.
type List struct {
	Elements []Node
	AtLoc    token.Location
}

func (n *List) Loc() token.Location { return n.AtLoc }

// MappingEntry is one (key token, value expression) pair of a Mapping,
// retained in source order.
type MappingEntry struct {
	Key   *token.Token
	Value Node
}

// Mapping is an ordered sequence of entries, additionally indexed by key
// text for O(1) lookup and duplicate-key detection.
type Mapping struct {
	Entries []MappingEntry
	index   map[string]int
	AtLoc   token.Location
}

// NewMapping builds a Mapping from entries in source order, recording the
// first occurrence of each key in the lookup index.
func NewMapping(loc token.Location, entries []MappingEntry) *Mapping {
	m := &Mapping{Entries: entries, AtLoc: loc, index: make(map[string]int, len(entries))}
	for i, e := range entries {
		if _, exists := m.index[e.Key.Text]; !exists {
			m.index[e.Key.Text] = i
		}
	}
	return m
}

func (n *Mapping) Loc() token.Location { return n.AtLoc }

// Get returns the value AST for key and whether it is present.
func (n *Mapping) Get(key string) (Node, bool) {
	i, ok := n.index[key]
	if !ok {
		return nil, false
	}
	return n.Entries[i].Value, true
}

// DuplicateKeys returns every (key, firstLoc, dupLoc) triple where key
// appears more than once, in source order of the duplicate occurrence.
func (n *Mapping) DuplicateKeys() []DuplicateKey {
	seen := make(map[string]token.Location, len(n.Entries))
	var dups []DuplicateKey
	for _, e := range n.Entries {
		if first, ok := seen[e.Key.Text]; ok {
			dups = append(dups, DuplicateKey{Key: e.Key.Text, First: first, Second: e.Key.Start})
			continue
		}
		seen[e.Key.Text] = e.Key.Start
	}
	return dups
}

// DuplicateKey describes one repeated mapping key.
type DuplicateKey struct {
	Key    string
	First  token.Location
	Second token.Location
}

// ToSource renders n back into CFG-like source text. It is used by the
// public parsePath/toSource surface and does not byte-match the original
// input. Literals, dot and subscript access and slices render as text that
// parsePath accepts; other unary and binary operators render with their
// token kind name (for example "(1 Plus 2)"), which parsePath rejects.
func ToSource(n Node) string {
	switch v := n.(type) {
	case *Literal:
		return v.Tok.Text
	case *Unary:
		return string(v.Op) + ToSource(v.Operand)
	case *Binary:
		switch v.Op {
		case token.Dot:
			return ToSource(v.Lhs) + "." + ToSource(v.Rhs)
		case token.LeftBracket:
			return ToSource(v.Lhs) + "[" + ToSource(v.Rhs) + "]"
		default:
			return fmt.Sprintf("(%s %s %s)", ToSource(v.Lhs), v.Op, ToSource(v.Rhs))
		}
	case *Slice:
		text := ""
		if v.Start != nil {
			text += ToSource(v.Start)
		}
		text += ":"
		if v.Stop != nil {
			text += ToSource(v.Stop)
		}
		if v.Step != nil {
			text += ":" + ToSource(v.Step)
		}
		return text
	case *List:
		out := "["
		for i, e := range v.Elements {
			if i > 0 {
				out += ", "
			}
			out += ToSource(e)
		}
		return out + "]"
	case *Mapping:
		out := "{"
		for i, e := range v.Entries {
			if i > 0 {
				out += ", "
			}
			out += e.Key.Text + ": " + ToSource(e.Value)
		}
		return out + "}"
	default:
		return ""
	}
}
