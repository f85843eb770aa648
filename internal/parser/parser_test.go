package parser

import (
	"strings"
	"testing"

	"github.com/shapestone/shape-cfg/internal/ast"
	"github.com/shapestone/shape-cfg/internal/source"
	"github.com/shapestone/shape-cfg/internal/token"
)

func mustParse(t *testing.T, src string) ast.Node {
	t.Helper()
	p, err := New(source.New(strings.NewReader(src)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	node, err := p.Container()
	if err != nil {
		t.Fatalf("Container() error: %v", err)
	}
	return node
}

func mustParseErr(t *testing.T, src string) error {
	t.Helper()
	p, err := New(source.New(strings.NewReader(src)))
	if err != nil {
		return err
	}
	_, err = p.Container()
	if err == nil {
		t.Fatalf("expected parse error for %q", src)
	}
	return err
}

func asMapping(t *testing.T, n ast.Node) *ast.Mapping {
	t.Helper()
	m, ok := n.(*ast.Mapping)
	if !ok {
		t.Fatalf("expected *ast.Mapping, got %T", n)
	}
	return m
}

func TestParseBareMapping(t *testing.T) {
	m := asMapping(t, mustParse(t, "a: 1\nb: 2\n"))
	if len(m.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m.Entries))
	}
	if m.Entries[0].Key.Text != "a" || m.Entries[1].Key.Text != "b" {
		t.Errorf("unexpected key order: %+v", m.Entries)
	}
}

func TestParseBracedMapping(t *testing.T) {
	m := asMapping(t, mustParse(t, "{a: 1, b: 2,}"))
	if len(m.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m.Entries))
	}
}

func TestParseNestedStructures(t *testing.T) {
	m := asMapping(t, mustParse(t, `
outer: {
  list: [1, 2, 3]
  inner: { x: "y" }
}
`))
	val, ok := m.Get("outer")
	if !ok {
		t.Fatal("missing outer key")
	}
	om, ok := val.(*ast.Mapping)
	if !ok {
		t.Fatalf("expected outer to be mapping, got %T", val)
	}
	listNode, ok := om.Get("list")
	if !ok {
		t.Fatal("missing list key")
	}
	list, ok := listNode.(*ast.List)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("expected 3-element list, got %+v", listNode)
	}
}

func TestParseEmptyContainer(t *testing.T) {
	m := asMapping(t, mustParse(t, ""))
	if len(m.Entries) != 0 {
		t.Errorf("expected empty mapping, got %d entries", len(m.Entries))
	}
}

func TestParseStringKeyConcatenation(t *testing.T) {
	m := asMapping(t, mustParse(t, `"ab" "cd": 1`))
	if _, ok := m.Get("abcd"); !ok {
		t.Fatalf("expected concatenated key abcd, got %+v", m.Entries)
	}
}

func TestParseDuplicateKeysDetected(t *testing.T) {
	m := asMapping(t, mustParse(t, "a: 1\na: 2\n"))
	dups := m.DuplicateKeys()
	if len(dups) != 1 || dups[0].Key != "a" {
		t.Fatalf("expected one duplicate for key a, got %+v", dups)
	}
}

func exprOf(t *testing.T, src string) ast.Node {
	t.Helper()
	m := asMapping(t, mustParse(t, "v: "+src))
	val, ok := m.Get("v")
	if !ok {
		t.Fatal("missing v key")
	}
	return val
}

func TestOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should bind as 1 + (2 * 3)
	n := exprOf(t, "1 + 2 * 3")
	bin, ok := n.(*ast.Binary)
	if !ok || bin.Op != token.Plus {
		t.Fatalf("expected top-level +, got %+v", n)
	}
	rhs, ok := bin.Rhs.(*ast.Binary)
	if !ok || rhs.Op != token.Star {
		t.Fatalf("expected rhs to be *, got %+v", bin.Rhs)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	// 2 ** 3 ** 2 should bind as 2 ** (3 ** 2)
	n := exprOf(t, "2 ** 3 ** 2")
	bin, ok := n.(*ast.Binary)
	if !ok || bin.Op != token.Power {
		t.Fatalf("expected top-level **, got %+v", n)
	}
	rhs, ok := bin.Rhs.(*ast.Binary)
	if !ok || rhs.Op != token.Power {
		t.Fatalf("expected rhs to be **, got %+v", bin.Rhs)
	}
}

func TestNotInParsesAsSingleOperator(t *testing.T) {
	n := exprOf(t, "a not in b")
	bin, ok := n.(*ast.Binary)
	if !ok || bin.Op != token.NotIn {
		t.Fatalf("expected NotIn, got %+v", n)
	}
}

func TestIsNotParsesAsSingleOperator(t *testing.T) {
	n := exprOf(t, "a is not b")
	bin, ok := n.(*ast.Binary)
	if !ok || bin.Op != token.IsNot {
		t.Fatalf("expected IsNot, got %+v", n)
	}
}

func TestNotAloneIsLogicalNegation(t *testing.T) {
	n := exprOf(t, "not a")
	un, ok := n.(*ast.Unary)
	if !ok || un.Op != token.NotWord {
		t.Fatalf("expected unary not, got %+v", n)
	}
}

func TestDollarReferenceBareAndBraced(t *testing.T) {
	n := exprOf(t, "$a.b")
	un, ok := n.(*ast.Unary)
	if !ok || un.Op != token.Dollar {
		t.Fatalf("expected $ unary, got %+v", n)
	}
	n2 := exprOf(t, "${a.b}")
	un2, ok := n2.(*ast.Unary)
	if !ok || un2.Op != token.Dollar {
		t.Fatalf("expected braced $ unary, got %+v", n2)
	}
}

func TestIndexVsSlice(t *testing.T) {
	n := exprOf(t, "a[0]")
	bin, ok := n.(*ast.Binary)
	if !ok || bin.Op != token.LeftBracket {
		t.Fatalf("expected index access, got %+v", n)
	}
	if _, isSlice := bin.Rhs.(*ast.Slice); isSlice {
		t.Fatal("plain index should not parse as a slice")
	}

	n2 := exprOf(t, "a[1:2:3]")
	bin2, ok := n2.(*ast.Binary)
	if !ok || bin2.Op != token.LeftBracket {
		t.Fatalf("expected index access, got %+v", n2)
	}
	sl, ok := bin2.Rhs.(*ast.Slice)
	if !ok {
		t.Fatalf("expected slice, got %+v", bin2.Rhs)
	}
	if sl.Start == nil || sl.Stop == nil || sl.Step == nil {
		t.Errorf("expected all three slice bounds set, got %+v", sl)
	}
}

func TestMultiExpressionIndexIsError(t *testing.T) {
	err := mustParseErr(t, "v: a[1, 2]")
	if !strings.Contains(err.Error(), "invalid index") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestIncludeUnaryOperator(t *testing.T) {
	n := exprOf(t, `@"other.cfg"`)
	un, ok := n.(*ast.Unary)
	if !ok || un.Op != token.At {
		t.Fatalf("expected @ unary, got %+v", n)
	}
}

func TestParsePathSimple(t *testing.T) {
	n, err := ParsePath("a.b[0]")
	if err != nil {
		t.Fatalf("ParsePath() error: %v", err)
	}
	head, steps, ok := ast.UnpackPath(n)
	if !ok {
		t.Fatal("expected UnpackPath to succeed")
	}
	if head.Text != "a" {
		t.Errorf("unexpected head: %+v", head)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Op != token.Dot {
		t.Errorf("expected first step Dot, got %v", steps[0].Op)
	}
	if steps[1].Op != token.LeftBracket {
		t.Errorf("expected second step LeftBracket, got %v", steps[1].Op)
	}
}

func TestParsePathRejectsTrailingGarbage(t *testing.T) {
	if _, err := ParsePath("a.b extra"); err == nil {
		t.Fatal("expected error for trailing garbage")
	}
}

func TestParsePathRejectsEmpty(t *testing.T) {
	_, err := ParsePath("")
	if err == nil {
		t.Fatal("expected error for empty path")
	}
	if !strings.Contains(err.Error(), "expected Word but got EOF") {
		t.Errorf("unexpected message: %v", err)
	}
}
