package cfg

import (
	"fmt"
	"sort"

	"github.com/shapestone/shape-cfg/internal/ast"
	"github.com/shapestone/shape-cfg/internal/token"
)

// evalCtx carries the state that must be shared across an entire top-level
// Get walk, even as evaluation crosses into included child Configs:
// reference-cycle detection keyed on AST node identity.
type evalCtx struct {
	refsSeen map[ast.Node]bool
}

// evalKeyRaw evaluates the root-level entry named key without unwrapping
// internal variants, so GetSubConfig can see a raw NestedConfig.
func (c *Config) evalKeyRaw(key string) (Value, error) {
	ectx := &evalCtx{refsSeen: c.refsSeen}
	node := c.root.nodes[key]
	return c.evalNode(ectx, node)
}

func (c *Config) walkPathRaw(head *token.Token, steps []ast.PathStep) (Value, error) {
	ectx := &evalCtx{refsSeen: c.refsSeen}
	return c.resolvePath(ectx, head, steps)
}

func (c *Config) evalKey(key string) (Value, error) { return c.evalKeyRaw(key) }

func (c *Config) walkPath(head *token.Token, steps []ast.PathStep) (Value, error) {
	return c.walkPathRaw(head, steps)
}

// resolvePath looks up head in cfg's root table, evaluates it, and applies
// each path step in turn, switching "current config" whenever a step
// resolves through an include boundary.
func (c *Config) resolvePath(ectx *evalCtx, head *token.Token, steps []ast.PathStep) (Value, error) {
	if !c.root.has(head.Text) {
		return Value{}, &ConfigError{Loc: head.Start, Msg: "not found in configuration: " + head.Text}
	}
	node := c.root.nodes[head.Text]
	current, err := c.evalNode(ectx, node)
	if err != nil {
		return Value{}, err
	}
	curCfg := c

	for _, step := range steps {
		current, curCfg, err = curCfg.applyStep(ectx, current, step)
		if err != nil {
			return Value{}, err
		}
	}
	return current, nil
}

func (c *Config) applyStep(ectx *evalCtx, current Value, step ast.PathStep) (Value, *Config, error) {
	switch step.Op {
	case token.Dot:
		lit := step.Node.(*ast.Literal)
		return c.fieldAccess(ectx, current, lit.Tok)
	case token.LeftBracket:
		if sl, ok := step.Node.(*ast.Slice); ok {
			v, err := c.applySlice(ectx, current, sl)
			return v, c, err
		}
		v, err := c.applyIndex(ectx, current, step.Node)
		return v, c, err
	default:
		return Value{}, c, &ConfigError{Msg: "unsupported path step"}
	}
}

func (c *Config) fieldAccess(ectx *evalCtx, current Value, nameTok *token.Token) (Value, *Config, error) {
	name := nameTok.Text
	switch current.Kind {
	case kindInternalMapping:
		t := current.internalMapping
		if !t.has(name) {
			return Value{}, c, &ConfigError{Loc: nameTok.Start, Msg: "not found in configuration: " + name}
		}
		val, err := c.evalNode(ectx, t.nodes[name])
		if err != nil {
			return Value{}, c, err
		}
		return val, c.configFor(val), nil
	case KindMapping:
		val, ok := current.Mapping.Get(name)
		if !ok {
			return Value{}, c, &ConfigError{Loc: nameTok.Start, Msg: "not found in configuration: " + name}
		}
		return val, c.configFor(val), nil
	case KindNestedConfig:
		nested := current.Nested
		if !nested.root.has(name) {
			return Value{}, c, &ConfigError{Loc: nameTok.Start, Msg: "not found in configuration: " + name}
		}
		val, err := nested.evalNode(ectx, nested.root.nodes[name])
		if err != nil {
			return Value{}, c, err
		}
		return val, nested.configFor(val), nil
	default:
		return Value{}, c, &ConfigError{Loc: nameTok.Start, Msg: "invalid container for field access: " + current.Kind.String()}
	}
}

// configFor returns the Config that should govern further path steps after
// resolving to v: the value's own nested config when it is one, otherwise
// the config the step was taken against.
func (c *Config) configFor(v Value) *Config {
	if v.Kind == KindNestedConfig {
		return v.Nested
	}
	return c
}

func (c *Config) applyIndex(ectx *evalCtx, current Value, indexExpr ast.Node) (Value, error) {
	idxVal, err := c.evalNode(ectx, indexExpr)
	if err != nil {
		return Value{}, err
	}
	if idxVal.Kind != KindInteger {
		return Value{}, &ConfigError{Loc: indexExpr.Loc(), Msg: fmt.Sprintf("index is not an integer, but %s", idxVal.Kind)}
	}

	elems, err := c.listElements(ectx, current, indexExpr.Loc(), "invalid container for numeric index: ")
	if err != nil {
		return Value{}, err
	}
	n := len(elems)
	i := idxVal.Int
	orig := i
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return Value{}, &ConfigError{Loc: indexExpr.Loc(), Msg: fmt.Sprintf(
			"index out of range: is %d, must be between 0 and %d", orig, n-1)}
	}
	return elems[i], nil
}

// listElements returns current's elements fully evaluated, erroring with
// errMsg (prefixed before current's kind) if current is not list-like.
// Callers supply the fixed fragment that matches their own operation:
// numeric subscript and slicing each report a distinct message (§4.4/§4.5).
func (c *Config) listElements(ectx *evalCtx, current Value, loc token.Location, errMsg string) ([]Value, error) {
	switch current.Kind {
	case KindList:
		return current.List, nil
	case kindInternalList:
		out := make([]Value, len(current.internalList))
		for i, n := range current.internalList {
			v, err := c.evalNode(ectx, n)
			if err != nil {
				return nil, err
			}
			uv, err := c.unwrap(ectx, v)
			if err != nil {
				return nil, err
			}
			out[i] = uv
		}
		return out, nil
	default:
		return nil, &ConfigError{Loc: loc, Msg: errMsg + current.Kind.String()}
	}
}

// evalNode evaluates a single AST node against cfg's context and root,
// sharing ectx's cycle-detection state. Containers (Mapping/List literals)
// evaluate to their Internal variant; callers that need a fully unwrapped
// value call unwrap explicitly.
func (c *Config) evalNode(ectx *evalCtx, n ast.Node) (Value, error) {
	switch v := n.(type) {
	case *ast.Literal:
		return c.evalLiteral(v)
	case *ast.Unary:
		return c.evalUnary(ectx, v)
	case *ast.Binary:
		return c.evalBinary(ectx, v)
	case *ast.List:
		return Value{Kind: kindInternalList, internalList: v.Elements}, nil
	case *ast.Mapping:
		t, err := buildTable(v)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kindInternalMapping, internalMapping: t}, nil
	case *ast.Slice:
		return Value{}, &ConfigError{Loc: n.Loc(), Msg: "slice is not a value expression"}
	default:
		return Value{}, &ConfigError{Loc: n.Loc(), Msg: "unevaluable expression"}
	}
}

func (c *Config) evalLiteral(v *ast.Literal) (Value, error) {
	tok := v.Tok
	switch tok.Kind {
	case token.IntegerNumber:
		return Integer(tok.Value.(int64)), nil
	case token.FloatNumber:
		return Float(tok.Value.(float64)), nil
	case token.Complex:
		return Value{Kind: KindComplex, Complex: tok.Value.(complex128)}, nil
	case token.StringToken:
		return String(tok.Value.(string)), nil
	case token.TrueToken:
		return Boolean(true), nil
	case token.FalseToken:
		return Boolean(false), nil
	case token.NoneToken:
		return None, nil
	case token.BackTick:
		return c.stringConverter(c, tok.Value.(string))
	case token.Word:
		val, ok := c.context[tok.Text]
		if !ok {
			return Value{}, &ConfigError{Loc: tok.Start, Msg: "unknown variable: " + tok.Text}
		}
		return val, nil
	default:
		return Value{}, &ConfigError{Loc: tok.Start, Msg: "unexpected literal token: " + string(tok.Kind)}
	}
}

func (c *Config) evalUnary(ectx *evalCtx, v *ast.Unary) (Value, error) {
	switch v.Op {
	case token.Plus, token.Minus, token.BitwiseComplement:
		operand, err := c.evalAndUnwrap(ectx, v.Operand)
		if err != nil {
			return Value{}, err
		}
		return applyUnaryOp(v.Op, v.OpStart, operand)
	case token.NotWord:
		operand, err := c.evalAndUnwrap(ectx, v.Operand)
		if err != nil {
			return Value{}, err
		}
		if operand.Kind != KindBool {
			return Value{}, &ConfigError{Loc: v.OpStart, Msg: "cannot apply not to " + operand.Kind.String()}
		}
		return Boolean(!operand.Bool), nil
	case token.At:
		return c.evalInclude(ectx, v)
	case token.Dollar:
		return c.evalReference(ectx, v)
	default:
		return Value{}, &ConfigError{Loc: v.OpStart, Msg: "unsupported unary operator: " + string(v.Op)}
	}
}

// evalReference resolves a $name.path expression, detecting cycles via the
// Unary node's own identity.
func (c *Config) evalReference(ectx *evalCtx, v *ast.Unary) (Value, error) {
	if ectx.refsSeen[v] {
		return Value{}, c.circularReferenceError(ectx, v)
	}
	ectx.refsSeen[v] = true
	defer delete(ectx.refsSeen, v)

	head, steps, ok := ast.UnpackPath(v.Operand)
	if !ok {
		return Value{}, &ConfigError{Loc: v.OpStart, Msg: "invalid reference"}
	}
	result, err := c.resolvePath(ectx, head, steps)
	if err != nil {
		return Value{}, err
	}
	return c.unwrap(ectx, result)
}

// referenceFrame is one reference node on a detected cycle: its own
// operand path rendered as source text, and its location.
type referenceFrame struct {
	path string
	loc  token.Location
}

// circularReferenceError assembles a sorted (by location) list of every
// reference node on the cycle, each rendered with its own path, per
// §4.4/§8. v is already a member of ectx.refsSeen at this point (the
// membership check in evalReference is what triggered this call), so the
// cycle's full set of frames is exactly ectx.refsSeen's current contents
// — appending v again would render its location twice. Map iteration
// order is unspecified, so the frames are sorted by location before
// rendering to keep the message deterministic.
func (c *Config) circularReferenceError(ectx *evalCtx, v *ast.Unary) error {
	frames := make([]referenceFrame, 0, len(ectx.refsSeen))
	for n := range ectx.refsSeen {
		u, ok := n.(*ast.Unary)
		if !ok {
			continue
		}
		frames = append(frames, referenceFrame{path: ast.ToSource(u.Operand), loc: u.Loc()})
	}
	sort.Slice(frames, func(i, j int) bool {
		return frames[i].loc.Before(frames[j].loc)
	})

	msg := "circular reference:"
	for i, f := range frames {
		if i > 0 {
			msg += ","
		}
		msg += fmt.Sprintf(" %s %s", f.path, f.loc)
	}
	return &ConfigError{Loc: v.OpStart, Msg: msg}
}

func (c *Config) evalAndUnwrap(ectx *evalCtx, n ast.Node) (Value, error) {
	v, err := c.evalNode(ectx, n)
	if err != nil {
		return Value{}, err
	}
	return c.unwrap(ectx, v)
}

func (c *Config) evalBinary(ectx *evalCtx, v *ast.Binary) (Value, error) {
	switch v.Op {
	case token.Dot:
		lhs, err := c.evalNode(ectx, v.Lhs)
		if err != nil {
			return Value{}, err
		}
		nameTok := v.Rhs.(*ast.Literal).Tok
		val, _, err := c.fieldAccess(ectx, lhs, nameTok)
		return val, err
	case token.LeftBracket:
		lhs, err := c.evalNode(ectx, v.Lhs)
		if err != nil {
			return Value{}, err
		}
		if sl, ok := v.Rhs.(*ast.Slice); ok {
			return c.applySlice(ectx, lhs, sl)
		}
		return c.applyIndex(ectx, lhs, v.Rhs)
	case token.AndWord:
		lhs, err := c.evalAndUnwrap(ectx, v.Lhs)
		if err != nil {
			return Value{}, err
		}
		if lhs.Kind != KindBool {
			return Value{}, &ConfigError{Loc: v.Loc(), Msg: "cannot and " + lhs.Kind.String() + " and ?"}
		}
		if !lhs.Bool {
			return Boolean(false), nil
		}
		rhs, err := c.evalAndUnwrap(ectx, v.Rhs)
		if err != nil {
			return Value{}, err
		}
		if rhs.Kind != KindBool {
			return Value{}, &ConfigError{Loc: v.Loc(), Msg: "cannot and " + lhs.Kind.String() + " and " + rhs.Kind.String()}
		}
		return rhs, nil
	case token.OrWord:
		lhs, err := c.evalAndUnwrap(ectx, v.Lhs)
		if err != nil {
			return Value{}, err
		}
		if lhs.Kind != KindBool {
			return Value{}, &ConfigError{Loc: v.Loc(), Msg: "cannot or " + lhs.Kind.String() + " and ?"}
		}
		if lhs.Bool {
			return Boolean(true), nil
		}
		rhs, err := c.evalAndUnwrap(ectx, v.Rhs)
		if err != nil {
			return Value{}, err
		}
		if rhs.Kind != KindBool {
			return Value{}, &ConfigError{Loc: v.Loc(), Msg: "cannot or " + lhs.Kind.String() + " and " + rhs.Kind.String()}
		}
		return rhs, nil
	default:
		lhs, err := c.evalAndUnwrap(ectx, v.Lhs)
		if err != nil {
			return Value{}, err
		}
		rhs, err := c.evalAndUnwrap(ectx, v.Rhs)
		if err != nil {
			return Value{}, err
		}
		return applyBinaryOp(v.Op, v.Loc(), lhs, rhs)
	}
}
