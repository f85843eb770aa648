package cfg

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/shapestone/shape-cfg/internal/token"
)

func applyUnaryOp(op token.Kind, loc token.Location, v Value) (Value, error) {
	switch op {
	case token.Plus:
		switch v.Kind {
		case KindInteger, KindFloat, KindComplex:
			return v, nil
		}
	case token.Minus:
		switch v.Kind {
		case KindInteger:
			return Integer(-v.Int), nil
		case KindFloat:
			return Float(-v.Float), nil
		case KindComplex:
			return Value{Kind: KindComplex, Complex: -v.Complex}, nil
		}
	case token.BitwiseComplement:
		if v.Kind == KindInteger {
			return Integer(^v.Int), nil
		}
	}
	return Value{}, &ConfigError{Loc: loc, Msg: fmt.Sprintf("cannot apply %s to %s", unaryOpName(op), v.Kind)}
}

func unaryOpName(op token.Kind) string {
	switch op {
	case token.Plus:
		return "unary +"
	case token.Minus:
		return "unary -"
	case token.BitwiseComplement:
		return "~"
	default:
		return string(op)
	}
}

type opInfo struct {
	verb, prep string
}

var binOpInfo = map[token.Kind]opInfo{
	token.Plus:        {"add", "and"},
	token.Minus:       {"subtract", "from"},
	token.Star:        {"multiply", "by"},
	token.Slash:       {"divide", "by"},
	token.SlashSlash:  {"floor-divide", "by"},
	token.Modulo:      {"modulo", "by"},
	token.Power:       {"raise", "by"},
	token.LeftShift:   {"shift", "by"},
	token.RightShift:  {"shift", "by"},
	token.BitwiseAnd:  {"and", "and"},
	token.BitwiseOr:   {"or", "and"},
	token.BitwiseXor:  {"xor", "and"},
	token.InWord:      {"test", "in"},
}

func mismatchError(op token.Kind, loc token.Location, lhs, rhs Kind) error {
	info, ok := binOpInfo[op]
	if !ok {
		info = opInfo{string(op), "and"}
	}
	if op == token.Minus {
		return &ConfigError{Loc: loc, Msg: fmt.Sprintf("cannot %s %s %s %s", info.verb, rhs, info.prep, lhs)}
	}
	return &ConfigError{Loc: loc, Msg: fmt.Sprintf("cannot %s %s %s %s", info.verb, lhs, info.prep, rhs)}
}

// applyBinaryOp evaluates every binary operator other than Dot, LeftBracket,
// AndWord and OrWord (handled specially by the caller for short-circuiting
// and container access).
func applyBinaryOp(op token.Kind, loc token.Location, lhs, rhs Value) (Value, error) {
	switch op {
	case token.Plus:
		return opAdd(loc, lhs, rhs)
	case token.Minus:
		return opSub(loc, lhs, rhs)
	case token.Star:
		return opMul(loc, lhs, rhs)
	case token.Slash:
		return opDiv(loc, lhs, rhs)
	case token.SlashSlash:
		return opFloorDiv(loc, lhs, rhs)
	case token.Modulo:
		return opMod(loc, lhs, rhs)
	case token.Power:
		return opPow(loc, lhs, rhs)
	case token.LeftShift, token.RightShift:
		return opShift(op, loc, lhs, rhs)
	case token.BitwiseAnd, token.BitwiseOr, token.BitwiseXor:
		return opBitwise(op, loc, lhs, rhs)
	case token.LessThan, token.LessThanOrEqual, token.GreaterThan, token.GreaterThanOrEqual:
		return opOrder(op, loc, lhs, rhs)
	case token.Equal:
		return Boolean(valuesEqual(lhs, rhs)), nil
	case token.Unequal, token.AltUnequal:
		return Boolean(!valuesEqual(lhs, rhs)), nil
	case token.IsWord:
		return Boolean(valuesEqual(lhs, rhs)), nil
	case token.IsNot:
		return Boolean(!valuesEqual(lhs, rhs)), nil
	case token.InWord:
		return opIn(loc, lhs, rhs, false)
	case token.NotIn:
		return opIn(loc, lhs, rhs, true)
	default:
		return Value{}, &ConfigError{Loc: loc, Msg: "unsupported operator: " + string(op)}
	}
}

func numericPair(lhs, rhs Value) (isComplex, isFloat bool, ok bool) {
	numeric := func(k Kind) bool { return k == KindInteger || k == KindFloat || k == KindComplex }
	if !numeric(lhs.Kind) || !numeric(rhs.Kind) {
		return false, false, false
	}
	if lhs.Kind == KindComplex || rhs.Kind == KindComplex {
		return true, false, true
	}
	if lhs.Kind == KindFloat || rhs.Kind == KindFloat {
		return false, true, true
	}
	return false, false, true
}

func asComplex(v Value) complex128 {
	switch v.Kind {
	case KindComplex:
		return v.Complex
	case KindFloat:
		return complex(v.Float, 0)
	default:
		return complex(float64(v.Int), 0)
	}
}

func asFloat(v Value) float64 {
	switch v.Kind {
	case KindFloat:
		return v.Float
	default:
		return float64(v.Int)
	}
}

func opAdd(loc token.Location, lhs, rhs Value) (Value, error) {
	if lhs.Kind == KindString && rhs.Kind == KindString {
		return String(lhs.Str + rhs.Str), nil
	}
	if lhs.Kind == KindList && rhs.Kind == KindList {
		out := make([]Value, 0, len(lhs.List)+len(rhs.List))
		out = append(out, lhs.List...)
		out = append(out, rhs.List...)
		return Value{Kind: KindList, List: out}, nil
	}
	if lhs.Kind == KindMapping && rhs.Kind == KindMapping {
		return Value{Kind: KindMapping, Mapping: deepMerge(lhs.Mapping, rhs.Mapping)}, nil
	}
	if isComplex, isFloat, ok := numericPair(lhs, rhs); ok {
		switch {
		case isComplex:
			return Value{Kind: KindComplex, Complex: asComplex(lhs) + asComplex(rhs)}, nil
		case isFloat:
			return Float(asFloat(lhs) + asFloat(rhs)), nil
		default:
			return Integer(lhs.Int + rhs.Int), nil
		}
	}
	return Value{}, mismatchError(token.Plus, loc, lhs.Kind, rhs.Kind)
}

// deepMerge returns a new OrderedMap combining a and b: keys unique to
// either side pass through, keys present in both recurse if both values are
// mappings, otherwise b's value overrides a's.
func deepMerge(a, b *OrderedMap) *OrderedMap {
	out := NewOrderedMap()
	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		out.Set(k, av)
	}
	for _, k := range b.Keys() {
		bv, _ := b.Get(k)
		if av, exists := out.Get(k); exists && av.Kind == KindMapping && bv.Kind == KindMapping {
			out.Set(k, Value{Kind: KindMapping, Mapping: deepMerge(av.Mapping, bv.Mapping)})
		} else {
			out.Set(k, bv)
		}
	}
	return out
}

func opSub(loc token.Location, lhs, rhs Value) (Value, error) {
	if lhs.Kind == KindMapping && rhs.Kind == KindMapping {
		out := lhs.Mapping.Clone()
		for _, k := range rhs.Mapping.Keys() {
			out.Delete(k)
		}
		return Value{Kind: KindMapping, Mapping: out}, nil
	}
	if isComplex, isFloat, ok := numericPair(lhs, rhs); ok {
		switch {
		case isComplex:
			return Value{Kind: KindComplex, Complex: asComplex(lhs) - asComplex(rhs)}, nil
		case isFloat:
			return Float(asFloat(lhs) - asFloat(rhs)), nil
		default:
			return Integer(lhs.Int - rhs.Int), nil
		}
	}
	return Value{}, mismatchError(token.Minus, loc, lhs.Kind, rhs.Kind)
}

func opMul(loc token.Location, lhs, rhs Value) (Value, error) {
	if isComplex, isFloat, ok := numericPair(lhs, rhs); ok {
		switch {
		case isComplex:
			return Value{Kind: KindComplex, Complex: asComplex(lhs) * asComplex(rhs)}, nil
		case isFloat:
			return Float(asFloat(lhs) * asFloat(rhs)), nil
		default:
			return Integer(lhs.Int * rhs.Int), nil
		}
	}
	return Value{}, mismatchError(token.Star, loc, lhs.Kind, rhs.Kind)
}

func opDiv(loc token.Location, lhs, rhs Value) (Value, error) {
	if isComplex, _, ok := numericPair(lhs, rhs); ok {
		if isComplex {
			return Value{Kind: KindComplex, Complex: asComplex(lhs) / asComplex(rhs)}, nil
		}
		return Float(asFloat(lhs) / asFloat(rhs)), nil
	}
	return Value{}, mismatchError(token.Slash, loc, lhs.Kind, rhs.Kind)
}

func opFloorDiv(loc token.Location, lhs, rhs Value) (Value, error) {
	if lhs.Kind != KindInteger || rhs.Kind != KindInteger {
		return Value{}, mismatchError(token.SlashSlash, loc, lhs.Kind, rhs.Kind)
	}
	if rhs.Int == 0 {
		return Value{}, &ConfigError{Loc: loc, Msg: "division by zero"}
	}
	q := lhs.Int / rhs.Int
	if (lhs.Int%rhs.Int != 0) && ((lhs.Int < 0) != (rhs.Int < 0)) {
		q--
	}
	return Integer(q), nil
}

func opMod(loc token.Location, lhs, rhs Value) (Value, error) {
	if lhs.Kind != KindInteger || rhs.Kind != KindInteger {
		return Value{}, mismatchError(token.Modulo, loc, lhs.Kind, rhs.Kind)
	}
	if rhs.Int == 0 {
		return Value{}, &ConfigError{Loc: loc, Msg: "division by zero"}
	}
	m := lhs.Int % rhs.Int
	if m != 0 && (m < 0) != (rhs.Int < 0) {
		m += rhs.Int
	}
	return Integer(m), nil
}

func opPow(loc token.Location, lhs, rhs Value) (Value, error) {
	if lhs.Kind == KindComplex || rhs.Kind == KindComplex {
		if isComplex, _, ok := numericPair(lhs, rhs); ok && isComplex {
			return Value{Kind: KindComplex, Complex: cmplx.Pow(asComplex(lhs), asComplex(rhs))}, nil
		}
		return Value{}, mismatchError(token.Power, loc, lhs.Kind, rhs.Kind)
	}
	if lhs.Kind == KindInteger && rhs.Kind == KindInteger && rhs.Int >= 0 {
		return Integer(intPow(lhs.Int, rhs.Int)), nil
	}
	if _, _, ok := numericPair(lhs, rhs); ok {
		return Float(math.Pow(asFloat(lhs), asFloat(rhs))), nil
	}
	return Value{}, mismatchError(token.Power, loc, lhs.Kind, rhs.Kind)
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func opShift(op token.Kind, loc token.Location, lhs, rhs Value) (Value, error) {
	if lhs.Kind != KindInteger || rhs.Kind != KindInteger {
		return Value{}, mismatchError(op, loc, lhs.Kind, rhs.Kind)
	}
	if op == token.LeftShift {
		return Integer(lhs.Int << uint(rhs.Int)), nil
	}
	return Integer(lhs.Int >> uint(rhs.Int)), nil
}

func opBitwise(op token.Kind, loc token.Location, lhs, rhs Value) (Value, error) {
	if op == token.BitwiseOr && lhs.Kind == KindMapping && rhs.Kind == KindMapping {
		return Value{Kind: KindMapping, Mapping: deepMerge(lhs.Mapping, rhs.Mapping)}, nil
	}
	if lhs.Kind != KindInteger || rhs.Kind != KindInteger {
		return Value{}, mismatchError(op, loc, lhs.Kind, rhs.Kind)
	}
	switch op {
	case token.BitwiseAnd:
		return Integer(lhs.Int & rhs.Int), nil
	case token.BitwiseOr:
		return Integer(lhs.Int | rhs.Int), nil
	default:
		return Integer(lhs.Int ^ rhs.Int), nil
	}
}

func opOrder(op token.Kind, loc token.Location, lhs, rhs Value) (Value, error) {
	var cmp int
	switch {
	case lhs.Kind == KindString && rhs.Kind == KindString:
		cmp = strings.Compare(lhs.Str, rhs.Str)
	default:
		if _, _, ok := numericPair(lhs, rhs); ok && lhs.Kind != KindComplex && rhs.Kind != KindComplex {
			a, b := asFloat(lhs), asFloat(rhs)
			switch {
			case a < b:
				cmp = -1
			case a > b:
				cmp = 1
			default:
				cmp = 0
			}
		} else {
			return Value{}, mismatchError(op, loc, lhs.Kind, rhs.Kind)
		}
	}
	switch op {
	case token.LessThan:
		return Boolean(cmp < 0), nil
	case token.LessThanOrEqual:
		return Boolean(cmp <= 0), nil
	case token.GreaterThan:
		return Boolean(cmp > 0), nil
	default:
		return Boolean(cmp >= 0), nil
	}
}

func opIn(loc token.Location, lhs, rhs Value, negate bool) (Value, error) {
	var found bool
	switch rhs.Kind {
	case KindString:
		if lhs.Kind != KindString {
			return Value{}, mismatchError(token.InWord, loc, lhs.Kind, rhs.Kind)
		}
		found = strings.Contains(rhs.Str, lhs.Str)
	case KindList:
		for _, el := range rhs.List {
			if valuesEqual(lhs, el) {
				found = true
				break
			}
		}
	case KindMapping:
		if lhs.Kind != KindString {
			return Value{}, mismatchError(token.InWord, loc, lhs.Kind, rhs.Kind)
		}
		_, found = rhs.Mapping.Get(lhs.Str)
	default:
		return Value{}, mismatchError(token.InWord, loc, lhs.Kind, rhs.Kind)
	}
	if negate {
		found = !found
	}
	return Boolean(found), nil
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		if _, _, ok := numericPair(a, b); ok {
			return asComplex(a) == asComplex(b)
		}
		return false
	}
	switch a.Kind {
	case KindInteger:
		return a.Int == b.Int
	case KindFloat:
		return a.Float == b.Float
	case KindComplex:
		return a.Complex == b.Complex
	case KindBool:
		return a.Bool == b.Bool
	case KindNone:
		return true
	case KindString:
		return a.Str == b.Str
	case KindDateTime:
		return a.Time.String() == b.Time.String()
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !valuesEqual(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if a.Mapping.Len() != b.Mapping.Len() {
			return false
		}
		for _, k := range a.Mapping.Keys() {
			av, _ := a.Mapping.Get(k)
			bv, ok := b.Mapping.Get(k)
			if !ok || !valuesEqual(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
