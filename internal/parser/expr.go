package parser

import (
	"fmt"

	"github.com/shapestone/shape-cfg/internal/ast"
	"github.com/shapestone/shape-cfg/internal/token"
)

// Expr parses the full expression grammar, lowest precedence first:
// or, and, not, comparison, bitor, bitxor, bitand, shift, add, mul, unary,
// power, primary.
func (p *Parser) Expr() (ast.Node, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Node, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.OrWord {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Op: token.OrWord, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseAnd() (ast.Node, error) {
	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.AndWord {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Op: token.AndWord, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseNot() (ast.Node, error) {
	if p.cur.Kind == token.NotWord {
		start := p.cur.Start
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: token.NotWord, OpStart: start, Operand: operand}, nil
	}
	return p.parseComparison()
}

// compOps enumerates the tokens that can start a comparison operator.
var compOps = map[token.Kind]bool{
	token.LessThan: true, token.LessThanOrEqual: true,
	token.GreaterThan: true, token.GreaterThanOrEqual: true,
	token.Equal: true, token.Unequal: true, token.AltUnequal: true,
	token.IsWord: true, token.InWord: true, token.NotWord: true,
}

func (p *Parser) parseComparison() (ast.Node, error) {
	lhs, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	if !compOps[p.cur.Kind] {
		return lhs, nil
	}

	op := p.cur.Kind
	switch op {
	case token.IsWord:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == token.NotWord {
			op = token.IsNot
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	case token.InWord:
		if err := p.advance(); err != nil {
			return nil, err
		}
	case token.NotWord:
		start := p.cur.Start
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind != token.InWord {
			return nil, &Error{Loc: start, Msg: "expected In but got " + string(p.cur.Kind)}
		}
		op = token.NotIn
		if err := p.advance(); err != nil {
			return nil, err
		}
	default:
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	rhs, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Op: op, Lhs: lhs, Rhs: rhs}, nil
}

func (p *Parser) parseBitOr() (ast.Node, error) {
	lhs, err := p.parseBitXor()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.BitwiseOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseBitXor()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Op: token.BitwiseOr, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseBitXor() (ast.Node, error) {
	lhs, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.BitwiseXor {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Op: token.BitwiseXor, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseBitAnd() (ast.Node, error) {
	lhs, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.BitwiseAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Op: token.BitwiseAnd, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseShift() (ast.Node, error) {
	lhs, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.LeftShift || p.cur.Kind == token.RightShift {
		op := p.cur.Kind
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseAdd() (ast.Node, error) {
	lhs, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.Plus || p.cur.Kind == token.Minus {
		op := p.cur.Kind
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseMul() (ast.Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.Star || p.cur.Kind == token.Slash || p.cur.Kind == token.SlashSlash || p.cur.Kind == token.Modulo {
		op := p.cur.Kind
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	switch p.cur.Kind {
	case token.Plus, token.Minus, token.BitwiseComplement, token.At:
		op := p.cur.Kind
		start := p.cur.Start
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, OpStart: start, Operand: operand}, nil
	default:
		return p.parsePower()
	}
}

func (p *Parser) parsePower() (ast.Node, error) {
	base, err := p.Primary()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == token.Power {
		if err := p.advance(); err != nil {
			return nil, err
		}
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: token.Power, Lhs: base, Rhs: exp}, nil
	}
	return base, nil
}

// Primary parses atom trailer*.
func (p *Parser) Primary() (ast.Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case token.Dot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			nameTok, err := p.expect(token.Word)
			if err != nil {
				return nil, err
			}
			atom = &ast.Binary{Op: token.Dot, Lhs: atom, Rhs: &ast.Literal{Tok: nameTok}}
		case token.LeftBracket:
			start := p.cur.Start
			if err := p.advance(); err != nil {
				return nil, err
			}
			rhs, err := p.parseIndexOrSlice(start)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RightBracket); err != nil {
				return nil, err
			}
			atom = &ast.Binary{Op: token.LeftBracket, Lhs: atom, Rhs: rhs}
		default:
			return atom, nil
		}
	}
}

// parseIndexOrSlice parses the contents of "[...]": a slice if a colon is
// present at the top level, otherwise a single index expression.
func (p *Parser) parseIndexOrSlice(start token.Location) (ast.Node, error) {
	if p.cur.Kind == token.Colon {
		return p.parseSliceFrom(start, nil)
	}

	first, err := p.Expr()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == token.Colon {
		return p.parseSliceFrom(start, first)
	}

	if p.cur.Kind == token.Comma {
		count := 1
		for p.cur.Kind == token.Comma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if _, err := p.Expr(); err != nil {
				return nil, err
			}
			count++
		}
		return nil, &Error{Loc: start, Msg: fmt.Sprintf("invalid index at %s: expected 1 expression, found %d", start, count)}
	}

	return first, nil
}

func (p *Parser) parseSliceFrom(start token.Location, startExpr ast.Node) (ast.Node, error) {
	s := &ast.Slice{Start: startExpr, AtLoc: start}
	// consume ':'
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind != token.Colon && p.cur.Kind != token.RightBracket {
		stop, err := p.Expr()
		if err != nil {
			return nil, err
		}
		s.Stop = stop
	}
	if p.cur.Kind == token.Colon {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind != token.RightBracket {
			step, err := p.Expr()
			if err != nil {
				return nil, err
			}
			s.Step = step
		}
	}
	return s, nil
}

// parseAtom handles mapping/list literals, parenthesized expressions, the
// $ reference form (bare or braced), and plain value tokens.
func (p *Parser) parseAtom() (ast.Node, error) {
	switch p.cur.Kind {
	case token.LeftCurly:
		return p.Mapping()
	case token.LeftBracket:
		return p.List()
	case token.LeftParenthesis:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.Expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RightParenthesis); err != nil {
			return nil, err
		}
		return e, nil
	case token.Dollar:
		start := p.cur.Start
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == token.LeftCurly {
			if err := p.advance(); err != nil {
				return nil, err
			}
			inner, err := p.Primary()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RightCurly); err != nil {
				return nil, err
			}
			return &ast.Unary{Op: token.Dollar, OpStart: start, Operand: inner}, nil
		}
		inner, err := p.Primary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: token.Dollar, OpStart: start, Operand: inner}, nil
	case token.IntegerNumber, token.FloatNumber, token.Complex, token.StringToken,
		token.BackTick, token.TrueToken, token.FalseToken, token.NoneToken, token.Word:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		if tok.Kind == token.StringToken {
			merged := *tok
			var text string = tok.Text
			for p.cur.Kind == token.StringToken {
				text += p.cur.Text
				merged.End = p.cur.End
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
			merged.Text = text
			merged.Value = text
			return &ast.Literal{Tok: &merged}, nil
		}
		return &ast.Literal{Tok: tok}, nil
	case token.EOF:
		return nil, &Error{Loc: p.cur.Start, Msg: "unexpected when looking for value: " + string(p.cur.Kind)}
	default:
		return nil, &Error{Loc: p.cur.Start, Msg: "unexpected when looking for value: " + string(p.cur.Kind)}
	}
}
