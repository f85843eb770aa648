// Package parser implements the recursive-descent CFG expression parser:
// one token of lookahead, precedence climbing for the operator grammar,
// and dedicated entry points for containers, mapping/list bodies, and
// dotted/subscripted/sliced paths.
package parser

import (
	"fmt"
	"strings"

	"github.com/shapestone/shape-cfg/internal/ast"
	"github.com/shapestone/shape-cfg/internal/lexer"
	"github.com/shapestone/shape-cfg/internal/source"
	"github.com/shapestone/shape-cfg/internal/token"
)

// Error is a RecognizerError: a parse failure anchored at a source
// location, with a message drawn from the fixed fragments in the grammar
// contract.
type Error struct {
	Loc token.Location
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Msg, e.Loc)
}

// Parser holds one token of lookahead over the token stream.
type Parser struct {
	lex *lexer.Lexer
	cur *token.Token
}

// New creates a Parser reading CFG source from stream.
func New(stream *source.Stream) (*Parser, error) {
	p := &Parser{lex: lexer.New(stream)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) skipNewlines() error {
	for p.cur.Kind == token.Newline {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) expect(k token.Kind) (*token.Token, error) {
	if p.cur.Kind != k {
		return nil, &Error{Loc: p.cur.Start, Msg: fmt.Sprintf("expected %s but got %s", k, p.cur.Kind)}
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	return tok, nil
}

// Container parses the top-level document: optional leading newlines,
// then a braced mapping, a bracketed list, or a bare (brace-less) mapping
// body.
func (p *Parser) Container() (ast.Node, error) {
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	switch p.cur.Kind {
	case token.LeftCurly:
		return p.Mapping()
	case token.LeftBracket:
		return p.List()
	case token.EOF:
		return ast.NewMapping(p.cur.Start, nil), nil
	default:
		m, err := p.MappingBody(token.EOF)
		if err != nil {
			return nil, err
		}
		if p.cur.Kind != token.EOF {
			return nil, &Error{Loc: p.cur.Start, Msg: "unexpected token for container: " + string(p.cur.Kind)}
		}
		return m, nil
	}
}

// Mapping parses a brace-delimited mapping: { ... }.
func (p *Parser) Mapping() (ast.Node, error) {
	start := p.cur.Start
	if _, err := p.expect(token.LeftCurly); err != nil {
		return nil, err
	}
	m, err := p.MappingBody(token.RightCurly)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RightCurly); err != nil {
		return nil, err
	}
	if mm, ok := m.(*ast.Mapping); ok {
		mm.AtLoc = start
	}
	return m, nil
}

// MappingBody parses (key (":"|"=") expr) pairs separated by newline or
// comma, stopping when terminator is seen.
func (p *Parser) MappingBody(terminator token.Kind) (ast.Node, error) {
	start := p.cur.Start
	var entries []ast.MappingEntry

	if err := p.skipSeparators(); err != nil {
		return nil, err
	}

	for p.cur.Kind != terminator && p.cur.Kind != token.EOF {
		keyTok, err := p.parseKey()
		if err != nil {
			return nil, err
		}

		if p.cur.Kind != token.Colon && p.cur.Kind != token.Assign {
			return nil, &Error{Loc: p.cur.Start, Msg: "expected key-value separator, found " + string(p.cur.Kind)}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		if err := p.skipInlineNewlines(); err != nil {
			return nil, err
		}

		value, err := p.Expr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.MappingEntry{Key: keyTok, Value: value})

		if p.cur.Kind != token.Comma && p.cur.Kind != token.Newline && p.cur.Kind != terminator && p.cur.Kind != token.EOF {
			return nil, &Error{Loc: p.cur.Start, Msg: "unexpected following value: " + string(p.cur.Kind)}
		}
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
	}

	return ast.NewMapping(start, entries), nil
}

// parseKey consumes a mapping key: a Word, or one or more adjacent
// StringTokens concatenated into a single synthetic token.
func (p *Parser) parseKey() (*token.Token, error) {
	if p.cur.Kind != token.Word && p.cur.Kind != token.StringToken {
		return nil, &Error{Loc: p.cur.Start, Msg: "unexpected type for key: " + string(p.cur.Kind)}
	}
	key := *p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	if key.Kind == token.StringToken {
		var text strings.Builder
		text.WriteString(key.Text)
		for p.cur.Kind == token.StringToken {
			text.WriteString(p.cur.Text)
			key.End = p.cur.End
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		key.Text = text.String()
		key.Value = key.Text
	}
	return &key, nil
}

// skipSeparators consumes any run of newlines and commas.
func (p *Parser) skipSeparators() error {
	for p.cur.Kind == token.Newline || p.cur.Kind == token.Comma {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

// skipInlineNewlines consumes newlines appearing where a value is
// expected (e.g. after ':' before the value starts on the next line).
func (p *Parser) skipInlineNewlines() error {
	for p.cur.Kind == token.Newline {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

// List parses a bracket-delimited list: [ ... ].
func (p *Parser) List() (ast.Node, error) {
	start := p.cur.Start
	if _, err := p.expect(token.LeftBracket); err != nil {
		return nil, err
	}

	var elements []ast.Node
	if err := p.skipSeparators(); err != nil {
		return nil, err
	}

	for p.cur.Kind != token.RightBracket && p.cur.Kind != token.EOF {
		if !startsExpr(p.cur.Kind) {
			break
		}
		el, err := p.Expr()
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)

		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.RightBracket); err != nil {
		return nil, err
	}
	return &ast.List{Elements: elements, AtLoc: start}, nil
}

func startsExpr(k token.Kind) bool {
	switch k {
	case token.IntegerNumber, token.FloatNumber, token.Complex, token.StringToken,
		token.BackTick, token.TrueToken, token.FalseToken, token.NoneToken, token.Word,
		token.LeftCurly, token.LeftBracket, token.LeftParenthesis,
		token.Plus, token.Minus, token.BitwiseComplement, token.At, token.Dollar, token.NotWord:
		return true
	default:
		return false
	}
}
