package parser

import (
	"strings"

	"github.com/shapestone/shape-cfg/internal/ast"
	"github.com/shapestone/shape-cfg/internal/source"
	"github.com/shapestone/shape-cfg/internal/token"
)

// ParsePath parses s as a standalone path expression: a Word followed by
// zero or more ".word" / "[index]" / "[slice]" trailers. The source must
// begin with a Word and no trailing tokens may remain.
func ParsePath(s string) (ast.Node, error) {
	p, err := New(source.New(strings.NewReader(s)))
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == token.EOF {
		return nil, &Error{Loc: p.cur.Start, Msg: "expected Word but got EOF"}
	}
	if p.cur.Kind != token.Word {
		return nil, &Error{Loc: p.cur.Start, Msg: "invalid path: " + s}
	}
	n, err := p.Primary()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.EOF {
		return nil, &Error{Loc: p.cur.Start, Msg: "invalid path: " + s}
	}
	return n, nil
}
