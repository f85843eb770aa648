package cfg

import (
	"github.com/shapestone/shape-cfg/internal/ast"
	"github.com/shapestone/shape-cfg/internal/parser"
	"github.com/shapestone/shape-cfg/internal/token"
)

// Path is an opaque parsed path expression: a Word head followed by zero or
// more dot/subscript/slice steps, as produced by ParsePath and consumed by
// UnpackPath/ToSource.
type Path struct {
	node ast.Node
}

// PathOp classifies one step of an unpacked Path.
type PathOp int

const (
	PathDot PathOp = iota
	PathIndex
	PathSlice
)

// PathStep is one Dot/Index/Slice link of an unpacked Path.
type PathStep struct {
	Op PathOp
	// Name is set for PathDot.
	Name string
	// Index, if Op is PathIndex, is the raw index expression source text.
	Index string
	// Start, Stop, Step hold the slice bound source texts when Op is
	// PathSlice; an empty string means that bound was omitted.
	Start, Stop, StepText string
}

// ParsePath parses text as a standalone path: a Word followed by zero or
// more ".word" / "[index]" / "[slice]" trailers.
func ParsePath(text string) (Path, error) {
	node, err := parser.ParsePath(text)
	if err != nil {
		return Path{}, wrapLoadError(err)
	}
	return Path{node: node}, nil
}

// UnpackPath decomposes p into its head identifier and ordered steps.
func UnpackPath(p Path) (head string, steps []PathStep, err error) {
	headTok, astSteps, ok := ast.UnpackPath(p.node)
	if !ok {
		return "", nil, &ConfigError{Msg: "invalid path"}
	}
	out := make([]PathStep, 0, len(astSteps))
	for _, s := range astSteps {
		switch s.Op {
		case token.Dot:
			lit, _ := s.Node.(*ast.Literal)
			out = append(out, PathStep{Op: PathDot, Name: lit.Tok.Text})
		case token.LeftBracket:
			if sl, ok := s.Node.(*ast.Slice); ok {
				step := PathStep{Op: PathSlice}
				if sl.Start != nil {
					step.Start = ast.ToSource(sl.Start)
				}
				if sl.Stop != nil {
					step.Stop = ast.ToSource(sl.Stop)
				}
				if sl.Step != nil {
					step.StepText = ast.ToSource(sl.Step)
				}
				out = append(out, step)
			} else {
				out = append(out, PathStep{Op: PathIndex, Index: ast.ToSource(s.Node)})
			}
		}
	}
	return headTok.Text, out, nil
}

// ToSource renders p back into CFG-like source text. The result re-parses
// with ParsePath when every index and slice bound is a literal or a path;
// operators inside an index or bound render as token kind names, which
// ParsePath rejects.
func ToSource(p Path) string {
	return ast.ToSource(p.node)
}
