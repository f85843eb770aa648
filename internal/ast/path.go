package ast

import "github.com/shapestone/shape-cfg/internal/token"

// PathStep is one Dot/Subscript/Slice link in an unpacked path.
type PathStep struct {
	Op   token.Kind // Dot or LeftBracket
	Node Node       // Literal(word) for Dot, index expression for Subscript, *Slice for Slice
}

// UnpackPath decomposes a primary expression built only from Dot and
// LeftBracket Binary trailers over a Literal(Word) head into the head
// token and its ordered steps. It returns ok=false if n is not such a
// chain.
func UnpackPath(n Node) (head *token.Token, steps []PathStep, ok bool) {
	var collect func(Node) bool
	collect = func(cur Node) bool {
		switch v := cur.(type) {
		case *Literal:
			if v.Tok.Kind != token.Word {
				return false
			}
			head = v.Tok
			return true
		case *Binary:
			if v.Op != token.Dot && v.Op != token.LeftBracket {
				return false
			}
			if !collect(v.Lhs) {
				return false
			}
			steps = append(steps, PathStep{Op: v.Op, Node: v.Rhs})
			return true
		default:
			return false
		}
	}
	if !collect(n) {
		return nil, nil, false
	}
	return head, steps, true
}
