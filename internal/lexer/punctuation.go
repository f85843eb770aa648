package lexer

import "github.com/shapestone/shape-cfg/internal/token"

// twoCharOps maps a first punctuation rune to the possible second rune and
// the combined token kind it produces, e.g. '=' + '=' -> Equal.
var twoCharOps = map[rune]map[rune]token.Kind{
	'=': {'=': token.Equal},
	'!': {'=': token.Unequal},
	'<': {'=': token.LessThanOrEqual, '<': token.LeftShift, '>': token.AltUnequal},
	'>': {'=': token.GreaterThanOrEqual, '>': token.RightShift},
	'*': {'*': token.Power},
	'/': {'/': token.SlashSlash},
	'&': {'&': token.LogicalAnd},
	'|': {'|': token.LogicalOr},
}

var singleCharOps = map[rune]token.Kind{
	':': token.Colon,
	'-': token.Minus,
	'+': token.Plus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Modulo,
	',': token.Comma,
	'.': token.Dot,
	'{': token.LeftCurly,
	'}': token.RightCurly,
	'[': token.LeftBracket,
	']': token.RightBracket,
	'(': token.LeftParenthesis,
	')': token.RightParenthesis,
	'@': token.At,
	'=': token.Assign,
	'$': token.Dollar,
	'<': token.LessThan,
	'>': token.GreaterThan,
	'!': token.Not,
	'~': token.BitwiseComplement,
	'&': token.BitwiseAnd,
	'|': token.BitwiseOr,
	'^': token.BitwiseXor,
}

// scanPunctuation scans a single operator/punctuation character, extending
// it to a two-character operator when the next character completes one.
func (l *Lexer) scanPunctuation(r rune, start token.Location) (*token.Token, error) {
	if exts, hasExt := twoCharOps[r]; hasExt {
		next, loc, ok, err := l.getChar()
		if err != nil {
			return nil, err
		}
		if ok {
			if kind, matched := exts[next]; matched {
				return &token.Token{Kind: kind, Text: string(r) + string(next), Start: start, End: loc}, nil
			}
			l.pushBack(next, loc)
		}
	}

	kind, known := singleCharOps[r]
	if !known {
		return nil, &Error{Loc: start, Msg: "unexpected character: " + string(r)}
	}
	return &token.Token{Kind: kind, Text: string(r), Start: start, End: start}, nil
}
