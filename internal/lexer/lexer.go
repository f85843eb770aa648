// Package lexer tokenizes CFG source text: comments, numbers in every
// supported radix, single/double/triple-quoted strings, back-tick
// literals, words and keywords, and the punctuation/operator set,
// each carrying precise start/end locations.
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shapestone/shape-cfg/internal/source"
	"github.com/shapestone/shape-cfg/internal/token"
)

// Error is a tokenizer-level failure. It carries the location at which the
// failing token began, except for a trailing '_' in a number, which is
// reported at the number's last character.
type Error struct {
	Loc token.Location
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Msg, e.Loc)
}

// Lexer produces a lazy stream of Tokens from a character Stream.
type Lexer struct {
	stream *source.Stream
}

// New creates a Lexer reading from stream.
func New(stream *source.Stream) *Lexer {
	return &Lexer{stream: stream}
}

func (l *Lexer) getChar() (rune, token.Location, bool, error) {
	return l.stream.NextChar()
}

func (l *Lexer) pushBack(r rune, loc token.Location) {
	l.stream.PushBack(r, loc)
}

// NextToken scans and returns the next token. At end of input it returns a
// token.EOF token (not an error).
func (l *Lexer) NextToken() (*token.Token, error) {
	for {
		r, start, ok, err := l.getChar()
		if err != nil {
			return nil, err
		}
		if !ok {
			return &token.Token{Kind: token.EOF, Start: start, End: start}, nil
		}

		switch {
		case r == '#':
			end := l.consumeLineComment(start)
			return &token.Token{Kind: token.Newline, Text: "#", Start: start, End: end}, nil

		case r == '\r' || r == '\n':
			end := l.consumeNewline(r, start)
			return &token.Token{Kind: token.Newline, Text: string(r), Start: start, End: end}, nil

		case r == ' ' || r == '\t':
			continue // whitespace other than newline is skipped

		case r == '\'' || r == '"':
			return l.scanString(r, start)

		case r == '`':
			return l.scanBackTick(start)

		case isWordStart(r):
			return l.scanWord(r, start)

		case isDigit(r):
			return l.scanNumber(r, start)

		case r == '.':
			next, nloc, hasNext, perr := l.getChar()
			if perr != nil {
				return nil, perr
			}
			if hasNext && isDigit(next) {
				l.pushBack(next, nloc)
				return l.scanNumber(r, start)
			}
			if hasNext {
				l.pushBack(next, nloc)
			}
			return &token.Token{Kind: token.Dot, Text: ".", Start: start, End: start}, nil

		case r == '-' || r == '+':
			next, nloc, hasNext, perr := l.getChar()
			if perr != nil {
				return nil, perr
			}
			if hasNext && (isDigit(next) || next == '.') {
				l.pushBack(next, nloc)
				return l.scanNumber(r, start)
			}
			if hasNext {
				l.pushBack(next, nloc)
			}
			if r == '-' {
				return &token.Token{Kind: token.Minus, Text: "-", Start: start, End: start}, nil
			}
			return &token.Token{Kind: token.Plus, Text: "+", Start: start, End: start}, nil

		case r == '\\':
			// Line continuation: backslash followed by CR?LF is silently
			// consumed; a bare backslash is an error.
			next, nloc, hasNext, perr := l.getChar()
			if perr != nil {
				return nil, perr
			}
			if hasNext && next == '\r' {
				n2, n2loc, has2, e2 := l.getChar()
				if e2 != nil {
					return nil, e2
				}
				if has2 && n2 == '\n' {
					continue
				}
				if has2 {
					l.pushBack(n2, n2loc)
				}
				continue
			}
			if hasNext && next == '\n' {
				continue
			}
			if hasNext {
				l.pushBack(next, nloc)
			}
			return nil, &Error{Loc: start, Msg: "unexpected character: \\"}

		default:
			return l.scanPunctuation(r, start)
		}
	}
}

func (l *Lexer) consumeLineComment(start token.Location) token.Location {
	end := start
	for {
		r, loc, ok, err := l.getChar()
		if err != nil || !ok {
			return end
		}
		if r == '\n' || r == '\r' {
			l.pushBack(r, loc)
			return end
		}
		end = loc
	}
}

func (l *Lexer) consumeNewline(first rune, start token.Location) token.Location {
	if first != '\r' {
		return start
	}
	next, loc, ok, err := l.getChar()
	if err == nil && ok && next == '\n' {
		return loc
	}
	if ok {
		l.pushBack(next, loc)
	}
	return start
}

func isWordStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isWordPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOctalDigit(r rune) bool {
	return r >= '0' && r <= '7'
}

func isBinaryDigit(r rune) bool {
	return r == '0' || r == '1'
}

// scanWord scans an identifier/keyword starting with the already-consumed
// rune first.
func (l *Lexer) scanWord(first rune, start token.Location) (*token.Token, error) {
	var b strings.Builder
	b.WriteRune(first)
	end := start

	for {
		r, loc, ok, err := l.getChar()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if !isWordPart(r) {
			l.pushBack(r, loc)
			break
		}
		b.WriteRune(r)
		end = loc
	}

	text := b.String()
	kind := token.Word
	if kw, isKeyword := token.Keywords[text]; isKeyword {
		kind = kw
	}

	var value interface{}
	switch kind {
	case token.TrueToken:
		value = true
	case token.FalseToken:
		value = false
	case token.NoneToken:
		value = nil
	default:
		value = text
	}

	return &token.Token{Kind: kind, Text: text, Value: value, Start: start, End: end}, nil
}
