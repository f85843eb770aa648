package lexer

import (
	"strings"

	"github.com/shapestone/shape-cfg/internal/token"
)

// scanString scans a single- or triple-quoted string literal. quote is the
// opening quote character, already consumed, starting at start.
func (l *Lexer) scanString(quote rune, start token.Location) (*token.Token, error) {
	triple, err := l.isTripleQuote(quote)
	if err != nil {
		return nil, err
	}

	var raw strings.Builder
	raw.WriteRune(quote)
	if triple {
		raw.WriteRune(quote)
		raw.WriteRune(quote)
	}

	var content strings.Builder
	end := start
	escaped := false

	for {
		r, loc, ok, err := l.getChar()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &Error{Loc: start, Msg: "unterminated quoted string: " + raw.String()}
		}

		if !triple {
			raw.WriteRune(r)
			if r == '\n' || r == '\r' {
				return nil, &Error{Loc: start, Msg: "unterminated quoted string: " + raw.String()}
			}
			if escaped {
				escaped = false
				content.WriteRune('\\')
				content.WriteRune(r)
				end = loc
				continue
			}
			if r == '\\' {
				escaped = true
				end = loc
				continue
			}
			if r == quote {
				end = loc
				break
			}
			content.WriteRune(r)
			end = loc
			continue
		}

		// Triple-quoted: may span lines; terminates on three consecutive
		// unescaped quote runes.
		raw.WriteRune(r)
		if escaped {
			escaped = false
			content.WriteRune('\\')
			content.WriteRune(r)
			end = loc
			continue
		}
		if r == '\\' {
			escaped = true
			end = loc
			continue
		}
		if r == quote {
			second, loc2, ok2, err2 := l.getChar()
			if err2 != nil {
				return nil, err2
			}
			if ok2 && second == quote {
				third, loc3, ok3, err3 := l.getChar()
				if err3 != nil {
					return nil, err3
				}
				if ok3 && third == quote {
					end = loc3
					break
				}
				// Not a terminator: the first two quotes are content.
				content.WriteRune(quote)
				content.WriteRune(quote)
				if ok3 {
					l.pushBack(third, loc3)
				}
				end = loc2
				continue
			}
			content.WriteRune(quote)
			if ok2 {
				l.pushBack(second, loc2)
			}
			end = loc
			continue
		}
		content.WriteRune(r)
		end = loc
	}

	decoded, derr := decodeEscapes(content.String())
	if derr != nil {
		return nil, &Error{Loc: start, Msg: "invalid escape sequence in: " + content.String()}
	}

	return &token.Token{Kind: token.StringToken, Text: decoded, Value: decoded, Start: start, End: end}, nil
}

// isTripleQuote peeks ahead (pushing back what it reads) to determine
// whether the two runes following the already-consumed opening quote are
// also the quote character.
func (l *Lexer) isTripleQuote(quote rune) (bool, error) {
	r1, loc1, ok1, err := l.getChar()
	if err != nil {
		return false, err
	}
	if !ok1 || r1 != quote {
		if ok1 {
			l.pushBack(r1, loc1)
		}
		return false, nil
	}
	r2, loc2, ok2, err := l.getChar()
	if err != nil {
		return false, err
	}
	if !ok2 || r2 != quote {
		if ok2 {
			l.pushBack(r2, loc2)
		}
		l.pushBack(r1, loc1)
		return false, nil
	}
	return true, nil
}

// scanBackTick scans a back-tick literal: `...`. Newline or EOF before the
// closing back-tick is an error. Contents are escape-decoded the same way
// as quoted strings.
func (l *Lexer) scanBackTick(start token.Location) (*token.Token, error) {
	var raw strings.Builder
	raw.WriteRune('`')
	var content strings.Builder
	escaped := false
	end := start

	for {
		r, loc, ok, err := l.getChar()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &Error{Loc: start, Msg: "unterminated quoted string: " + raw.String()}
		}
		raw.WriteRune(r)
		if r == '\n' && !escaped {
			return nil, &Error{Loc: start, Msg: "unterminated quoted string: " + raw.String()}
		}
		if escaped {
			escaped = false
			content.WriteRune('\\')
			content.WriteRune(r)
			end = loc
			continue
		}
		if r == '\\' {
			escaped = true
			end = loc
			continue
		}
		if r == '`' {
			end = loc
			break
		}
		content.WriteRune(r)
		end = loc
	}

	decoded, derr := decodeEscapes(content.String())
	if derr != nil {
		return nil, &Error{Loc: start, Msg: "invalid escape sequence in: " + content.String()}
	}

	return &token.Token{Kind: token.BackTick, Text: decoded, Value: decoded, Start: start, End: end}, nil
}
