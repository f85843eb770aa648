package lexer

import (
	"strconv"
	"strings"

	"github.com/shapestone/shape-cfg/internal/token"
)

// numberBodyChar reports whether r can plausibly continue a numeric
// literal once scanning is underway. The caller decides what is actually
// valid for the literal's radix; this just bounds how much of the input
// is swept into the candidate text so the resulting error, if any, names
// the whole malformed literal rather than splitting it across tokens.
func numberBodyChar(prev, r rune) bool {
	if isDigit(r) || r == '_' || r == '.' {
		return true
	}
	switch r {
	case 'x', 'X', 'o', 'O', 'b', 'B', 'j', 'J', 'e', 'E',
		'a', 'A', 'c', 'C', 'd', 'D', 'f', 'F':
		return true
	case '+', '-':
		return prev == 'e' || prev == 'E'
	}
	return false
}

// scanNumber greedily collects the candidate text of a numeric literal
// (the caller has already consumed first, a digit, a leading '.', or a
// sign known to be followed by a digit or '.') and hands it to
// parseNumberText for radix-aware validation and conversion.
func (l *Lexer) scanNumber(first rune, start token.Location) (*token.Token, error) {
	raw := []rune{first}
	end := start

	for {
		r, loc, ok, err := l.getChar()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if numberBodyChar(raw[len(raw)-1], r) {
			raw = append(raw, r)
			end = loc
			continue
		}
		l.pushBack(r, loc)
		break
	}

	return parseNumberText(string(raw), start, end)
}

func parseNumberText(text string, start, end token.Location) (*token.Token, error) {
	s := text
	sign := ""
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		sign = s[:1]
		s = s[1:]
	}

	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return parseRadixLiteral(text, sign, s[2:], 16, isHexDigit, start, end)
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'o' || s[1] == 'O') {
		return parseRadixLiteral(text, sign, s[2:], 8, isOctalDigit, start, end)
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B') {
		return parseRadixLiteral(text, sign, s[2:], 2, isBinaryDigit, start, end)
	}

	isComplex := strings.HasSuffix(s, "j") || strings.HasSuffix(s, "J")
	body := s
	if isComplex {
		body = body[:len(body)-1]
	}

	if err := validateUnderscores(body, text, start, end); err != nil {
		return nil, err
	}
	for _, c := range body {
		if !isDigit(c) && c != '_' && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return nil, &Error{Loc: start, Msg: "invalid character in number: " + string(c)}
		}
	}

	cleaned := strings.ReplaceAll(body, "_", "")
	hasFraction := strings.Contains(cleaned, ".")
	hasExponent := strings.ContainsAny(cleaned, "eE")

	if isComplex {
		fv, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil, &Error{Loc: start, Msg: "invalid character in number: " + text}
		}
		if sign == "-" {
			fv = -fv
		}
		return &token.Token{Kind: token.Complex, Text: text, Value: complex(0, fv), Start: start, End: end}, nil
	}

	if hasFraction || hasExponent {
		fv, err := strconv.ParseFloat(sign+cleaned, 64)
		if err != nil {
			return nil, &Error{Loc: start, Msg: "invalid character in number: " + text}
		}
		return &token.Token{Kind: token.FloatNumber, Text: text, Value: fv, Start: start, End: end}, nil
	}

	if len(cleaned) > 1 && cleaned[0] == '0' {
		for _, c := range cleaned {
			if c == '8' || c == '9' {
				return nil, &Error{Loc: start, Msg: "badly formed octal constant: " + text}
			}
		}
		iv, err := strconv.ParseInt(cleaned, 8, 64)
		if err != nil {
			return nil, &Error{Loc: start, Msg: "badly formed octal constant: " + text}
		}
		if sign == "-" {
			iv = -iv
		}
		return &token.Token{Kind: token.IntegerNumber, Text: text, Value: iv, Start: start, End: end}, nil
	}

	iv, err := strconv.ParseInt(sign+cleaned, 10, 64)
	if err != nil {
		return nil, &Error{Loc: start, Msg: "invalid character in number: " + text}
	}
	return &token.Token{Kind: token.IntegerNumber, Text: text, Value: iv, Start: start, End: end}, nil
}

func parseRadixLiteral(text, sign, digits string, base int, valid func(rune) bool, start, end token.Location) (*token.Token, error) {
	if err := validateUnderscores(digits, text, start, end); err != nil {
		return nil, err
	}
	cleaned := strings.ReplaceAll(digits, "_", "")
	if cleaned == "" {
		return nil, &Error{Loc: start, Msg: "invalid character in number: " + text}
	}
	for _, c := range cleaned {
		if !valid(c) {
			return nil, &Error{Loc: start, Msg: "invalid character in number: " + string(c)}
		}
	}
	iv, err := strconv.ParseInt(cleaned, base, 64)
	if err != nil {
		return nil, &Error{Loc: start, Msg: "invalid character in number: " + text}
	}
	if sign == "-" {
		iv = -iv
	}
	return &token.Token{Kind: token.IntegerNumber, Text: text, Value: iv, Start: start, End: end}, nil
}

// validateUnderscores enforces that '_' separators in body are internal
// only: never leading, never doubled, never trailing.
func validateUnderscores(body, text string, start, end token.Location) error {
	for i, c := range body {
		if c != '_' {
			continue
		}
		if i == 0 {
			return &Error{Loc: start, Msg: "invalid '_' in number: " + text}
		}
		if i == len(body)-1 {
			return &Error{Loc: end, Msg: "invalid '_' at end of number: " + text}
		}
		if body[i-1] == '_' {
			return &Error{Loc: start, Msg: "invalid '_' in number: " + text}
		}
	}
	return nil
}
