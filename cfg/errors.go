package cfg

import (
	"fmt"

	"github.com/shapestone/shape-cfg/internal/lexer"
	"github.com/shapestone/shape-cfg/internal/parser"
	"github.com/shapestone/shape-cfg/internal/token"
	"github.com/shapestone/shape-cfg/internal/utf8dfa"
)

// DecodeError wraps a malformed- or truncated-UTF-8 failure from the byte
// decoder.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string { return e.Cause.Error() }
func (e *DecodeError) Unwrap() error { return e.Cause }

// TokenError reports a malformed token: a bad number, an unterminated
// string, an invalid escape, or an unexpected character. It carries the
// location at which the failing token began, except for a trailing '_' in
// a number, which is reported at the number's last character.
type TokenError struct {
	Loc   token.Location
	Cause error
}

func (e *TokenError) Error() string { return e.Cause.Error() }
func (e *TokenError) Unwrap() error { return e.Cause }

// ParseError reports an unexpected token, a malformed slice/index, or an
// invalid key type. It carries the location of the offending token.
type ParseError struct {
	Loc   token.Location
	Cause error
}

func (e *ParseError) Error() string { return e.Cause.Error() }
func (e *ParseError) Unwrap() error { return e.Cause }

// ConfigError covers every evaluator-level failure: duplicate or missing
// keys, path errors, unknown variables, operator type mismatches, circular
// references, include resolution failures, and string conversion failures.
// Loc is the zero Location for whole-config errors that have no single
// anchoring position, and for duplicate-key errors, whose message already
// names both locations.
type ConfigError struct {
	Loc token.Location
	Msg string
}

func (e *ConfigError) Error() string {
	if e.Loc == (token.Location{}) {
		return e.Msg
	}
	return fmt.Sprintf("%s at %s", e.Msg, e.Loc)
}

// wrapLoadError classifies an error surfacing from the decode/tokenize/parse
// pipeline into the taxonomy above. Errors that already belong to the
// taxonomy (e.g. a ConfigError raised while evaluating an include) pass
// through unchanged.
func wrapLoadError(err error) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *DecodeError, *TokenError, *ParseError, *ConfigError:
		return err
	case *utf8dfa.Error:
		return &DecodeError{Cause: e}
	case *lexer.Error:
		return &TokenError{Loc: e.Loc, Cause: e}
	case *parser.Error:
		return &ParseError{Loc: e.Loc, Cause: e}
	default:
		return err
	}
}
