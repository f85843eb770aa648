// Package token defines the lexical tokens produced by the CFG tokenizer.
package token

import "fmt"

// Location identifies a (line, column) position in a source stream. Lines
// and columns are both 1-based.
type Location struct {
	Line   int
	Column int
}

// String renders the location as "(line, column)", matching the form used
// in error messages throughout the tokenizer, parser and evaluator.
func (l Location) String() string {
	return fmt.Sprintf("(%d, %d)", l.Line, l.Column)
}

// Before reports whether l occurs strictly before o in source order.
func (l Location) Before(o Location) bool {
	if l.Line != o.Line {
		return l.Line < o.Line
	}
	return l.Column < o.Column
}

// Kind is a closed set of token classifications.
type Kind string

const (
	EOF     Kind = "EOF"
	Word    Kind = "Word"
	Newline Kind = "Newline"
	Error   Kind = "Error"

	IntegerNumber Kind = "IntegerNumber"
	FloatNumber   Kind = "FloatNumber"
	Complex       Kind = "Complex"
	StringToken   Kind = "StringToken"
	BackTick      Kind = "BackTick"

	TrueToken  Kind = "True"
	FalseToken Kind = "False"
	NoneToken  Kind = "None"

	// Keyword operator words. These are tokenized as words with reserved
	// text but carry their own kind so the parser doesn't need to compare
	// strings.
	IsWord  Kind = "Is"
	InWord  Kind = "In"
	NotWord Kind = "Not"
	AndWord Kind = "And"
	OrWord  Kind = "Or"

	// Punctuation and single/multi-character operators.
	Colon               Kind = "Colon"
	Minus               Kind = "Minus"
	Plus                Kind = "Plus"
	Star                Kind = "Star"
	Slash               Kind = "Slash"
	Modulo              Kind = "Modulo"
	Comma               Kind = "Comma"
	Dot                 Kind = "Dot"
	LeftCurly           Kind = "LeftCurly"
	RightCurly          Kind = "RightCurly"
	LeftBracket         Kind = "LeftBracket"
	RightBracket        Kind = "RightBracket"
	LeftParenthesis     Kind = "LeftParenthesis"
	RightParenthesis    Kind = "RightParenthesis"
	At                  Kind = "At"
	Assign              Kind = "Assign"
	Dollar              Kind = "Dollar"
	LessThan            Kind = "LessThan"
	GreaterThan         Kind = "GreaterThan"
	Not                 Kind = "Not"
	BitwiseComplement   Kind = "BitwiseComplement"
	BitwiseAnd          Kind = "BitwiseAnd"
	BitwiseOr           Kind = "BitwiseOr"
	BitwiseXor          Kind = "BitwiseXor"
	Equal               Kind = "Equal"
	Unequal             Kind = "Unequal"
	AltUnequal          Kind = "AltUnequal"
	LessThanOrEqual     Kind = "LessThanOrEqual"
	GreaterThanOrEqual  Kind = "GreaterThanOrEqual"
	LeftShift           Kind = "LeftShift"
	RightShift          Kind = "RightShift"
	Power               Kind = "Power"
	SlashSlash          Kind = "SlashSlash"
	LogicalAnd          Kind = "LogicalAnd"
	LogicalOr           Kind = "LogicalOr"

	// Synthetic comparison kinds produced by the parser for the two-word
	// operators "is not" and "not in". No tokenizer ever emits these.
	IsNot Kind = "IsNot"
	NotIn Kind = "NotIn"
)

// Token is a lexical unit with its text (the decoded content for string
// and back-tick literals), decoded value, kind and the inclusive
// [Start, End] source range it occupies: End is the location of its last
// character.
type Token struct {
	Kind  Kind
	Text  string
	Value interface{}
	Start Location
	End   Location
}

// Keywords maps reserved word text to its token kind. Anything else scanned
// as a Word stays a Word.
var Keywords = map[string]Kind{
	"true":  TrueToken,
	"false": FalseToken,
	"null":  NoneToken,
	"is":    IsWord,
	"in":    InWord,
	"not":   NotWord,
	"and":   AndWord,
	"or":    OrWord,
}

func (t *Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Start)
}
