// Package utf8dfa decodes a byte stream into Unicode scalar values using
// Bjoern Hoehrmann's branchless UTF-8 DFA, rather than the stdlib's
// table-free decoder, so malformed input can be reported with the exact
// byte offset and value the CFG contract requires.
package utf8dfa

import "fmt"

const (
	accept = 0
	reject = 12
)

// byteClass maps each of the 256 byte values to one of 12 equivalence
// classes used to index the transition table.
var byteClass = [256]byte{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	8, 8, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	10, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 4, 3, 3,
	11, 6, 6, 6, 5, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
}

// transition maps (state, class) to the next state. 0 is accept, 12 is
// reject; any other value is an in-progress multi-byte sequence.
var transition = [...]byte{
	0, 12, 24, 36, 60, 96, 84, 12, 12, 12, 48, 72,
	12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12,
	12, 0, 12, 12, 12, 12, 12, 0, 12, 0, 12, 12,
	12, 24, 12, 12, 12, 12, 12, 24, 12, 24, 12, 12,
	12, 12, 12, 12, 12, 12, 12, 24, 12, 12, 12, 12,
	12, 24, 12, 12, 12, 12, 12, 12, 12, 24, 12, 12,
	12, 12, 12, 12, 12, 12, 12, 36, 12, 36, 12, 12,
	12, 36, 12, 12, 12, 12, 12, 36, 12, 36, 12, 12,
	12, 36, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12,
}

// Decoder incrementally decodes bytes into runes, byte by byte, so it can
// sit behind a streaming reader without buffering the whole input.
type Decoder struct {
	state    byte
	codepoint rune
	pos      int
}

// Error reports malformed or truncated UTF-8 input. Position is the byte
// offset at which decoding failed.
type Error struct {
	Truncated bool
	Byte      byte
	Position  int
}

func (e *Error) Error() string {
	if e.Truncated {
		return "Incomplete UTF-8 data"
	}
	return fmt.Sprintf("Invalid UTF-8 data: 0x%02x at 0x%x", e.Byte, e.Position)
}

// Feed advances the DFA by one byte. It returns (r, true, nil) when a code
// point completes, (0, false, nil) when more bytes are needed, and a non-nil
// error on malformed input.
func (d *Decoder) Feed(b byte) (rune, bool, error) {
	class := byteClass[b]

	if d.state == accept {
		d.codepoint = rune(0xff >> class) & rune(b)
	} else {
		d.codepoint = rune(b&0x3f) | (d.codepoint << 6)
	}

	pos := d.pos
	d.pos++
	d.state = transition[int(d.state)+int(class)]

	switch d.state {
	case accept:
		return d.codepoint, true, nil
	case reject:
		d.state = accept
		return 0, false, &Error{Byte: b, Position: pos}
	default:
		return 0, false, nil
	}
}

// AtBoundary reports whether the decoder is not in the middle of a
// multi-byte sequence, i.e. whether ending the stream here is valid.
func (d *Decoder) AtBoundary() bool {
	return d.state == accept
}

// TruncatedError builds the error value used when the stream ends in the
// middle of a multi-byte sequence.
func (d *Decoder) TruncatedError() error {
	return &Error{Truncated: true}
}

// DecodeAll validates and decodes a complete byte slice in one pass, for
// callers that already hold the whole source in memory and want to fail
// fast on malformed UTF-8 before paying for tokenizing and parsing.
func DecodeAll(data []byte) ([]rune, error) {
	var d Decoder
	runes := make([]rune, 0, len(data))
	for _, b := range data {
		r, ok, err := d.Feed(b)
		if err != nil {
			return nil, err
		}
		if ok {
			runes = append(runes, r)
		}
	}
	if !d.AtBoundary() {
		return nil, d.TruncatedError()
	}
	return runes, nil
}
