// Package source provides the character stream the tokenizer reads from:
// location tracking and push-back of runes layered over the UTF-8 decoder.
package source

import (
	"bufio"
	"io"

	"github.com/shapestone/shape-cfg/internal/token"
	"github.com/shapestone/shape-cfg/internal/utf8dfa"
)

type pushedRune struct {
	r   rune
	loc token.Location
}

// Stream reads runes from an underlying byte reader, tracking (line,
// column) and allowing runes to be pushed back onto the front of the
// stream, since the tokenizer occasionally needs to un-read while
// disambiguating numbers and operators.
type Stream struct {
	br      *bufio.Reader
	dec     utf8dfa.Decoder
	loc     token.Location // location of the next character to be read
	pending []pushedRune    // LIFO push-back stack
	eof     bool
}

// New wraps r as a Stream starting at (1, 1).
func New(r io.Reader) *Stream {
	return &Stream{
		br:  bufio.NewReader(r),
		loc: token.Location{Line: 1, Column: 1},
	}
}

// NextChar returns the next rune and the location it starts at. ok is
// false at a clean end of stream. err is non-nil on malformed or
// truncated UTF-8.
func (s *Stream) NextChar() (r rune, loc token.Location, ok bool, err error) {
	if n := len(s.pending); n > 0 {
		p := s.pending[n-1]
		s.pending = s.pending[:n-1]
		return p.r, p.loc, true, nil
	}

	if s.eof {
		return 0, s.loc, false, nil
	}

	for {
		b, rerr := s.br.ReadByte()
		if rerr != nil {
			if rerr == io.EOF {
				if !s.dec.AtBoundary() {
					s.eof = true
					return 0, s.loc, false, s.dec.TruncatedError()
				}
				s.eof = true
				return 0, s.loc, false, nil
			}
			return 0, s.loc, false, rerr
		}

		decoded, complete, decErr := s.dec.Feed(b)
		if decErr != nil {
			return 0, s.loc, false, decErr
		}
		if !complete {
			continue
		}

		start := s.loc
		s.advance(decoded)
		return decoded, start, true, nil
	}
}

// PushBack restores r (with its original start location) so the next call
// to NextChar returns it again.
func (s *Stream) PushBack(r rune, loc token.Location) {
	s.pending = append(s.pending, pushedRune{r: r, loc: loc})
}

// Location returns the location that the next freshly-read (non-pushed-back)
// character would start at.
func (s *Stream) Location() token.Location {
	return s.loc
}

func (s *Stream) advance(r rune) {
	if r == '\n' {
		s.loc.Line++
		s.loc.Column = 1
	} else {
		s.loc.Column++
	}
}
