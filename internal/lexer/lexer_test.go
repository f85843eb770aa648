package lexer

import (
	"strings"
	"testing"

	"github.com/shapestone/shape-cfg/internal/source"
	"github.com/shapestone/shape-cfg/internal/token"
)

func scanAll(t *testing.T, src string) []*token.Token {
	t.Helper()
	l := New(source.New(strings.NewReader(src)))
	var toks []*token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken() error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func scanOne(t *testing.T, src string) *token.Token {
	t.Helper()
	toks := scanAll(t, src)
	if len(toks) != 2 {
		t.Fatalf("expected exactly one token plus EOF, got %d: %v", len(toks), toks)
	}
	return toks[0]
}

func TestScanWordAndKeywords(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"foo_bar", token.Word},
		{"true", token.TrueToken},
		{"false", token.FalseToken},
		{"null", token.NoneToken},
		{"is", token.IsWord},
		{"in", token.InWord},
		{"not", token.NotWord},
		{"and", token.AndWord},
		{"or", token.OrWord},
	}
	for _, c := range cases {
		tok := scanOne(t, c.src)
		if tok.Kind != c.kind {
			t.Errorf("%q: got kind %s, want %s", c.src, tok.Kind, c.kind)
		}
	}
}

func TestScanIntegerRadixes(t *testing.T) {
	cases := []struct {
		src  string
		want int64
	}{
		{"0", 0},
		{"123", 123},
		{"1_000_000", 1000000},
		{"-42", -42},
		{"0x1F", 31},
		{"0o17", 15},
		{"0b1010", 10},
		{"0x1_F", 31},
	}
	for _, c := range cases {
		tok := scanOne(t, c.src)
		if tok.Kind != token.IntegerNumber {
			t.Fatalf("%q: got kind %s, want IntegerNumber", c.src, tok.Kind)
		}
		if tok.Value.(int64) != c.want {
			t.Errorf("%q: got %d, want %d", c.src, tok.Value.(int64), c.want)
		}
	}
}

func TestScanLegacyOctalRejectsBadDigits(t *testing.T) {
	l := New(source.New(strings.NewReader("019")))
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected error for badly formed octal constant")
	}
	if !strings.Contains(err.Error(), "badly formed octal constant") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestScanFloatAndComplex(t *testing.T) {
	tok := scanOne(t, "3.14")
	if tok.Kind != token.FloatNumber || tok.Value.(float64) != 3.14 {
		t.Errorf("got %+v", tok)
	}
	tok = scanOne(t, "1e10")
	if tok.Kind != token.FloatNumber || tok.Value.(float64) != 1e10 {
		t.Errorf("got %+v", tok)
	}
	tok = scanOne(t, "2.5j")
	if tok.Kind != token.Complex || tok.Value.(complex128) != complex(0, 2.5) {
		t.Errorf("got %+v", tok)
	}
}

func TestScanUnderscoreRulesRejected(t *testing.T) {
	for _, src := range []string{"0x_1F", "123_", "1__2"} {
		l := New(source.New(strings.NewReader(src)))
		_, err := l.NextToken()
		if err == nil {
			t.Errorf("%q: expected underscore error", src)
		}
	}
}

func TestScanStrings(t *testing.T) {
	tok := scanOne(t, `"hello"`)
	if tok.Kind != token.StringToken || tok.Value.(string) != "hello" {
		t.Errorf("got %+v", tok)
	}
	tok = scanOne(t, `'it\'s'`)
	if tok.Kind != token.StringToken || tok.Value.(string) != "it's" {
		t.Errorf("got %+v", tok)
	}
	tok = scanOne(t, "\"\"\"line1\nline2\"\"\"")
	if tok.Kind != token.StringToken || tok.Value.(string) != "line1\nline2" {
		t.Errorf("got %+v", tok)
	}
}

func TestScanUnterminatedStringErrors(t *testing.T) {
	l := New(source.New(strings.NewReader(`"unterminated`)))
	_, err := l.NextToken()
	if err == nil || !strings.Contains(err.Error(), "unterminated quoted string") {
		t.Fatalf("expected unterminated string error, got %v", err)
	}
}

func TestScanBackTick(t *testing.T) {
	tok := scanOne(t, "`2024-01-01`")
	if tok.Kind != token.BackTick || tok.Value.(string) != "2024-01-01" {
		t.Errorf("got %+v", tok)
	}
}

func TestScanBackTickUnterminated(t *testing.T) {
	l := New(source.New(strings.NewReader("`abc\n")))
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected error for unterminated back-tick literal")
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{":", token.Colon},
		{",", token.Comma},
		{"{", token.LeftCurly},
		{"}", token.RightCurly},
		{"[", token.LeftBracket},
		{"]", token.RightBracket},
		{"(", token.LeftParenthesis},
		{")", token.RightParenthesis},
		{"@", token.At},
		{"$", token.Dollar},
		{"==", token.Equal},
		{"!=", token.Unequal},
		{"<>", token.AltUnequal},
		{"<=", token.LessThanOrEqual},
		{">=", token.GreaterThanOrEqual},
		{"<<", token.LeftShift},
		{">>", token.RightShift},
		{"**", token.Power},
		{"//", token.SlashSlash},
		{"~", token.BitwiseComplement},
		{"&", token.BitwiseAnd},
		{"|", token.BitwiseOr},
		{"^", token.BitwiseXor},
	}
	for _, c := range cases {
		tok := scanOne(t, c.src)
		if tok.Kind != c.kind {
			t.Errorf("%q: got kind %s, want %s", c.src, tok.Kind, c.kind)
		}
	}
}

func TestCommentsAndNewlines(t *testing.T) {
	toks := scanAll(t, "a # comment\nb")
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.Word, token.Newline, token.Newline, token.Word, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestLocationsAreTracked(t *testing.T) {
	toks := scanAll(t, "ab\ncd")
	first := toks[0]
	if first.Start.Line != 1 || first.Start.Column != 1 {
		t.Errorf("unexpected start for first token: %+v", first.Start)
	}
	third := toks[2] // after the Word and the Newline, the second Word
	if third.Kind != token.Word {
		t.Fatalf("expected Word, got %s", third.Kind)
	}
	if third.Start.Line != 2 {
		t.Errorf("expected line 2, got %+v", third.Start)
	}
}
