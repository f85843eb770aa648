package utf8dfa

import "testing"

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeAllASCII(t *testing.T) {
	runes, err := DecodeAll([]byte("hello"))
	assertNoError(t, err)
	if string(runes) != "hello" {
		t.Errorf("got %q", string(runes))
	}
}

func TestDecodeAllMultiByte(t *testing.T) {
	src := "café 中文 \U0001F600"
	runes, err := DecodeAll([]byte(src))
	assertNoError(t, err)
	if string(runes) != src {
		t.Errorf("got %q, want %q", string(runes), src)
	}
}

func TestDecodeAllTruncated(t *testing.T) {
	_, err := DecodeAll([]byte{0xe4, 0xb8})
	if err == nil {
		t.Fatal("expected error for truncated sequence")
	}
	e, ok := err.(*Error)
	if !ok || !e.Truncated {
		t.Fatalf("expected truncated *Error, got %v (%T)", err, err)
	}
}

func TestDecodeAllInvalidByte(t *testing.T) {
	_, err := DecodeAll([]byte{0xff, 0xfe})
	if err == nil {
		t.Fatal("expected error for invalid leading byte")
	}
	e, ok := err.(*Error)
	if !ok || e.Truncated {
		t.Fatalf("expected non-truncated *Error, got %v (%T)", err, err)
	}
	if e.Byte != 0xff || e.Position != 0 {
		t.Errorf("unexpected error detail: %+v", e)
	}
}

func TestDecodeAllOverlongRejected(t *testing.T) {
	// 0xC0 0x80 is an overlong encoding of NUL and must be rejected.
	_, err := DecodeAll([]byte{0xc0, 0x80})
	if err == nil {
		t.Fatal("expected error for overlong encoding")
	}
}

func TestFeedMatchesStandardLibrary(t *testing.T) {
	src := []byte("abc éè 中文abc")
	var d Decoder
	var got []rune
	for _, b := range src {
		r, ok, err := d.Feed(b)
		assertNoError(t, err)
		if ok {
			got = append(got, r)
		}
	}
	if !d.AtBoundary() {
		t.Fatal("decoder not at boundary after complete input")
	}

	var want []rune
	for _, r := range string(src) {
		want = append(want, r)
	}
	if len(got) != len(want) {
		t.Fatalf("rune count mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("rune %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
