package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerParsingAndRadix(t *testing.T) {
	c, err := FromSource(`
root: 1
stream: 1.7
neg: -1
posexponent: 2.0999999e-08
hexadecimal_integer: 0x123
binary_integer: 0b1000100011
octal_integer: 0o123
`)
	require.NoError(t, err)

	root, err := c.Get("root")
	require.NoError(t, err)
	assert.Equal(t, int64(1), root.Int)

	stream, err := c.Get("stream")
	require.NoError(t, err)
	assert.Equal(t, 1.7, stream.Float)

	neg, err := c.Get("neg")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), neg.Int)

	hex, err := c.Get("hexadecimal_integer")
	require.NoError(t, err)
	assert.Equal(t, int64(0x123), hex.Int)

	bin, err := c.Get("binary_integer")
	require.NoError(t, err)
	assert.Equal(t, int64(0b1000100011), bin.Int)

	oct, err := c.Get("octal_integer")
	require.NoError(t, err)
	assert.Equal(t, int64(0o123), oct.Int)
}

func TestIncludeAndMerge(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base")
	require.NoError(t, os.MkdirAll(base, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "logging.cfg"), []byte(`
appenders: {
  file: { filename: "run/server.log" }
}
`), 0o644))

	mainPath := filepath.Join(dir, "main.cfg")
	require.NoError(t, os.WriteFile(mainPath, []byte(`logging: @"logging.cfg"`), 0o644))

	c, err := FromFile(mainPath, WithIncludePath(base))
	require.NoError(t, err)

	v, err := c.Get("logging.appenders.file.filename")
	require.NoError(t, err)
	assert.Equal(t, "run/server.log", v.Str)
}

func TestSelfIncludeRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "self.cfg")
	require.NoError(t, os.WriteFile(path, []byte(`x: @"self.cfg"`), 0o644))

	c, err := FromFile(path)
	require.NoError(t, err)
	_, err = c.Get("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot include itself")
}

func TestReferenceAndInterpolation(t *testing.T) {
	c, err := FromSource(`
a: 'Hello, '
b: 'world!'
c: { greeting: ` + "`${a}${b}`" + ` }
`)
	require.NoError(t, err)

	v, err := c.Get("c.greeting")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", v.Str)
}

func TestSlicing(t *testing.T) {
	c, err := FromSource(`test_list: ['a', 'b', 'c', 'd', 'e', 'f', 'g']`)
	require.NoError(t, err)

	full, err := c.Get("test_list")
	require.NoError(t, err)
	wantFull := []string{"a", "b", "c", "d", "e", "f", "g"}

	for _, path := range []string{"test_list[:]", "test_list[::]", "test_list[:20]"} {
		v, err := c.Get(path)
		require.NoError(t, err)
		assert.Equal(t, toStrList(t, full), toStrList(t, v), "path %s", path)
		assert.Equal(t, wantFull, toStrList(t, v), "path %s", path)
	}

	v, err := c.Get("test_list[-2:2:-1]")
	require.NoError(t, err)
	assert.Equal(t, []string{"f", "e", "d"}, toStrList(t, v))

	v, err = c.Get("test_list[::-1]")
	require.NoError(t, err)
	assert.Equal(t, []string{"g", "f", "e", "d", "c", "b", "a"}, toStrList(t, v))

	v, err = c.Get("test_list[::2][::3]")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "g"}, toStrList(t, v))
}

func toStrList(t *testing.T, v Value) []string {
	t.Helper()
	require.Equal(t, KindList, v.Kind)
	out := make([]string, len(v.List))
	for i, el := range v.List {
		require.Equal(t, KindString, el.Kind)
		out[i] = el.Str
	}
	return out
}

func TestDuplicateKeys(t *testing.T) {
	_, err := FromSource("foo: 1\nbar: 2\nbaz: 3\nfoo: 4\n")
	require.Error(t, err)
	assert.Equal(t, "duplicate key foo seen at (4, 1) (previously at (1, 1))", err.Error())
}

func TestDuplicateKeysAllowedWhenDisabled(t *testing.T) {
	c, err := FromSource("foo: 1\nfoo: 2\n", WithNoDuplicates(false))
	require.NoError(t, err)
	v, err := c.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int)
}

func TestCircularReference(t *testing.T) {
	c, err := FromSource(`
circ_map: {
  a: ` + "${circ_map.b}" + `
  b: ` + "${circ_map.c}" + `
  c: ` + "${circ_map.a}" + `
}
`)
	require.NoError(t, err)

	_, err = c.Get("circ_map.a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular reference")
}

func TestAsDictIdempotent(t *testing.T) {
	c, err := FromSource("a: 1\nb: { c: 2 }\n")
	require.NoError(t, err)

	first, err := c.AsDict()
	require.NoError(t, err)
	second, err := c.AsDict()
	require.NoError(t, err)

	assert.Equal(t, first.Keys(), second.Keys())
	for _, k := range first.Keys() {
		fv, _ := first.Get(k)
		sv, _ := second.Get(k)
		assert.True(t, valuesEqual(fv, sv))
	}
}

func TestGetCacheIsStable(t *testing.T) {
	c, err := FromSource("a: 1 + 1")
	require.NoError(t, err)
	v1, err := c.Get("a")
	require.NoError(t, err)
	v2, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, v1.Int, v2.Int)
}

func TestDeepMergeAssociativity(t *testing.T) {
	a := NewOrderedMap()
	a.Set("x", Integer(1))
	b := NewOrderedMap()
	b.Set("y", Integer(2))
	cc := NewOrderedMap()
	cc.Set("z", Integer(3))

	left := deepMerge(deepMerge(a, b), cc)
	right := deepMerge(a, deepMerge(b, cc))

	assert.Equal(t, left.Keys(), right.Keys())
	for _, k := range left.Keys() {
		lv, _ := left.Get(k)
		rv, _ := right.Get(k)
		assert.True(t, valuesEqual(lv, rv))
	}
}

func TestGetWithDefaultOnMissingKey(t *testing.T) {
	c, err := FromSource("a: 1")
	require.NoError(t, err)
	v, err := c.Get("missing", Integer(99))
	require.NoError(t, err)
	assert.Equal(t, int64(99), v.Int)
}

func TestOperatorMismatchMessage(t *testing.T) {
	c, err := FromSource(`v: "a" - 1`)
	require.NoError(t, err)
	_, err = c.Get("v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot subtract integer from string")
}

func TestEnvironmentBackTick(t *testing.T) {
	require.NoError(t, os.Setenv("CFG_TEST_VAR", "set-value"))
	defer os.Unsetenv("CFG_TEST_VAR")

	c, err := FromSource("v: `$CFG_TEST_VAR`\nd: `$CFG_TEST_MISSING|fallback`\nn: `$CFG_TEST_MISSING_NO_DEFAULT`")
	require.NoError(t, err)

	v, err := c.Get("v")
	require.NoError(t, err)
	assert.Equal(t, "set-value", v.Str)

	d, err := c.Get("d")
	require.NoError(t, err)
	assert.Equal(t, "fallback", d.Str)

	n, err := c.Get("n")
	require.NoError(t, err)
	assert.Equal(t, KindNone, n.Kind)
}

func TestISODateTimeBackTick(t *testing.T) {
	c, err := FromSource("naive: `2024-01-15T10:30:00`\nzoned: `2024-01-15T10:30:00+02:00`\ndateOnly: `2024-01-15`")
	require.NoError(t, err)

	naive, err := c.Get("naive")
	require.NoError(t, err)
	assert.Equal(t, KindDateTime, naive.Kind)
	assert.False(t, naive.Time.HasZone)

	zoned, err := c.Get("zoned")
	require.NoError(t, err)
	assert.True(t, zoned.Time.HasZone)

	dateOnly, err := c.Get("dateOnly")
	require.NoError(t, err)
	assert.Equal(t, KindDateTime, dateOnly.Kind)
}
