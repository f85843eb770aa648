package cfg

import (
	"os"
	"path/filepath"

	"github.com/shapestone/shape-cfg/internal/ast"
)

// evalInclude resolves an @"path" expression: the operand must evaluate to
// a string naming a file, searched first relative to the including file's
// own directory, then each entry of includePath in order.
func (c *Config) evalInclude(ectx *evalCtx, v *ast.Unary) (Value, error) {
	operand, err := c.evalAndUnwrap(ectx, v.Operand)
	if err != nil {
		return Value{}, err
	}
	if operand.Kind != KindString {
		return Value{}, &ConfigError{Loc: v.OpStart, Msg: "include path must be a string, got " + operand.Kind.String()}
	}

	resolved, err := c.resolveIncludePath(operand.Str)
	if err != nil {
		return Value{}, &ConfigError{Loc: v.OpStart, Msg: err.Error()}
	}

	if c.path != "" && resolved == c.path {
		return Value{}, &ConfigError{Loc: v.OpStart, Msg: "configuration cannot include itself: " + operand.Str}
	}

	child := New(
		WithNoDuplicates(c.noDuplicates),
		WithStrictConversions(c.strictConversions),
		WithContext(c.context),
		WithCache(c.useCache),
	)
	child.includePath = c.includePath
	child.stringConverter = c.stringConverter
	child.parent = c

	if err := child.LoadFile(resolved); err != nil {
		return Value{}, err
	}

	return Value{Kind: KindNestedConfig, Nested: child}, nil
}

func (c *Config) resolveIncludePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if fileExists(path) {
			return path, nil
		}
		return "", &notFoundErr{path}
	}

	candidates := make([]string, 0, len(c.includePath)+1)
	if c.dir != "" {
		candidates = append(candidates, filepath.Join(c.dir, path))
	}
	for _, dir := range c.includePath {
		candidates = append(candidates, filepath.Join(dir, path))
	}

	for _, candidate := range candidates {
		if fileExists(candidate) {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, nil
			}
			return abs, nil
		}
	}
	return "", &notFoundErr{path}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

type notFoundErr struct{ path string }

func (e *notFoundErr) Error() string { return "unable to locate " + e.path }
