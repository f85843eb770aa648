package cfg

import (
	"fmt"

	"github.com/shapestone/shape-cfg/internal/ast"
)

// checkDuplicates walks the full parse tree and raises a ConfigError for
// the first duplicate key found in any mapping literal, not only the root.
// This runs once at load time so duplicates nested under lists, unused
// branches, or deeply inside expressions are still caught even though
// evaluation itself is lazy.
func checkDuplicates(n ast.Node) error {
	switch v := n.(type) {
	case *ast.Mapping:
		if dups := v.DuplicateKeys(); len(dups) > 0 {
			d := dups[0]
			return &ConfigError{Msg: fmt.Sprintf(
				"duplicate key %s seen at %s (previously at %s)", d.Key, d.Second, d.First)}
		}
		for _, e := range v.Entries {
			if err := checkDuplicates(e.Value); err != nil {
				return err
			}
		}
	case *ast.List:
		for _, el := range v.Elements {
			if err := checkDuplicates(el); err != nil {
				return err
			}
		}
	case *ast.Unary:
		return checkDuplicates(v.Operand)
	case *ast.Binary:
		if err := checkDuplicates(v.Lhs); err != nil {
			return err
		}
		return checkDuplicates(v.Rhs)
	case *ast.Slice:
		for _, part := range []ast.Node{v.Start, v.Stop, v.Step} {
			if part == nil {
				continue
			}
			if err := checkDuplicates(part); err != nil {
				return err
			}
		}
	}
	return nil
}
