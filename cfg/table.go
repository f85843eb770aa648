package cfg

import "github.com/shapestone/shape-cfg/internal/ast"

// table is the keyed, ordered form of a parsed Mapping: each value is an
// unevaluated ast.Node, evaluated on demand by the caller and never mutated
// in place (a Config's top-level Get cache is what avoids re-evaluation
// across repeated lookups, not the table itself).
type table struct {
	keys  []string
	nodes map[string]ast.Node
}

func newTable() *table {
	return &table{nodes: make(map[string]ast.Node)}
}

// buildTable converts a parsed *ast.Mapping into a table, keyed by
// identifier text for Word keys or string value for StringToken keys.
// Duplicate-key validation happens once, up front, over the whole parse
// tree (see checkDuplicates); by the time buildTable runs, a repeated key
// simply means the later occurrence wins, matching ordinary mapping
// insertion semantics.
func buildTable(m *ast.Mapping) (*table, error) {
	t := newTable()
	for _, entry := range m.Entries {
		key := entry.Key.Text
		if _, exists := t.nodes[key]; !exists {
			t.keys = append(t.keys, key)
		}
		t.nodes[key] = entry.Value
	}
	return t, nil
}

func (t *table) has(key string) bool {
	_, ok := t.nodes[key]
	return ok
}
