package cfg

import "github.com/alecthomas/repr"

// Dump renders c's identity and raw root table structure for ad-hoc
// inspection; it is not part of the evaluation path and performs no logging.
func (c *Config) Dump() string {
	return repr.String(struct {
		ID   string
		Path string
		Keys []string
	}{
		ID:   c.id.String(),
		Path: c.path,
		Keys: c.root.keys,
	}, repr.Indent("  "))
}

// DumpValue renders v with repr, recursing into lists and mappings.
func DumpValue(v Value) string {
	return repr.String(v, repr.Indent("  "))
}
