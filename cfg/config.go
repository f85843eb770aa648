package cfg

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/shapestone/shape-cfg/internal/ast"
	"github.com/shapestone/shape-cfg/internal/parser"
	"github.com/shapestone/shape-cfg/internal/source"
	"github.com/shapestone/shape-cfg/internal/utf8dfa"
)

// Config holds one loaded CFG document: its keyed, lazily-evaluated root
// mapping, the include search path, caller-supplied context variables, and
// the state a single Get walk accumulates (cache, reference-cycle set).
type Config struct {
	id uuid.UUID

	root *table
	path string // absolute path of the backing file, "" if loaded from a non-file source
	dir  string // containing directory, used as the first include-search entry

	includePath       []string
	context           map[string]Value
	noDuplicates      bool
	strictConversions bool
	stringConverter   StringConverter

	useCache bool
	cache    map[string]Value

	parent *Config

	refsSeen map[ast.Node]bool
}

// New creates an unloaded Config with the given options applied over the
// defaults: noDuplicates=true, strictConversions=true, caching on, and the
// default back-tick string converter.
func New(opts ...Option) *Config {
	c := &Config{
		id:                uuid.New(),
		noDuplicates:      true,
		strictConversions: true,
		stringConverter:   defaultStringConverter,
		useCache:          true,
		cache:             make(map[string]Value),
		context:           make(map[string]Value),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the identifier stamped on this Config at construction, used to
// tell parent and included child configs apart in Dump output.
func (c *Config) ID() uuid.UUID { return c.id }

// Load parses r as a container and installs it as this Config's root. It
// is the caller's responsibility to close r if it implements io.Closer.
func (c *Config) Load(r io.Reader) error {
	p, err := parser.New(source.New(r))
	if err != nil {
		return wrapLoadError(err)
	}
	node, err := p.Container()
	if err != nil {
		return wrapLoadError(err)
	}
	m, ok := node.(*ast.Mapping)
	if !ok {
		return &ConfigError{Msg: "root configuration must be a mapping"}
	}
	if c.noDuplicates {
		if err := checkDuplicates(m); err != nil {
			return err
		}
	}
	t, err := buildTable(m)
	if err != nil {
		return err
	}
	c.root = t
	return nil
}

// LoadFile opens path and loads it as this Config's root, recording path
// and its containing directory for relative include resolution.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := c.Load(f); err != nil {
		return err
	}
	c.path = abs
	c.dir = filepath.Dir(abs)
	return nil
}

// FromFile is a convenience constructor: New(opts...) followed by
// LoadFile(path).
func FromFile(path string, opts ...Option) (*Config, error) {
	c := New(opts...)
	if err := c.LoadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// FromSource is a convenience constructor: New(opts...) followed by
// Load(strings.NewReader(text)). Since text is already fully in memory, its
// UTF-8 validity is checked in one pass up front, so malformed input is
// rejected before any tokenizing or parsing work begins.
func FromSource(text string, opts ...Option) (*Config, error) {
	if _, err := utf8dfa.DecodeAll([]byte(text)); err != nil {
		return nil, wrapLoadError(err)
	}
	c := New(opts...)
	if err := c.Load(strings.NewReader(text)); err != nil {
		return nil, err
	}
	return c, nil
}

// Get looks up key, which is either a simple identifier naming a top-level
// entry or a dotted/subscripted/sliced path, and returns its fully
// evaluated, unwrapped Value. If key cannot be found and a default is
// supplied (the variadic def), the default is returned instead of an error.
func (c *Config) Get(key string, def ...Value) (Value, error) {
	v, err := c.get(key)
	if err != nil {
		if len(def) > 0 {
			if isNotFound(err) {
				return def[0], nil
			}
		}
		return Value{}, err
	}
	return v, nil
}

// Index looks up key and raises an error if it is absent, equivalent to
// Get with no default.
func (c *Config) Index(key string) (Value, error) {
	return c.get(key)
}

func isNotFound(err error) bool {
	ce, ok := err.(*ConfigError)
	if !ok {
		return false
	}
	return strings.HasPrefix(ce.Msg, "not found in configuration:")
}

func (c *Config) get(key string) (Value, error) {
	if c.useCache {
		if v, ok := c.cache[key]; ok {
			return v, nil
		}
	}

	c.refsSeen = make(map[ast.Node]bool)

	var result Value
	var err error

	if isIdentifier(key) {
		if !c.root.has(key) {
			return Value{}, &ConfigError{Msg: "not found in configuration: " + key}
		}
		result, err = c.evalKey(key)
	} else {
		node, perr := parser.ParsePath(key)
		if perr != nil {
			return Value{}, wrapLoadError(perr)
		}
		head, steps, ok := ast.UnpackPath(node)
		if !ok {
			return Value{}, &ConfigError{Msg: "invalid path: " + key}
		}
		result, err = c.walkPath(head, steps)
	}
	if err != nil {
		return Value{}, err
	}

	result, err = c.unwrap(&evalCtx{refsSeen: c.refsSeen}, result)
	if err != nil {
		return Value{}, err
	}

	if c.useCache {
		c.cache[key] = result
	}
	return result, nil
}

// GetSubConfig requires the value at key to be a nested configuration
// (produced by an include whose root is a mapping) and returns it directly,
// so further queries resolve against its own context and include path.
func (c *Config) GetSubConfig(key string) (*Config, error) {
	c.refsSeen = make(map[ast.Node]bool)

	var evalErr error
	var rawResult Value

	if isIdentifier(key) {
		if !c.root.has(key) {
			return nil, &ConfigError{Msg: "not found in configuration: " + key}
		}
		rawResult, evalErr = c.evalKeyRaw(key)
	} else {
		pnode, perr := parser.ParsePath(key)
		if perr != nil {
			return nil, wrapLoadError(perr)
		}
		head, steps, ok := ast.UnpackPath(pnode)
		if !ok {
			return nil, &ConfigError{Msg: "invalid path: " + key}
		}
		rawResult, evalErr = c.walkPathRaw(head, steps)
	}
	if evalErr != nil {
		return nil, evalErr
	}
	if rawResult.Kind != KindNestedConfig {
		return nil, &ConfigError{Msg: fmt.Sprintf("not a nested configuration: %s", key)}
	}
	return rawResult.Nested, nil
}

// AsDict fully evaluates and unwraps the root mapping, recursively.
func (c *Config) AsDict() (*OrderedMap, error) {
	out := NewOrderedMap()
	for _, k := range c.root.keys {
		v, err := c.Get(k)
		if err != nil {
			return nil, err
		}
		out.Set(k, v)
	}
	return out, nil
}
