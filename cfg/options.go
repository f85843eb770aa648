package cfg

// Option configures a Config at construction time.
type Option func(*Config)

// WithIncludePath sets the ordered list of directories searched, after the
// including file's own directory, when resolving an @"path" include.
func WithIncludePath(dirs ...string) Option {
	return func(c *Config) { c.includePath = append([]string(nil), dirs...) }
}

// WithContext supplies the variables visible to bare Word expressions.
func WithContext(vars map[string]Value) Option {
	return func(c *Config) {
		c.context = make(map[string]Value, len(vars))
		for k, v := range vars {
			c.context[k] = v
		}
	}
}

// WithNoDuplicates controls whether a repeated key within any mapping
// literal is a load-time error. Default true.
func WithNoDuplicates(v bool) Option {
	return func(c *Config) { c.noDuplicates = v }
}

// WithStrictConversions controls whether a back-tick literal that the
// default string converter cannot interpret (and could not pass through
// unchanged) raises an error. Default true.
func WithStrictConversions(v bool) Option {
	return func(c *Config) { c.strictConversions = v }
}

// StringConverter converts a back-tick literal's decoded content into a
// Value, given the Config it appears in (for ${path} interpolation).
type StringConverter func(c *Config, content string) (Value, error)

// WithStringConverter overrides the default back-tick conversion rules.
func WithStringConverter(conv StringConverter) Option {
	return func(c *Config) { c.stringConverter = conv }
}

// WithCache turns memoization of evaluated top-level Get results on or off.
// Default on.
func WithCache(v bool) Option {
	return func(c *Config) {
		c.useCache = v
		if !v {
			c.cache = nil
		} else if c.cache == nil {
			c.cache = make(map[string]Value)
		}
	}
}
