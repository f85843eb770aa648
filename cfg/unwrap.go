package cfg

// unwrap converts an internal (unevaluated) variant into its public
// equivalent, recursively: InternalList becomes List (each element
// evaluated and unwrapped), InternalMapping becomes Mapping, NestedConfig
// becomes Mapping via the child's own AsDict. Every other kind passes
// through unchanged.
func (c *Config) unwrap(ectx *evalCtx, v Value) (Value, error) {
	switch v.Kind {
	case kindInternalList:
		out := make([]Value, len(v.internalList))
		for i, n := range v.internalList {
			ev, err := c.evalNode(ectx, n)
			if err != nil {
				return Value{}, err
			}
			uv, err := c.unwrap(ectx, ev)
			if err != nil {
				return Value{}, err
			}
			out[i] = uv
		}
		return Value{Kind: KindList, List: out}, nil
	case kindInternalMapping:
		out := NewOrderedMap()
		for _, k := range v.internalMapping.keys {
			ev, err := c.evalNode(ectx, v.internalMapping.nodes[k])
			if err != nil {
				return Value{}, err
			}
			uv, err := c.unwrap(ectx, ev)
			if err != nil {
				return Value{}, err
			}
			out.Set(k, uv)
		}
		return Value{Kind: KindMapping, Mapping: out}, nil
	case KindNestedConfig:
		m, err := v.Nested.AsDict()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindMapping, Mapping: m}, nil
	default:
		return v, nil
	}
}
