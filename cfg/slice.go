package cfg

import (
	"fmt"

	"github.com/shapestone/shape-cfg/internal/ast"
)

// applySlice evaluates sl's start/stop/step bounds against a list-like
// current value and returns the selected sub-list, normalizing indices the
// way a step-aware slice always must: direction-dependent defaults, and
// negative indices counted from the end before clamping into range.
func (c *Config) applySlice(ectx *evalCtx, current Value, sl *ast.Slice) (Value, error) {
	elems, err := c.listElements(ectx, current, sl.Loc(), "invalid container for slicing: ")
	if err != nil {
		return Value{}, err
	}
	n := int64(len(elems))

	step := int64(1)
	if sl.Step != nil {
		sv, err := c.evalAndUnwrap(ectx, sl.Step)
		if err != nil {
			return Value{}, err
		}
		if sv.Kind != KindInteger {
			return Value{}, &ConfigError{Loc: sl.Loc(), Msg: fmt.Sprintf("step is not an integer, but %s", sv.Kind)}
		}
		if sv.Int == 0 {
			return Value{}, &ConfigError{Loc: sl.Loc(), Msg: "step cannot be zero"}
		}
		step = sv.Int
	}

	var lower, upper int64
	if step < 0 {
		lower, upper = -1, n-1
	} else {
		lower, upper = 0, n
	}

	start := lower
	if step < 0 {
		start = upper
	}
	if sl.Start != nil {
		sv, err := c.evalAndUnwrap(ectx, sl.Start)
		if err != nil {
			return Value{}, err
		}
		if sv.Kind != KindInteger {
			return Value{}, &ConfigError{Loc: sl.Loc(), Msg: fmt.Sprintf("start is not an integer, but %s", sv.Kind)}
		}
		if sv.Int < 0 {
			start = maxInt64(sv.Int+n, lower)
		} else {
			start = minInt64(sv.Int, upper)
		}
	}

	stop := upper
	if step < 0 {
		stop = lower
	}
	if sl.Stop != nil {
		sv, err := c.evalAndUnwrap(ectx, sl.Stop)
		if err != nil {
			return Value{}, err
		}
		if sv.Kind != KindInteger {
			return Value{}, &ConfigError{Loc: sl.Loc(), Msg: fmt.Sprintf("stop is not an integer, but %s", sv.Kind)}
		}
		if sv.Int < 0 {
			stop = maxInt64(sv.Int+n, lower)
		} else {
			stop = minInt64(sv.Int, upper)
		}
	}

	var out []Value
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, elems[i])
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, elems[i])
		}
	}
	return Value{Kind: KindList, List: out}, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
