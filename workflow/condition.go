package workflow

import (
	"reflect"

	"github.com/BaSui01/graphflow/types"
)

// Evaluate decides whether a guarded edge may be taken given the current
// state. A nil condition always evaluates true (unconditional edge). An
// absent state key yields a nil sentinel, not an error.
//
// Equality and inequality are always well-defined. Ordering comparisons
// between incompatible types evaluate to false rather than failing: a
// misconfigured or not-yet-populated state key must never abort a run, it
// simply disqualifies that edge.
func Evaluate(cond *types.Condition, state types.State) bool {
	if cond == nil {
		return true
	}

	left := state[cond.Key] // absent key → nil
	right := cond.Value

	switch cond.Op {
	case types.OpEq:
		return looseEqual(left, right)
	case types.OpNe:
		return !looseEqual(left, right)
	case types.OpGt, types.OpGe, types.OpLt, types.OpLe:
		return ordered(cond.Op, left, right)
	}
	return false
}

// looseEqual compares two scalars with numeric cross-type tolerance, so that
// an int stored by a tool matches a float decoded from JSON.
func looseEqual(left, right any) bool {
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if lok && rok {
		return lf == rf
	}
	return reflect.DeepEqual(left, right)
}

// ordered applies one of the four ordering operators. Numbers compare with
// numbers and strings with strings; every other pairing is false.
func ordered(op types.Op, left, right any) bool {
	if lf, lok := toFloat(left); lok {
		if rf, rok := toFloat(right); rok {
			return orderedFloat(op, lf, rf)
		}
		return false
	}

	ls, lok := left.(string)
	rs, rok := right.(string)
	if lok && rok {
		return orderedString(op, ls, rs)
	}
	return false
}

func orderedFloat(op types.Op, l, r float64) bool {
	switch op {
	case types.OpGt:
		return l > r
	case types.OpGe:
		return l >= r
	case types.OpLt:
		return l < r
	case types.OpLe:
		return l <= r
	}
	return false
}

func orderedString(op types.Op, l, r string) bool {
	switch op {
	case types.OpGt:
		return l > r
	case types.OpGe:
		return l >= r
	case types.OpLt:
		return l < r
	case types.OpLe:
		return l <= r
	}
	return false
}

// toFloat widens any numeric scalar to float64. Booleans count as numeric
// (false=0, true=1) to keep equality semantics forgiving.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
