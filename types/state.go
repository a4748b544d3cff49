package types

// State is the mutable key-value mapping threaded through a run. Each tool
// invocation receives the current state and returns the mapping that becomes
// the run's new canonical state (total replacement, not a merge).
//
// The engine enforces no schema: key presence and shape contracts between
// producer and consumer nodes are the graph author's responsibility.
type State map[string]any

// Clone returns a deep-independent copy of the state. Nested maps and slices
// are copied recursively; log snapshots rely on this so they stay stable
// while the live run state keeps mutating in later steps.
func (s State) Clone() State {
	if s == nil {
		return State{}
	}
	out := make(State, len(s))
	for k, v := range s {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopyValue(item)
		}
		return out
	case State:
		return map[string]any(val.Clone())
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		// Scalars (and anything else) are copied by value.
		return v
	}
}
