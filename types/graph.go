package types

// Op is a comparison operator usable in an edge condition.
type Op string

const (
	// OpEq matches when the state value equals the condition value
	OpEq Op = "=="
	// OpNe matches when the state value differs from the condition value
	OpNe Op = "!="
	// OpGt matches when the state value is strictly greater
	OpGt Op = ">"
	// OpGe matches when the state value is greater or equal
	OpGe Op = ">="
	// OpLt matches when the state value is strictly less
	OpLt Op = "<"
	// OpLe matches when the state value is less or equal
	OpLe Op = "<="
)

// Valid reports whether op is one of the supported comparison operators.
func (op Op) Valid() bool {
	switch op {
	case OpEq, OpNe, OpGt, OpGe, OpLt, OpLe:
		return true
	}
	return false
}

// Condition is a guard attached to an edge. The edge may only be taken when
// state[Key] compares true against Value under Op. Immutable once built.
type Condition struct {
	Key   string `json:"key" yaml:"key"`
	Op    Op     `json:"op" yaml:"op"`
	Value any    `json:"value" yaml:"value"`
}

// NodeConfig binds a named graph node to a registered tool.
// Config is passed verbatim to the tool on every invocation.
type NodeConfig struct {
	Name   string         `json:"name" yaml:"name"`
	Tool   string         `json:"tool" yaml:"tool"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// EdgeConfig is a directed edge between two named nodes. A nil Condition
// means the edge is unconditional and always satisfied.
type EdgeConfig struct {
	Source    string     `json:"source" yaml:"source"`
	Target    string     `json:"target" yaml:"target"`
	Condition *Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// GraphDefinition is an immutable workflow graph. Edges keep their
// declaration order: next-node resolution scans them in order and takes the
// first satisfied outgoing edge, so the order is semantically significant.
// A definition is created once by the graph builder and never mutated;
// concurrent runs may share it without synchronization.
type GraphDefinition struct {
	ID        string                `json:"id"`
	StartNode string                `json:"start_node"`
	Nodes     map[string]NodeConfig `json:"nodes"`
	Edges     []EdgeConfig          `json:"edges"`
}
