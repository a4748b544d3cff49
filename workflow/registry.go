package workflow

import (
	"sync"

	"go.uber.org/zap"

	"github.com/BaSui01/graphflow/types"
)

// ToolFunc is a pure state transform. It receives the run's current state and
// the node's static config, and its return value becomes the run's new
// canonical state (total replacement, not a merge). A tool must not retain
// references to state or config beyond the call.
type ToolFunc func(state types.State, config map[string]any) types.State

// ToolRegistry is the process-wide mapping from tool name to transform.
// It must be fully populated before any run starts; population timing is a
// bootstrap concern.
type ToolRegistry struct {
	mu     sync.RWMutex
	tools  map[string]ToolFunc
	logger *zap.Logger
}

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry(logger *zap.Logger) *ToolRegistry {
	return &ToolRegistry{
		tools:  make(map[string]ToolFunc),
		logger: logger.With(zap.String("component", "tool_registry")),
	}
}

// Register stores fn under name. Re-registration overwrites silently
// (last-writer-wins); the overwrite is logged so collisions stay visible.
func (r *ToolRegistry) Register(name string, fn ToolFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		r.logger.Warn("tool re-registered, previous implementation replaced",
			zap.String("tool", name),
		)
	}
	r.tools[name] = fn
}

// Lookup returns the tool registered under name.
func (r *ToolRegistry) Lookup(name string) (ToolFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.tools[name]
	return fn, ok
}

// Names returns the registered tool names.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}
