package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/graphflow/types"
)

// Service composes the builder, executor, and stores behind the three
// operations the surrounding transport layer needs. The tool registry must
// be fully populated before the first RunGraph call.
type Service struct {
	registry *ToolRegistry
	builder  *GraphBuilder
	executor *Executor
}

// NewService wires a workflow service from its collaborators.
func NewService(registry *ToolRegistry, graphs GraphStore, runs RunStore, logger *zap.Logger) *Service {
	return &Service{
		registry: registry,
		builder:  NewGraphBuilder(graphs, logger),
		executor: NewExecutor(graphs, runs, registry, logger),
	}
}

// Registry returns the service's tool registry.
func (s *Service) Registry() *ToolRegistry {
	return s.registry
}

// Executor returns the underlying run executor, for callers that need to
// tune the step budget or attach an observer.
func (s *Service) Executor() *Executor {
	return s.executor
}

// CreateGraph validates and stores a new graph definition, returning its
// generated id.
func (s *Service) CreateGraph(ctx context.Context, nodes []types.NodeConfig, edges []types.EdgeConfig, startNode string) (string, error) {
	graph, err := s.builder.Build(ctx, nodes, edges, startNode)
	if err != nil {
		return "", err
	}
	return graph.ID, nil
}

// RunGraph executes the graph synchronously with a deep copy of the supplied
// initial state.
func (s *Service) RunGraph(ctx context.Context, graphID string, initial types.State) (*types.Run, error) {
	return s.executor.Execute(ctx, graphID, initial)
}

// GetRunState returns the run record for runID, including partial progress
// of failed runs.
func (s *Service) GetRunState(ctx context.Context, runID string) (*types.Run, error) {
	return s.executor.GetRunState(ctx, runID)
}
