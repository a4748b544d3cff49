package workflow

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/graphflow/types"
)

// GraphBuilder constructs immutable graph definitions from node and edge
// specifications, rejecting structurally invalid graphs before anything is
// stored. Cycles are deliberately legal: retry/refine loops are bounded only
// at run time by the step budget.
type GraphBuilder struct {
	store  GraphStore
	logger *zap.Logger
}

// NewGraphBuilder creates a builder that persists validated definitions into
// the given store.
func NewGraphBuilder(store GraphStore, logger *zap.Logger) *GraphBuilder {
	return &GraphBuilder{
		store:  store,
		logger: logger.With(zap.String("component", "graph_builder")),
	}
}

// Build validates the proposed graph and, on success, allocates a fresh id
// and stores the definition. Build-time failures never persist a partial
// graph. Validation order: duplicate node names, start node existence, then
// edge endpoints in declaration order.
func (b *GraphBuilder) Build(ctx context.Context, nodes []types.NodeConfig, edges []types.EdgeConfig, startNode string) (*types.GraphDefinition, error) {
	nodeMap := make(map[string]types.NodeConfig, len(nodes))
	for _, n := range nodes {
		if _, exists := nodeMap[n.Name]; exists {
			return nil, types.NewErrorf(types.ErrDuplicateNode, "duplicate node name: %s", n.Name)
		}
		nodeMap[n.Name] = n
	}

	if _, ok := nodeMap[startNode]; !ok {
		return nil, types.NewErrorf(types.ErrInvalidStartNode, "start_node must be one of the node names, got %q", startNode)
	}

	for _, edge := range edges {
		if _, ok := nodeMap[edge.Source]; !ok {
			return nil, types.NewErrorf(types.ErrUnknownEdgeEndpoint, "unknown source node: %s", edge.Source)
		}
		if _, ok := nodeMap[edge.Target]; !ok {
			return nil, types.NewErrorf(types.ErrUnknownEdgeEndpoint, "unknown target node: %s", edge.Target)
		}
		if edge.Condition != nil && !edge.Condition.Op.Valid() {
			return nil, types.NewErrorf(types.ErrInvalidRequest, "unsupported condition operator: %s", edge.Condition.Op)
		}
	}

	graph := &types.GraphDefinition{
		ID:        uuid.NewString(),
		StartNode: startNode,
		Nodes:     nodeMap,
		Edges:     edges,
	}

	if err := b.store.Put(ctx, graph); err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "failed to store graph definition").WithCause(err)
	}

	b.logger.Info("graph created",
		zap.String("graph_id", graph.ID),
		zap.String("start_node", startNode),
		zap.Int("nodes", len(nodeMap)),
		zap.Int("edges", len(edges)),
	)

	return graph, nil
}
