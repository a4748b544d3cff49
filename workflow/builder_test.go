package workflow

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/BaSui01/graphflow/types"
)

func testNodes(names ...string) []types.NodeConfig {
	nodes := make([]types.NodeConfig, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, types.NodeConfig{Name: name, Tool: "noop"})
	}
	return nodes
}

func TestGraphBuilder_Build(t *testing.T) {
	store := NewMemoryGraphStore()
	builder := NewGraphBuilder(store, zap.NewNop())

	graph, err := builder.Build(context.Background(),
		testNodes("a", "b"),
		[]types.EdgeConfig{{Source: "a", Target: "b"}},
		"a",
	)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if graph.ID == "" {
		t.Fatal("expected generated graph id")
	}

	stored, err := store.Get(context.Background(), graph.ID)
	if err != nil {
		t.Fatalf("stored graph not retrievable: %v", err)
	}
	if stored.StartNode != "a" {
		t.Fatalf("unexpected start node: %s", stored.StartNode)
	}
}

func TestGraphBuilder_InvalidStartNode(t *testing.T) {
	builder := NewGraphBuilder(NewMemoryGraphStore(), zap.NewNop())

	_, err := builder.Build(context.Background(), testNodes("a"), nil, "missing")
	if !types.IsErrorCode(err, types.ErrInvalidStartNode) {
		t.Fatalf("expected INVALID_START_NODE, got %v", err)
	}
}

func TestGraphBuilder_UnknownEdgeEndpoint(t *testing.T) {
	builder := NewGraphBuilder(NewMemoryGraphStore(), zap.NewNop())

	cases := []struct {
		name  string
		edges []types.EdgeConfig
	}{
		{"unknown source", []types.EdgeConfig{{Source: "ghost", Target: "a"}}},
		{"unknown target", []types.EdgeConfig{{Source: "a", Target: "ghost"}}},
		{"later edge position", []types.EdgeConfig{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "ghost"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.Build(context.Background(), testNodes("a", "b"), tc.edges, "a")
			if !types.IsErrorCode(err, types.ErrUnknownEdgeEndpoint) {
				t.Fatalf("expected UNKNOWN_EDGE_ENDPOINT, got %v", err)
			}
		})
	}
}

func TestGraphBuilder_DuplicateNodeName(t *testing.T) {
	builder := NewGraphBuilder(NewMemoryGraphStore(), zap.NewNop())

	_, err := builder.Build(context.Background(), testNodes("a", "a"), nil, "a")
	if !types.IsErrorCode(err, types.ErrDuplicateNode) {
		t.Fatalf("expected DUPLICATE_NODE, got %v", err)
	}
}

func TestGraphBuilder_InvalidConditionOperator(t *testing.T) {
	builder := NewGraphBuilder(NewMemoryGraphStore(), zap.NewNop())

	edges := []types.EdgeConfig{{
		Source:    "a",
		Target:    "b",
		Condition: &types.Condition{Key: "k", Op: "~=", Value: 1},
	}}
	_, err := builder.Build(context.Background(), testNodes("a", "b"), edges, "a")
	if !types.IsErrorCode(err, types.ErrInvalidRequest) {
		t.Fatalf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestGraphBuilder_FailedBuildPersistsNothing(t *testing.T) {
	store := NewMemoryGraphStore()
	builder := NewGraphBuilder(store, zap.NewNop())

	_, err := builder.Build(context.Background(),
		testNodes("a"),
		[]types.EdgeConfig{{Source: "a", Target: "ghost"}},
		"a",
	)
	if err == nil {
		t.Fatal("expected build error")
	}

	store.mu.RLock()
	defer store.mu.RUnlock()
	if len(store.graphs) != 0 {
		t.Fatalf("partial graph persisted: %d entries", len(store.graphs))
	}
}

func TestGraphBuilder_CyclesAreLegal(t *testing.T) {
	builder := NewGraphBuilder(NewMemoryGraphStore(), zap.NewNop())

	// Self-loops and cycles are bounded only at run time.
	edges := []types.EdgeConfig{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "a"},
		{Source: "b", Target: "b"},
	}
	if _, err := builder.Build(context.Background(), testNodes("a", "b"), edges, "a"); err != nil {
		t.Fatalf("cyclic graph rejected at build time: %v", err)
	}
}
