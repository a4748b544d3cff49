package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"

	"github.com/BaSui01/graphflow/types"
)

// Acyclic chains always terminate completed before the step budget,
// whatever their length.
func TestProperty_AcyclicChainAlwaysCompletes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("linear chain of n nodes completes in n steps", prop.ForAll(
		func(n int) bool {
			svc := newTestService()
			svc.Registry().Register("step", func(state types.State, _ map[string]any) types.State {
				count, _ := state["count"].(int)
				state["count"] = count + 1
				return state
			})

			nodes := make([]types.NodeConfig, 0, n)
			edges := make([]types.EdgeConfig, 0, n-1)
			for i := 0; i < n; i++ {
				nodes = append(nodes, types.NodeConfig{Name: fmt.Sprintf("n%d", i), Tool: "step"})
				if i > 0 {
					edges = append(edges, types.EdgeConfig{
						Source: fmt.Sprintf("n%d", i-1),
						Target: fmt.Sprintf("n%d", i),
					})
				}
			}

			graphID, err := svc.CreateGraph(context.Background(), nodes, edges, "n0")
			if err != nil {
				t.Logf("CreateGraph failed: %v", err)
				return false
			}

			run, err := svc.RunGraph(context.Background(), graphID, types.State{})
			if err != nil {
				t.Logf("RunGraph failed: %v", err)
				return false
			}
			return run.Status == types.RunCompleted &&
				len(run.Log) == n &&
				run.State["count"] == n
		},
		gen.IntRange(1, 50),
	))

	properties.TestingRun(t)
}

// The first-declared satisfiable outgoing edge always wins, regardless of
// how many competing unconditional edges follow it.
func TestProperty_EdgeOrderDeterminesRouting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("earliest declared edge wins", prop.ForAll(
		func(branches int, winner int) bool {
			winner = winner % branches

			registry := NewToolRegistry(zap.NewNop())
			svc := NewService(registry, NewMemoryGraphStore(), NewMemoryRunStore(), zap.NewNop())
			registry.Register("noop", func(state types.State, _ map[string]any) types.State {
				return state
			})
			registry.Register("record", func(state types.State, config map[string]any) types.State {
				state["landed"] = config["label"]
				return state
			})

			nodes := []types.NodeConfig{{Name: "start", Tool: "noop"}}
			edges := make([]types.EdgeConfig, 0, branches)
			for i := 0; i < branches; i++ {
				name := fmt.Sprintf("b%d", i)
				nodes = append(nodes, types.NodeConfig{
					Name: name, Tool: "record",
					Config: map[string]any{"label": name},
				})
				edge := types.EdgeConfig{Source: "start", Target: name}
				if i < winner {
					// Edges before the winner carry an unsatisfiable guard.
					edge.Condition = &types.Condition{Key: "never", Op: types.OpEq, Value: "set"}
				}
				edges = append(edges, edge)
			}

			graphID, err := svc.CreateGraph(context.Background(), nodes, edges, "start")
			if err != nil {
				t.Logf("CreateGraph failed: %v", err)
				return false
			}

			run, err := svc.RunGraph(context.Background(), graphID, types.State{})
			if err != nil {
				t.Logf("RunGraph failed: %v", err)
				return false
			}
			return run.State["landed"] == fmt.Sprintf("b%d", winner)
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 7),
	))

	properties.TestingRun(t)
}
