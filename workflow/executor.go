package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/graphflow/types"
)

// DefaultMaxSteps is the fixed step budget per run. It is the engine's only
// cycle/non-termination guard: deliberately coarse, because edge conditions
// can legitimately make a graph converge after an a-priori-unknown number of
// iterations.
const DefaultMaxSteps = 100

// Observer receives execution measurements. Implementations must be safe for
// concurrent use across runs.
type Observer interface {
	// RecordRun is called once per run with its terminal status.
	RecordRun(status types.RunStatus, duration time.Duration)
	// RecordStep is called after every executed step.
	RecordStep(tool string, duration time.Duration)
}

/// Executor owns the step loop: node dispatch, state threading, log
// snapshotting, next-node resolution, and termination/failure detection.
// Each run executes as a single synchronous sequence of tool calls; there is
// no parallelism within a run. Multiple runs may execute concurrently
// against the same graph definition.
type Executor struct {
	graphs   GraphStore
	runs     RunStore
	registry *ToolRegistry
	logger   *zap.Logger
	tracer   trace.Tracer
	observer Observer
	maxSteps int
}

// NewExecutor creates a run executor bound to the given stores and registry.
func NewExecutor(graphs GraphStore, runs RunStore, registry *ToolRegistry, logger *zap.Logger) *Executor {
	return &Executor{
		graphs:   graphs,
		runs:     runs,
		registry: registry,
		logger:   logger.With(zap.String("component", "run_executor")),
		tracer:   otel.Tracer("graphflow/workflow"),
		maxSteps: DefaultMaxSteps,
	}
}

// SetMaxSteps overrides the step budget. Values below 1 are ignored.
func (e *Executor) SetMaxSteps(n int) {
	if n >= 1 {
		e.maxSteps = n
	}
}

// SetObserver attaches an execution observer (for example the Prometheus
// collector).
func (e *Executor) SetObserver(obs Observer) {
	e.observer = obs
}

// Execute loads the graph, creates a run record, and drives the step loop
// until no outgoing edge qualifies or the step budget is exhausted.
//
// On UNREGISTERED_TOOL and MAX_STEPS_EXCEEDED the failed run is returned
// alongside the error, with whatever log and state had accumulated up to the
// failing step, so callers can inspect partial progress via GetRunState.
func (e *Executor) Execute(ctx context.Context, graphID string, initial types.State) (*types.Run, error) {
	graph, err := e.graphs.Get(ctx, graphID)
	if err != nil {
		return nil, err
	}

	run := &types.Run{
		RunID:       uuid.NewString(),
		GraphID:     graphID,
		Status:      types.RunRunning,
		CurrentNode: graph.StartNode,
		State:       initial.Clone(),
		Log:         []types.StepLog{},
	}
	if err := e.runs.Put(ctx, run); err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "failed to store run record").WithCause(err)
	}

	ctx, span := e.tracer.Start(ctx, "workflow.run",
		trace.WithAttributes(
			attribute.String("graph.id", graphID),
			attribute.String("run.id", run.RunID),
		),
	)
	defer span.End()

	e.logger.Info("run started",
		zap.String("run_id", run.RunID),
		zap.String("graph_id", graphID),
		zap.String("start_node", graph.StartNode),
	)

	started := time.Now()
	current := graph.StartNode
	steps := 0

	for current != "" && steps < e.maxSteps {
		run.CurrentNode = current
		node := graph.Nodes[current]

		tool, ok := e.registry.Lookup(node.Tool)
		if !ok {
			err := types.NewErrorf(types.ErrUnregisteredTool, "tool %q is not registered", node.Tool)
			return run, e.failRun(ctx, span, run, started, err)
		}

		stepStart := time.Now()
		_, stepSpan := e.tracer.Start(ctx, "workflow.step",
			trace.WithAttributes(
				attribute.String("node.name", current),
				attribute.String("tool.name", node.Tool),
			),
		)

		newState := tool(run.State, node.Config)
		if newState == nil {
			newState = types.State{}
		}
		run.State = newState
		run.Log = append(run.Log, types.StepLog{
			Node:          current,
			Tool:          node.Tool,
			StateSnapshot: newState.Clone(),
		})

		stepSpan.End()
		stepDuration := time.Since(stepStart)
		if e.observer != nil {
			e.observer.RecordStep(node.Tool, stepDuration)
		}

		e.logger.Debug("step executed",
			zap.String("run_id", run.RunID),
			zap.String("node", current),
			zap.String("tool", node.Tool),
			zap.Int("step", steps+1),
			zap.Duration("duration", stepDuration),
		)

		// Next-node selection uses the already-updated state.
		current = nextNode(graph, current, run.State)
		steps++
	}

	if steps >= e.maxSteps && current != "" {
		err := types.NewErrorf(types.ErrMaxStepsExceeded, "max steps exceeded after %d steps (possible infinite loop)", steps)
		return run, e.failRun(ctx, span, run, started, err)
	}

	run.CurrentNode = current
	run.Status = types.RunCompleted
	if err := e.runs.Put(ctx, run); err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "failed to store run record").WithCause(err)
	}

	duration := time.Since(started)
	if e.observer != nil {
		e.observer.RecordRun(types.RunCompleted, duration)
	}

	e.logger.Info("run completed",
		zap.String("run_id", run.RunID),
		zap.Int("steps", steps),
		zap.Duration("duration", duration),
	)

	return run, nil
}

// GetRunState returns the run record stored under runID.
func (e *Executor) GetRunState(ctx context.Context, runID string) (*types.Run, error) {
	return e.runs.Get(ctx, runID)
}

// failRun marks the run failed, persists it with its partial log and state,
// and records the failure on the span and observer.
func (e *Executor) failRun(ctx context.Context, span trace.Span, run *types.Run, started time.Time, cause *types.Error) error {
	run.Status = types.RunFailed
	if err := e.runs.Put(ctx, run); err != nil {
		e.logger.Error("failed to persist failed run",
			zap.String("run_id", run.RunID),
			zap.Error(err),
		)
	}

	span.RecordError(cause)
	span.SetStatus(codes.Error, string(cause.Code))

	if e.observer != nil {
		e.observer.RecordRun(types.RunFailed, time.Since(started))
	}

	e.logger.Error("run failed",
		zap.String("run_id", run.RunID),
		zap.String("graph_id", run.GraphID),
		zap.String("code", string(cause.Code)),
		zap.Int("steps_completed", len(run.Log)),
		zap.Error(cause),
	)

	return cause
}

// nextNode scans the graph's edges in declaration order, restricted to edges
// whose source is the current node, and returns the target of the first edge
// whose condition evaluates true. Later edges are never evaluated once a
// match is found. An empty result ends the run at this node.
func nextNode(graph *types.GraphDefinition, current string, state types.State) string {
	for _, edge := range graph.Edges {
		if edge.Source != current {
			continue
		}
		if Evaluate(edge.Condition, state) {
			return edge.Target
		}
	}
	return ""
}
