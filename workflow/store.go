package workflow

import (
	"context"
	"sync"

	"github.com/BaSui01/graphflow/types"
)

// GraphStore is the keyed lookup for graph definitions. The storage
// technology is a collaborator concern; the engine only requires insert and
// fail-if-absent lookup. Implementations must be safe for concurrent use.
type GraphStore interface {
	// Put inserts or replaces a graph definition.
	Put(ctx context.Context, graph *types.GraphDefinition) error
	// Get returns the definition stored under id, or an error carrying
	// types.ErrGraphNotFound.
	Get(ctx context.Context, id string) (*types.GraphDefinition, error)
}

// RunStore is the keyed lookup for run records. Implementations must be safe
// for concurrent use.
type RunStore interface {
	// Put inserts or replaces a run record.
	Put(ctx context.Context, run *types.Run) error
	// Get returns the run stored under id, or an error carrying
	// types.ErrRunNotFound.
	Get(ctx context.Context, id string) (*types.Run, error)
}

// MemoryGraphStore is the in-process GraphStore. Access is serialized with a
// read-write lock so concurrent graph creation and run execution cannot race
// on the shared map.
type MemoryGraphStore struct {
	mu     sync.RWMutex
	graphs map[string]*types.GraphDefinition
}

// NewMemoryGraphStore creates an empty in-memory graph store.
func NewMemoryGraphStore() *MemoryGraphStore {
	return &MemoryGraphStore{graphs: make(map[string]*types.GraphDefinition)}
}

// Put stores the graph definition under its id.
func (s *MemoryGraphStore) Put(_ context.Context, graph *types.GraphDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[graph.ID] = graph
	return nil
}

// Get returns the graph definition stored under id.
func (s *MemoryGraphStore) Get(_ context.Context, id string) (*types.GraphDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	graph, ok := s.graphs[id]
	if !ok {
		return nil, types.NewErrorf(types.ErrGraphNotFound, "graph %q not found", id)
	}
	return graph, nil
}

// MemoryRunStore is the in-process RunStore.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]*types.Run
}

// NewMemoryRunStore creates an empty in-memory run store.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{runs: make(map[string]*types.Run)}
}

// Put stores the run record under its id.
func (s *MemoryRunStore) Put(_ context.Context, run *types.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.RunID] = run
	return nil
}

// Get returns the run stored under id.
func (s *MemoryRunStore) Get(_ context.Context, id string) (*types.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, types.NewErrorf(types.ErrRunNotFound, "run %q not found", id)
	}
	return run, nil
}
