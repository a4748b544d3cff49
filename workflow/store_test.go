package workflow

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/graphflow/types"
)

func TestMemoryGraphStore_PutGet(t *testing.T) {
	store := NewMemoryGraphStore()
	ctx := context.Background()

	graph := &types.GraphDefinition{ID: "g1", StartNode: "a"}
	if err := store.Put(ctx, graph); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := store.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.StartNode != "a" {
		t.Fatalf("unexpected graph: %+v", got)
	}

	_, err = store.Get(ctx, "absent")
	if !types.IsErrorCode(err, types.ErrGraphNotFound) {
		t.Fatalf("expected GRAPH_NOT_FOUND, got %v", err)
	}
}

func TestMemoryRunStore_PutGet(t *testing.T) {
	store := NewMemoryRunStore()
	ctx := context.Background()

	run := &types.Run{RunID: "r1", GraphID: "g1", Status: types.RunPending}
	if err := store.Put(ctx, run); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := store.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != types.RunPending {
		t.Fatalf("unexpected run: %+v", got)
	}

	_, err = store.Get(ctx, "absent")
	if !types.IsErrorCode(err, types.ErrRunNotFound) {
		t.Fatalf("expected RUN_NOT_FOUND, got %v", err)
	}
}

// Shared stores must tolerate concurrent insert and lookup; run with -race.
func TestMemoryStores_ConcurrentAccess(t *testing.T) {
	graphs := NewMemoryGraphStore()
	runs := NewMemoryRunStore()
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		id := fmt.Sprintf("id-%d", i)
		g.Go(func() error {
			if err := graphs.Put(ctx, &types.GraphDefinition{ID: id}); err != nil {
				return err
			}
			_, err := graphs.Get(ctx, id)
			return err
		})
		g.Go(func() error {
			if err := runs.Put(ctx, &types.Run{RunID: id}); err != nil {
				return err
			}
			_, err := runs.Get(ctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent access failed: %v", err)
	}
}
