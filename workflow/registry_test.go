package workflow

import (
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/BaSui01/graphflow/types"
)

func TestToolRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewToolRegistry(zap.NewNop())

	reg.Register("echo", func(state types.State, _ map[string]any) types.State {
		return state
	})

	fn, ok := reg.Lookup("echo")
	if !ok {
		t.Fatal("expected echo to be registered")
	}
	if fn == nil {
		t.Fatal("expected non-nil tool function")
	}

	if _, ok := reg.Lookup("missing"); ok {
		t.Fatal("expected missing to be absent")
	}
}

func TestToolRegistry_LastWriterWins(t *testing.T) {
	reg := NewToolRegistry(zap.NewNop())

	reg.Register("tool", func(state types.State, _ map[string]any) types.State {
		state["version"] = 1
		return state
	})
	reg.Register("tool", func(state types.State, _ map[string]any) types.State {
		state["version"] = 2
		return state
	})

	fn, _ := reg.Lookup("tool")
	out := fn(types.State{}, nil)
	if out["version"] != 2 {
		t.Fatalf("expected re-registration to overwrite, got version %v", out["version"])
	}
}

func TestToolRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewToolRegistry(zap.NewNop())
	noop := func(state types.State, _ map[string]any) types.State { return state }

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Register("shared", noop)
		}()
		go func() {
			defer wg.Done()
			reg.Lookup("shared")
		}()
	}
	wg.Wait()

	if len(reg.Names()) != 1 {
		t.Fatalf("expected exactly one registered name, got %v", reg.Names())
	}
}
