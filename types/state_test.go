package types

import "testing"

func TestState_Clone_DeepCopy(t *testing.T) {
	t.Parallel()

	original := State{
		"text":   "hello world",
		"count":  3,
		"chunks": []any{"a", "b"},
		"nested": map[string]any{"inner": []string{"x", "y"}},
	}

	snapshot := original.Clone()

	// Mutate the original after snapshotting.
	original["text"] = "mutated"
	original["chunks"].([]any)[0] = "mutated"
	original["nested"].(map[string]any)["inner"].([]string)[0] = "mutated"

	if snapshot["text"] != "hello world" {
		t.Errorf("scalar leaked into snapshot: %v", snapshot["text"])
	}
	if snapshot["chunks"].([]any)[0] != "a" {
		t.Errorf("slice element leaked into snapshot: %v", snapshot["chunks"])
	}
	if snapshot["nested"].(map[string]any)["inner"].([]string)[0] != "x" {
		t.Errorf("nested slice leaked into snapshot: %v", snapshot["nested"])
	}
}

func TestState_Clone_Nil(t *testing.T) {
	t.Parallel()

	var s State
	cloned := s.Clone()
	if cloned == nil {
		t.Fatal("expected non-nil clone of nil state")
	}
	cloned["k"] = "v" // must be writable
}

func TestRunStatus_Terminal(t *testing.T) {
	t.Parallel()

	for status, want := range map[RunStatus]bool{
		RunPending:   false,
		RunRunning:   false,
		RunCompleted: true,
		RunFailed:    true,
	} {
		if got := status.Terminal(); got != want {
			t.Errorf("Terminal(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestOp_Valid(t *testing.T) {
	t.Parallel()

	for _, op := range []Op{OpEq, OpNe, OpGt, OpGe, OpLt, OpLe} {
		if !op.Valid() {
			t.Errorf("expected %s to be valid", op)
		}
	}
	if Op("~=").Valid() {
		t.Error("expected ~= to be invalid")
	}
}
