package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/graphflow/types"
	"github.com/BaSui01/graphflow/workflow"
)

// =============================================================================
// 🧪 测试辅助
// =============================================================================

// newTestHandler 构造带内存存储与一个回显工具的图处理器
func newTestHandler(t *testing.T) *GraphHandler {
	t.Helper()

	logger := zap.NewNop()
	registry := workflow.NewToolRegistry(logger)
	registry.Register("echo", func(state types.State, config map[string]any) types.State {
		state["echoed"] = true
		return state
	})

	svc := workflow.NewService(registry, workflow.NewMemoryGraphStore(), workflow.NewMemoryRunStore(), logger)
	return NewGraphHandler(svc, logger)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	r.Header.Set("Content-Type", "application/json")
	handler(w, r)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func createTestGraph(t *testing.T, h *GraphHandler) string {
	t.Helper()

	w := postJSON(t, h.HandleCreate, "/api/v1/graphs", map[string]any{
		"nodes": []map[string]any{
			{"name": "only", "tool": "echo"},
		},
		"edges":      []map[string]any{},
		"start_node": "only",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	graphID := data["graph_id"].(string)
	require.NotEmpty(t, graphID)
	return graphID
}

// =============================================================================
// 🧪 HandleCreate 测试
// =============================================================================

func TestGraphHandler_HandleCreate(t *testing.T) {
	h := newTestHandler(t)

	graphID := createTestGraph(t, h)
	assert.NotEmpty(t, graphID)
}

func TestGraphHandler_HandleCreate_CallbackFires(t *testing.T) {
	h := newTestHandler(t)

	created := 0
	h.SetGraphCreatedCallback(func() { created++ })

	createTestGraph(t, h)
	assert.Equal(t, 1, created)
}

func TestGraphHandler_HandleCreate_MissingNodes(t *testing.T) {
	h := newTestHandler(t)

	w := postJSON(t, h.HandleCreate, "/api/v1/graphs", map[string]any{
		"nodes":      []map[string]any{},
		"start_node": "only",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, string(types.ErrInvalidRequest), resp.Error.Code)
}

func TestGraphHandler_HandleCreate_InvalidStartNode(t *testing.T) {
	h := newTestHandler(t)

	w := postJSON(t, h.HandleCreate, "/api/v1/graphs", map[string]any{
		"nodes": []map[string]any{
			{"name": "only", "tool": "echo"},
		},
		"start_node": "missing",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, string(types.ErrInvalidStartNode), resp.Error.Code)
}

func TestGraphHandler_HandleCreate_UnknownEdgeEndpoint(t *testing.T) {
	h := newTestHandler(t)

	w := postJSON(t, h.HandleCreate, "/api/v1/graphs", map[string]any{
		"nodes": []map[string]any{
			{"name": "only", "tool": "echo"},
		},
		"edges": []map[string]any{
			{"source": "only", "target": "phantom"},
		},
		"start_node": "only",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, string(types.ErrUnknownEdgeEndpoint), resp.Error.Code)
}

// =============================================================================
// 🧪 HandleRun 测试
// =============================================================================

func TestGraphHandler_HandleRun(t *testing.T) {
	h := newTestHandler(t)
	graphID := createTestGraph(t, h)

	w := postJSON(t, h.HandleRun, "/api/v1/graphs/run", map[string]any{
		"graph_id":      graphID,
		"initial_state": map[string]any{"input": "hello"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.NotEmpty(t, data["run_id"])
	assert.Equal(t, string(types.RunCompleted), data["status"])

	finalState := data["final_state"].(map[string]any)
	assert.Equal(t, "hello", finalState["input"])
	assert.Equal(t, true, finalState["echoed"])

	log := data["log"].([]any)
	assert.Len(t, log, 1)
}

func TestGraphHandler_HandleRun_GraphNotFound(t *testing.T) {
	h := newTestHandler(t)

	w := postJSON(t, h.HandleRun, "/api/v1/graphs/run", map[string]any{
		"graph_id": "does-not-exist",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, string(types.ErrGraphNotFound), resp.Error.Code)
}

func TestGraphHandler_HandleRun_MissingGraphID(t *testing.T) {
	h := newTestHandler(t)

	w := postJSON(t, h.HandleRun, "/api/v1/graphs/run", map[string]any{
		"initial_state": map[string]any{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGraphHandler_HandleRun_UnregisteredTool(t *testing.T) {
	h := newTestHandler(t)

	w := postJSON(t, h.HandleCreate, "/api/v1/graphs", map[string]any{
		"nodes": []map[string]any{
			{"name": "only", "tool": "missing_tool"},
		},
		"start_node": "only",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	graphID := resp.Data.(map[string]any)["graph_id"].(string)

	w = postJSON(t, h.HandleRun, "/api/v1/graphs/run", map[string]any{
		"graph_id": graphID,
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp = decodeResponse(t, w)
	assert.Equal(t, string(types.ErrUnregisteredTool), resp.Error.Code)
}

// =============================================================================
// 🧪 HandleRunState 测试
// =============================================================================

func TestGraphHandler_HandleRunState(t *testing.T) {
	h := newTestHandler(t)
	graphID := createTestGraph(t, h)

	w := postJSON(t, h.HandleRun, "/api/v1/graphs/run", map[string]any{
		"graph_id": graphID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	runID := decodeResponse(t, w).Data.(map[string]any)["run_id"].(string)

	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+runID, nil)
	r.SetPathValue("id", runID)
	h.HandleRunState(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, runID, data["run_id"])
	assert.Equal(t, graphID, data["graph_id"])
	assert.Equal(t, string(types.RunCompleted), data["status"])
	assert.Len(t, data["log"].([]any), 1)
}

func TestGraphHandler_HandleRunState_NotFound(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/runs/missing", nil)
	r.SetPathValue("id", "missing")
	h.HandleRunState(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, string(types.ErrRunNotFound), resp.Error.Code)
}

func TestGraphHandler_HandleRunState_MissingID(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/runs/", nil)
	h.HandleRunState(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// 🧪 HandleSample 测试
// =============================================================================

func TestGraphHandler_HandleSample_NotBootstrapped(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/graphs/sample", nil)
	h.HandleSample(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGraphHandler_HandleSample(t *testing.T) {
	h := newTestHandler(t)
	h.SetSampleGraphID("sample-123")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/graphs/sample", nil)
	h.HandleSample(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "sample-123", data["graph_id"])
}
