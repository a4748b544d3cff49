package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/BaSui01/graphflow/api"
	"github.com/BaSui01/graphflow/types"
	"github.com/BaSui01/graphflow/workflow"
	"go.uber.org/zap"
)

// =============================================================================
// Graph Handler
// =============================================================================

// GraphHandler 处理图定义与运行相关的 API 请求
type GraphHandler struct {
	service *workflow.Service
	logger  *zap.Logger

	mu            sync.RWMutex
	sampleGraphID string
	onCreated     GraphCreatedCallback
}

// GraphCreatedCallback 在图创建成功后调用（例如指标计数）
type GraphCreatedCallback func()

// NewGraphHandler 创建图处理器
func NewGraphHandler(service *workflow.Service, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		service: service,
		logger:  logger,
	}
}

// SetGraphCreatedCallback 注册图创建成功后的回调
func (h *GraphHandler) SetGraphCreatedCallback(cb GraphCreatedCallback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCreated = cb
}

// SetSampleGraphID 记录启动时创建的示例图 ID
func (h *GraphHandler) SetSampleGraphID(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sampleGraphID = id
}

// =============================================================================
// HTTP Handlers
// =============================================================================

// HandleCreate creates a graph definition
// @Summary Create graph
// @Description Validate and store a workflow graph definition
// @Tags graph
// @Accept json
// @Produce json
// @Param request body api.CreateGraphRequest true "Graph definition"
// @Success 200 {object} Response{data=api.CreateGraphResponse} "Graph created"
// @Failure 400 {object} Response "Invalid definition"
// @Router /api/v1/graphs [post]
func (h *GraphHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req api.CreateGraphRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	if len(req.Nodes) == 0 {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "nodes are required", h.logger)
		return
	}
	if req.StartNode == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "start_node is required", h.logger)
		return
	}

	graphID, err := h.service.CreateGraph(r.Context(), req.Nodes, req.Edges, req.StartNode)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.mu.RLock()
	cb := h.onCreated
	h.mu.RUnlock()
	if cb != nil {
		cb()
	}

	WriteSuccess(w, api.CreateGraphResponse{GraphID: graphID})
}

// HandleRun runs a graph to completion
// @Summary Run graph
// @Description Execute a stored graph against an initial state
// @Tags graph
// @Accept json
// @Produce json
// @Param request body api.RunGraphRequest true "Run request"
// @Success 200 {object} Response{data=api.RunGraphResponse} "Run finished"
// @Failure 404 {object} Response "Graph not found"
// @Failure 500 {object} Response "Run failed"
// @Router /api/v1/graphs/run [post]
func (h *GraphHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req api.RunGraphRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	if req.GraphID == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "graph_id is required", h.logger)
		return
	}

	run, err := h.service.RunGraph(r.Context(), req.GraphID, req.InitialState)
	if err != nil {
		// 失败的运行仍然被持久化，可通过 /runs/{id} 查询
		h.handleServiceError(w, err)
		return
	}

	WriteSuccess(w, api.RunGraphResponse{
		RunID:      run.RunID,
		Status:     run.Status,
		FinalState: run.State,
		Log:        run.Log,
	})
}

// HandleRunState queries a run's state and step log
// @Summary Get run state
// @Description Get the status, state and step log of a run
// @Tags graph
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} Response{data=api.RunStateResponse} "Run state"
// @Failure 404 {object} Response "Run not found"
// @Router /api/v1/runs/{id} [get]
func (h *GraphHandler) HandleRunState(w http.ResponseWriter, r *http.Request) {
	runID := extractRunID(r)
	if runID == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "run ID is required", h.logger)
		return
	}

	run, err := h.service.GetRunState(r.Context(), runID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	WriteSuccess(w, api.RunStateResponse{
		RunID:       run.RunID,
		GraphID:     run.GraphID,
		Status:      run.Status,
		CurrentNode: run.CurrentNode,
		State:       run.State,
		Log:         run.Log,
	})
}

// HandleSample returns the bootstrap sample graph id
// @Summary Get sample graph id
// @Description Get the id of the sample summarization graph created at startup
// @Tags graph
// @Produce json
// @Success 200 {object} Response{data=api.SampleGraphResponse} "Sample graph id"
// @Failure 404 {object} Response "No sample graph"
// @Router /api/v1/graphs/sample [get]
func (h *GraphHandler) HandleSample(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	id := h.sampleGraphID
	h.mu.RUnlock()

	if id == "" {
		WriteErrorMessage(w, http.StatusNotFound, types.ErrGraphNotFound, "no sample graph was created", h.logger)
		return
	}

	WriteSuccess(w, api.SampleGraphResponse{GraphID: id})
}

// =============================================================================
// 辅助函数
// =============================================================================

// handleServiceError 将服务层错误转换为 API 错误响应
func (h *GraphHandler) handleServiceError(w http.ResponseWriter, err error) {
	if typedErr, ok := err.(*types.Error); ok {
		WriteError(w, typedErr, h.logger)
		return
	}

	internalErr := types.NewError(types.ErrInternalError, "graph operation failed").
		WithCause(err)

	WriteError(w, internalErr, h.logger)
}

// extractRunID extracts the run ID from the URL path.
// Supports both /api/v1/runs/{id} (PathValue) and prefix trimming.
func extractRunID(r *http.Request) string {
	// Try Go 1.22+ PathValue first
	if id := r.PathValue("id"); id != "" {
		return id
	}
	// Fallback: extract from URL path by trimming the /api/v1/runs/ prefix
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	if path != "" && path != r.URL.Path && !strings.Contains(path, "/") {
		return path
	}
	return ""
}
