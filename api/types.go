package api

import (
	"github.com/BaSui01/graphflow/types"
)

// =============================================================================
// 图定义类型
// =============================================================================

// CreateGraphRequest 代表图创建请求。
// @Description 图创建请求结构
type CreateGraphRequest struct {
	// 节点列表
	Nodes []types.NodeConfig `json:"nodes" binding:"required"`
	// 有序边列表
	Edges []types.EdgeConfig `json:"edges"`
	// 起始节点名称
	StartNode string `json:"start_node" example:"split" binding:"required"`
}

// CreateGraphResponse 表示图创建响应。
// @Description 图创建响应结构
type CreateGraphResponse struct {
	// 新分配的图 ID
	GraphID string `json:"graph_id" example:"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"`
}

// =============================================================================
// 运行类型
// =============================================================================

// RunGraphRequest 代表运行请求。
// @Description 图运行请求结构
type RunGraphRequest struct {
	// 目标图 ID
	GraphID string `json:"graph_id" example:"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d" binding:"required"`
	// 初始状态
	InitialState types.State `json:"initial_state,omitempty"`
}

// RunGraphResponse 表示运行完成后的响应。
// @Description 图运行响应结构
type RunGraphResponse struct {
	// 运行 ID
	RunID string `json:"run_id" example:"5a8f6c2e-1d4b-4f7a-b3c9-8e2d1f0a6b4c"`
	// 运行终态
	Status types.RunStatus `json:"status" example:"completed"`
	// 最终状态
	FinalState types.State `json:"final_state"`
	// 步骤日志
	Log []types.StepLog `json:"log"`
}

// RunStateResponse 表示运行状态查询响应。
// @Description 运行状态查询响应结构
type RunStateResponse struct {
	// 运行 ID
	RunID string `json:"run_id"`
	// 所属图 ID
	GraphID string `json:"graph_id"`
	// 当前状态（pending、running、completed、failed）
	Status types.RunStatus `json:"status" example:"completed"`
	// 当前节点（运行结束后通常为空）
	CurrentNode string `json:"current_node,omitempty"`
	// 当前状态映射
	State types.State `json:"state"`
	// 步骤日志
	Log []types.StepLog `json:"log"`
}

// SampleGraphResponse 表示示例图查询响应。
// @Description 示例图查询响应结构
type SampleGraphResponse struct {
	// 示例图 ID，未创建时为空
	GraphID string `json:"graph_id,omitempty"`
}
