// Copyright (c) Graphflow Authors.
// Licensed under the MIT License.

/*
Package types 提供 Graphflow 引擎的全局共享类型定义。

# 概述

types 是仓库最底层的公共包，不依赖任何内部包，为 workflow、tools、api
等上层模块提供统一的类型契约。跨包共享的结构体、枚举和错误码均定义于此，
以避免循环依赖。

# 核心类型

  - Condition / Op    — 边上的条件守卫（key、比较操作符、标量值）
  - NodeConfig        — 图节点（名称、工具名、工具配置）
  - EdgeConfig        — 有向边（source、target、可选 Condition）
  - GraphDefinition   — 不可变的图定义（id、start_node、节点表、有序边表）
  - Run / RunStatus   — 一次执行记录（状态机 pending → running → completed|failed）
  - StepLog           — 单步执行日志（节点、工具、状态快照）
  - State             — 贯穿工具调用的键值状态，Clone 提供深拷贝
  - Error / ErrorCode — 结构化错误体系，含 HTTP 状态码与错误链

# 主要能力

  - 错误工具链：WithCause / WithHTTPStatus / GetErrorCode / Unwrap
  - 状态快照：State.Clone 深拷贝嵌套 map 与 slice，日志快照不受后续变更影响
*/
package types
