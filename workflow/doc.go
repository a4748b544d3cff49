// Copyright (c) Graphflow Authors.
// Licensed under the MIT License.

/*
Package workflow 实现 Graphflow 的图执行引擎核心。

# 组件

  - ToolRegistry   — 进程级工具注册表（名称 → 纯状态变换函数）
  - GraphBuilder   — 图校验与构建（起始节点、边端点、重复节点名检查）
  - Evaluate       — 条件求值（缺失键与类型不匹配均不报错，仅判 false）
  - Executor       — 单次运行的同步步进循环（状态穿线、日志快照、步数预算）
  - GraphStore / RunStore — 图定义与运行记录的键值存储接口及内存实现
  - Service        — 组合以上组件，暴露 CreateGraph / RunGraph / GetRunState

# 执行模型

一次运行是严格串行的工具调用序列：每个节点的输出状态是下一节点的输入，
运行内部没有并行。跨运行可以并发执行，GraphDefinition 构建后只读、可安全
共享；每个 Run 的 state 与 log 在其生命周期内被该运行独占。循环是合法的
（自环可用于迭代收敛），唯一的终止保护是固定步数预算。
*/
package workflow
