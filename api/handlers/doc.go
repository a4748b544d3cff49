// Copyright (c) GraphFlow Authors.
// Licensed under the MIT License.

/*
Package handlers 提供 GraphFlow HTTP API 的请求处理器实现。

# 概述

handlers 包实现了 GraphFlow 所有 HTTP 端点的请求处理逻辑，
包括图定义创建、图运行、运行状态查询、健康检查以及统一的
响应/错误处理。所有 Handler 均遵循标准 net/http 接口，
通过 Swagger 注解生成 API 文档。

# 核心类型

  - GraphHandler     — 图创建、运行与运行状态查询
  - HealthHandler    — 服务健康检查（/health, /healthz, /ready）
  - Response         — 统一 JSON 响应结构（success + data + error + timestamp）
  - ErrorInfo        — 结构化错误信息，含 code 与 message
  - ResponseWriter   — 包装 http.ResponseWriter 以捕获状态码
  - HealthCheck      — 可插拔健康检查接口（Redis 等存储后端）

# 主要能力

  - 统一响应格式：WriteSuccess / WriteError / WriteJSON 辅助函数
  - 请求验证：DecodeJSONBody（严格模式）、ValidateContentType
  - ErrorCode → HTTP 状态码自动映射（4xx/5xx）
  - 可扩展健康检查：RegisterCheck 注册自定义 HealthCheck 实现
*/
package handlers
