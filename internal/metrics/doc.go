// 版权所有 2024 GraphFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的全链路指标采集能力，覆盖
HTTP、工作流与存储三大维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离，
支持多维度 label 分组，便于 Grafana 等工具进行可视化与告警。

# 核心类型

  - Collector：指标收集器，持有 Counter、Histogram 等 Prometheus
    向量指标，按业务域分组管理，并实现 workflow.Observer 接口，
    由执行器在每次运行与每个步骤结束时回调。

# 主要能力

  - HTTP 指标：请求总数、请求耗时、请求/响应体大小，
    按 method/path/status 分组，状态码归类为 2xx/3xx/4xx/5xx。
  - 工作流指标：运行总数与耗时（按终态 completed/failed 分组）、
    步骤总数与耗时（按 tool 分组）、图定义创建计数。
  - 存储指标：存储操作耗时，按 backend/operation 分组。
*/
package metrics
