package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/BaSui01/graphflow/api/handlers"
	"github.com/BaSui01/graphflow/config"
	"github.com/BaSui01/graphflow/internal/metrics"
	"github.com/BaSui01/graphflow/internal/server"
	"github.com/BaSui01/graphflow/internal/storage"
	"github.com/BaSui01/graphflow/internal/telemetry"
	"github.com/BaSui01/graphflow/tools"
	"github.com/BaSui01/graphflow/types"
	"github.com/BaSui01/graphflow/workflow"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是 GraphFlow 的主服务器
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	otel   *telemetry.Providers

	// 服务器管理器
	httpManager    *server.Manager
	metricsManager *server.Manager

	// 工作流服务
	service       *workflow.Service
	storageClient *storage.Client

	// Handlers
	healthHandler *handlers.HealthHandler
	graphHandler  *handlers.GraphHandler

	// 指标收集器
	metricsCollector *metrics.Collector

	// Rate limiter 生命周期管理
	rateLimiterCancel context.CancelFunc

	wg sync.WaitGroup
}

// NewServer 创建新的服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger, otel *telemetry.Providers) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		otel:   otel,
	}
}

// =============================================================================
// 🚀 启动流程
// =============================================================================

// Start 启动所有服务
func (s *Server) Start() error {
	// 1. 初始化指标收集器
	s.metricsCollector = metrics.NewCollector("graphflow", s.logger)

	// 2. 初始化工作流服务（存储后端 + 工具注册表 + 执行器）
	if err := s.initWorkflowService(); err != nil {
		return fmt.Errorf("failed to init workflow service: %w", err)
	}

	// 3. 初始化 Handlers
	if err := s.initHandlers(); err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	// 4. 启动 HTTP 服务器
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	// 5. 启动 Metrics 服务器
	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
		zap.String("storage_backend", s.cfg.Storage.Backend),
	)

	return nil
}

// =============================================================================
// 🔧 初始化方法
// =============================================================================

// initWorkflowService 初始化存储后端、工具注册表和工作流服务
func (s *Server) initWorkflowService() error {
	var (
		graphs workflow.GraphStore
		runs   workflow.RunStore
	)

	switch s.cfg.Storage.Backend {
	case "redis":
		client, err := storage.New(storage.Config{
			Addr:         s.cfg.Redis.Addr,
			Password:     s.cfg.Redis.Password,
			DB:           s.cfg.Redis.DB,
			PoolSize:     s.cfg.Redis.PoolSize,
			MinIdleConns: s.cfg.Redis.MinIdleConns,
		}, s.logger)
		if err != nil {
			return fmt.Errorf("failed to connect redis: %w", err)
		}
		s.storageClient = client
		graphs = client.GraphStore()
		runs = client.RunStore()
	default:
		graphs = workflow.NewMemoryGraphStore()
		runs = workflow.NewMemoryRunStore()
	}

	registry := workflow.NewToolRegistry(s.logger)
	if s.cfg.Engine.Bootstrap {
		tools.RegisterBuiltins(registry)
	}

	s.service = workflow.NewService(registry, graphs, runs, s.logger)
	s.service.Executor().SetMaxSteps(s.cfg.Engine.MaxSteps)
	s.service.Executor().SetObserver(s.metricsCollector)

	s.logger.Info("Workflow service initialized",
		zap.String("storage_backend", s.cfg.Storage.Backend),
		zap.Int("max_steps", s.cfg.Engine.MaxSteps),
		zap.Strings("tools", registry.Names()),
	)
	return nil
}

// initHandlers 初始化所有 handlers
func (s *Server) initHandlers() error {
	// 健康检查 handler
	s.healthHandler = handlers.NewHealthHandler(s.logger)
	if s.storageClient != nil {
		s.healthHandler.RegisterCheck(handlers.NewStoreHealthCheck("redis", s.storageClient.Ping))
	}

	// 工作流 handler
	s.graphHandler = handlers.NewGraphHandler(s.service, s.logger)
	s.graphHandler.SetGraphCreatedCallback(s.metricsCollector.RecordGraphCreated)

	// 内置示例图（文本摘要流水线）
	if s.cfg.Engine.Bootstrap {
		if err := s.bootstrapSampleGraph(); err != nil {
			return fmt.Errorf("failed to bootstrap sample graph: %w", err)
		}
	}

	s.logger.Info("Handlers initialized")
	return nil
}

// bootstrapSampleGraph 创建内置的四节点摘要流水线并注册为示例图。
// refine 节点带自环：当 summary_length 仍超过目标长度时重新进入 refine。
func (s *Server) bootstrapSampleGraph() error {
	nodes := []types.NodeConfig{
		{Name: "split", Tool: tools.ToolSplitText, Config: map[string]any{"chunk_size": 250}},
		{Name: "summarize", Tool: tools.ToolSummarizeChunks, Config: map[string]any{"summary_words": 40}},
		{Name: "merge", Tool: tools.ToolMergeSummaries},
		{Name: "refine", Tool: tools.ToolRefineSummary, Config: map[string]any{"target_length": 400}},
	}
	edges := []types.EdgeConfig{
		{Source: "split", Target: "summarize"},
		{Source: "summarize", Target: "merge"},
		{Source: "merge", Target: "refine"},
		{Source: "refine", Target: "refine", Condition: &types.Condition{
			Key:   "summary_length",
			Op:    types.OpGt,
			Value: 400,
		}},
	}

	id, err := s.service.CreateGraph(context.Background(), nodes, edges, "split")
	if err != nil {
		return err
	}

	s.graphHandler.SetSampleGraphID(id)
	s.logger.Info("Sample graph registered", zap.String("graph_id", id))
	return nil
}

// =============================================================================
// 🌐 HTTP 服务器
// =============================================================================

// startHTTPServer 启动 HTTP 服务器
func (s *Server) startHTTPServer() error {
	mux := http.NewServeMux()

	// ========================================
	// 健康检查端点
	// ========================================
	mux.HandleFunc("/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealthz)
	mux.HandleFunc("/ready", s.healthHandler.HandleReady)
	mux.HandleFunc("/readyz", s.healthHandler.HandleReady)

	// 版本信息端点
	mux.HandleFunc("/version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	// ========================================
	// API 路由
	// ========================================
	mux.HandleFunc("POST /api/v1/graphs", s.graphHandler.HandleCreate)
	mux.HandleFunc("POST /api/v1/graphs/run", s.graphHandler.HandleRun)
	mux.HandleFunc("GET /api/v1/graphs/sample", s.graphHandler.HandleSample)
	mux.HandleFunc("GET /api/v1/runs/{id}", s.graphHandler.HandleRunState)
	s.logger.Info("Workflow API routes registered")

	// ========================================
	// 构建中间件链
	// ========================================
	rateLimiterCtx, rateLimiterCancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = rateLimiterCancel
	handler := Chain(mux,
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		OTelTracing(),
		MetricsMiddleware(s.metricsCollector),
		RateLimiter(rateLimiterCtx, float64(s.cfg.Server.RateLimitRPS), s.cfg.Server.RateLimitBurst, s.logger),
	)

	// ========================================
	// 使用 internal/server.Manager
	// ========================================
	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout, // 2x ReadTimeout
		MaxHeaderBytes:  1 << 20,                      // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.httpManager = server.NewManager(handler, serverConfig, s.logger)

	// 启动服务器（非阻塞）
	if err := s.httpManager.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.Int("port", s.cfg.Server.HTTPPort))
	return nil
}

// =============================================================================
// 📊 Metrics 服务器
// =============================================================================

// startMetricsServer 启动 Metrics 服务器
func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager(mux, serverConfig, s.logger)

	// 启动服务器（非阻塞）
	if err := s.metricsManager.Start(); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.Int("port", s.cfg.Server.MetricsPort))
	return nil
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// WaitForShutdown 等待关闭信号并优雅关闭
func (s *Server) WaitForShutdown() {
	// 使用 httpManager 的 WaitForShutdown（它会监听信号）
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}

	// 执行清理
	s.Shutdown()
}

// Shutdown 优雅关闭所有服务
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx := context.Background()

	// 0. 停止 rate limiter 清理 goroutine
	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}

	// 1. 关闭 HTTP 服务器
	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}

	// 2. 关闭 Metrics 服务器
	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	// 3. 关闭存储连接
	if s.storageClient != nil {
		if err := s.storageClient.Close(); err != nil {
			s.logger.Error("Storage shutdown error", zap.Error(err))
		}
	}

	// 4. 关闭 OpenTelemetry
	if s.otel != nil {
		if err := s.otel.Shutdown(ctx); err != nil {
			s.logger.Error("Telemetry shutdown error", zap.Error(err))
		}
	}

	// 5. 等待所有 goroutine 完成
	s.wg.Wait()

	s.logger.Info("Graceful shutdown completed")
}
