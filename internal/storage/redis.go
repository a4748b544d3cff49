// Package storage provides the Redis-backed graph and run stores.
// This package is internal and should not be imported by external projects.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BaSui01/graphflow/types"
)

// =============================================================================
// 💾 Redis 存储客户端
// =============================================================================

const (
	graphKeyPrefix = "graphflow:graph:"
	runKeyPrefix   = "graphflow:run:"
)

// Config Redis 存储配置
type Config struct {
	// Redis 地址
	Addr string `yaml:"addr" json:"addr"`

	// 密码
	Password string `yaml:"password" json:"password"`

	// 数据库编号
	DB int `yaml:"db" json:"db"`

	// 最大重试次数
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// 连接池大小
	PoolSize int `yaml:"pool_size" json:"pool_size"`

	// 最小空闲连接数
	MinIdleConns int `yaml:"min_idle_conns" json:"min_idle_conns"`
}

// DefaultConfig 返回默认存储配置
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// Client 持有到 Redis 的连接，并派生图存储与运行记录存储。
type Client struct {
	redis  *redis.Client
	logger *zap.Logger
	mu     sync.RWMutex
	closed bool
}

// New 创建存储客户端并验证连接
func New(config Config, logger *zap.Logger) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		MaxRetries:   config.MaxRetries,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	c := &Client{
		redis:  client,
		logger: logger.With(zap.String("component", "storage")),
	}

	logger.Info("redis storage initialized",
		zap.String("addr", config.Addr),
		zap.Int("pool_size", config.PoolSize),
	)

	return c, nil
}

// GraphStore 返回基于此客户端的图存储
func (c *Client) GraphStore() *RedisGraphStore {
	return &RedisGraphStore{client: c}
}

// RunStore 返回基于此客户端的运行记录存储
func (c *Client) RunStore() *RedisRunStore {
	return &RedisRunStore{client: c}
}

// Ping 检查 Redis 连接
func (c *Client) Ping(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return fmt.Errorf("storage client is closed")
	}

	return c.redis.Ping(ctx).Err()
}

// Close 关闭存储客户端
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.logger.Info("closing storage client")

	return c.redis.Close()
}

// get 读取并反序列化一个键，missCode 标记未命中错误
func (c *Client) get(ctx context.Context, key string, missCode types.ErrorCode, missMsg string, dest any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return types.NewError(types.ErrStoreFailure, "storage client is closed")
	}

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return types.NewError(missCode, missMsg)
	}
	if err != nil {
		c.logger.Error("storage get failed", zap.String("key", key), zap.Error(err))
		return types.NewError(types.ErrStoreFailure, "storage get failed").WithCause(err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return types.NewError(types.ErrStoreFailure, "failed to decode stored record").WithCause(err)
	}

	return nil
}

// set 序列化并写入一个键，不设置过期时间
func (c *Client) set(ctx context.Context, key string, value any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return types.NewError(types.ErrStoreFailure, "storage client is closed")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return types.NewError(types.ErrStoreFailure, "failed to encode record").WithCause(err)
	}

	if err := c.redis.Set(ctx, key, string(data), 0).Err(); err != nil {
		c.logger.Error("storage set failed", zap.String("key", key), zap.Error(err))
		return types.NewError(types.ErrStoreFailure, "storage set failed").WithCause(err)
	}

	return nil
}

// =============================================================================
// 🎯 图存储 / 运行记录存储
// =============================================================================

// RedisGraphStore 将图定义保存为 Redis 中的 JSON 记录。
type RedisGraphStore struct {
	client *Client
}

// Put 按 id 写入图定义
func (s *RedisGraphStore) Put(ctx context.Context, graph *types.GraphDefinition) error {
	return s.client.set(ctx, graphKeyPrefix+graph.ID, graph)
}

// Get 按 id 读取图定义
func (s *RedisGraphStore) Get(ctx context.Context, id string) (*types.GraphDefinition, error) {
	var graph types.GraphDefinition
	err := s.client.get(ctx, graphKeyPrefix+id,
		types.ErrGraphNotFound, fmt.Sprintf("graph %q not found", id), &graph)
	if err != nil {
		return nil, err
	}
	return &graph, nil
}

// RedisRunStore 将运行记录保存为 Redis 中的 JSON 记录。
// 记录按值快照持久化，执行器在每次状态迁移时重新写入。
type RedisRunStore struct {
	client *Client
}

// Put 按 run_id 写入运行记录
func (s *RedisRunStore) Put(ctx context.Context, run *types.Run) error {
	return s.client.set(ctx, runKeyPrefix+run.RunID, run)
}

// Get 按 run_id 读取运行记录
func (s *RedisRunStore) Get(ctx context.Context, id string) (*types.Run, error) {
	var run types.Run
	err := s.client.get(ctx, runKeyPrefix+id,
		types.ErrRunNotFound, fmt.Sprintf("run %q not found", id), &run)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
