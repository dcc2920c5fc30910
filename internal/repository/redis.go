package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"shortlink-redirect/internal/config"
)

// 熔断器状态
const (
	CircuitClosed = "closed"
	CircuitOpen   = "open"
)

// CacheGateway 封装 Redis 连接池
// Get/Set 永远不向调用方返回错误：连接失败、超时、熔断都按缓存缺失处理
type CacheGateway struct {
	pool   *redis.Pool
	logger *zap.Logger

	threshold int32
	cooldown  time.Duration
	failures  atomic.Int32 // 连续失败次数
	openUntil atomic.Int64 // 熔断截止时间（UnixNano），0 表示闭合

	now func() time.Time
}

type dialFunc func(ctx context.Context) (redis.Conn, error)

// NewCacheGateway 连接按需建立，启动时不访问 Redis
func NewCacheGateway(cfg config.RedisConfig, logger *zap.Logger) *CacheGateway {
	dial := func(ctx context.Context) (redis.Conn, error) {
		return redis.DialURLContext(ctx, cfg.URL,
			redis.DialConnectTimeout(cfg.DialTimeout),
			redis.DialReadTimeout(cfg.DialTimeout),
			redis.DialWriteTimeout(cfg.DialTimeout),
		)
	}
	return newCacheGateway(dial, cfg, logger)
}

func newCacheGateway(dial dialFunc, cfg config.RedisConfig, logger *zap.Logger) *CacheGateway {
	g := &CacheGateway{
		logger:    logger,
		threshold: int32(cfg.BreakerThreshold),
		cooldown:  cfg.BreakerCooldown,
		now:       time.Now,
	}
	if g.threshold <= 0 {
		g.threshold = 1
	}

	g.pool = &redis.Pool{
		MaxIdle:     cfg.PoolSize,
		MaxActive:   cfg.PoolSize,
		IdleTimeout: 240 * time.Second,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			conn, err := dial(ctx)
			if err != nil {
				logger.Warn("Failed to connect Redis", zap.Error(err))
				return nil, err
			}
			logger.Debug("Redis connection established")
			return conn, nil
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) > time.Minute {
				_, err := c.Do("PING")
				if err != nil {
					logger.Warn("Redis connection health check failed", zap.Error(err))
				}
				return err
			}
			return nil
		},
	}
	return g
}

// Get 返回缓存值；未命中、不可用、熔断均返回 false
func (g *CacheGateway) Get(ctx context.Context, key string) ([]byte, bool) {
	conn, ok := g.conn(ctx, "get", key)
	if !ok {
		return nil, false
	}
	defer g.release(conn)

	value, err := redis.Bytes(conn.Do("GET", key))
	if errors.Is(err, redis.ErrNil) {
		g.recordSuccess()
		return nil, false
	}
	if err != nil {
		g.recordError("get", key, err)
		return nil, false
	}
	g.recordSuccess()
	return value, true
}

// Set 尽力写入，失败只记录日志，不重试
func (g *CacheGateway) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	conn, ok := g.conn(ctx, "set", key)
	if !ok {
		return
	}
	defer g.release(conn)

	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	if _, err := conn.Do("SET", key, value, "EX", seconds); err != nil {
		g.recordError("set", key, err)
		return
	}
	g.recordSuccess()
}

// Delete 尽力删除，返回是否成功
func (g *CacheGateway) Delete(ctx context.Context, key string) bool {
	conn, ok := g.conn(ctx, "delete", key)
	if !ok {
		return false
	}
	defer g.release(conn)

	if _, err := conn.Do("DEL", key); err != nil {
		g.recordError("delete", key, err)
		return false
	}
	g.recordSuccess()
	return true
}

// Ping 保活探测，熔断期间同样执行，成功即闭合熔断器
func (g *CacheGateway) Ping(ctx context.Context) error {
	conn, err := g.pool.GetContext(ctx)
	if err != nil {
		g.recordError("ping", "", err)
		return err
	}
	defer g.release(conn)

	if _, err := conn.Do("PING"); err != nil {
		g.recordError("ping", "", err)
		return err
	}
	g.recordSuccess()
	return nil
}

// State 冷却结束后视为闭合，等待下一次探测
func (g *CacheGateway) State() string {
	if g.allow() {
		return CircuitClosed
	}
	return CircuitOpen
}

func (g *CacheGateway) Close() error {
	return g.pool.Close()
}

func (g *CacheGateway) conn(ctx context.Context, op, key string) (redis.Conn, bool) {
	if !g.allow() {
		g.logger.Debug("Redis circuit open, skipping cache",
			zap.String("operation", op),
			zap.String("cache_key", key),
		)
		return nil, false
	}
	conn, err := g.pool.GetContext(ctx)
	if err != nil {
		g.recordError(op, key, err)
		return nil, false
	}
	return conn, true
}

func (g *CacheGateway) release(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		g.logger.Warn("Failed to close Redis connection",
			zap.Error(err),
			zap.String("operation", "close"),
			zap.String("connection_type", "redis"),
		)
	}
}

// allow 冷却期内拒绝；冷却结束后放行探测请求（半开）
func (g *CacheGateway) allow() bool {
	until := g.openUntil.Load()
	return until == 0 || g.now().UnixNano() >= until
}

func (g *CacheGateway) recordError(op, key string, err error) {
	// 服务端错误回复说明连接本身可用
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		g.logger.Warn("Redis command failed",
			zap.String("operation", op),
			zap.String("cache_key", key),
			zap.Error(err),
		)
		return
	}
	if errors.Is(err, redis.ErrPoolExhausted) {
		g.logger.Warn("Redis pool exhausted", zap.String("operation", op), zap.String("cache_key", key))
		return
	}

	n := g.failures.Add(1)
	g.logger.Warn("Redis unavailable, degrading to store",
		zap.String("operation", op),
		zap.String("cache_key", key),
		zap.Int32("consecutive_failures", n),
		zap.Error(err),
	)
	// 连续失败次数超过阈值后熔断
	if n > g.threshold {
		prev := g.openUntil.Swap(g.now().Add(g.cooldown).UnixNano())
		if prev == 0 {
			g.logger.Error("Redis circuit opened",
				zap.Int32("consecutive_failures", n),
				zap.Duration("cooldown", g.cooldown),
			)
		}
	}
}

func (g *CacheGateway) recordSuccess() {
	g.failures.Store(0)
	if g.openUntil.Swap(0) != 0 {
		g.logger.Info("Redis circuit closed")
	}
}
