package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vera-byte/eauth-console/pkg/model"
)

// Throttle 登录尝试计数器
// Hit 记录一次尝试, 返回是否放行以及窗口内剩余次数
type Throttle interface {
	Hit(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Reset(ctx context.Context, key string) error
	Window() time.Duration
}

// ThrottleConfig 登录限流配置
type ThrottleConfig struct {
	// Attempts 窗口内允许的尝试次数, <=0 表示不限流
	Attempts int
	Window   time.Duration
	Prefix   string
	// Redis 非nil时多个控制台实例共享计数
	Redis *redis.Client
}

// NewThrottle 按配置创建计数器
// 参数: cfg 限流配置
// 返回值: Throttle 计数器
func NewThrottle(cfg ThrottleConfig) Throttle {
	if cfg.Attempts <= 0 {
		return Unthrottled{}
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Redis != nil {
		if cfg.Prefix == "" {
			cfg.Prefix = "eauth:login"
		}
		return &RedisThrottle{client: cfg.Redis, attempts: cfg.Attempts, window: cfg.Window, prefix: cfg.Prefix}
	}
	return NewMemoryThrottle(cfg.Attempts, cfg.Window)
}

// RedisThrottle 基于有序集合的滑动窗口计数
type RedisThrottle struct {
	client   *redis.Client
	attempts int
	window   time.Duration
	prefix   string
}

// hitScript 清理过期尝试并原子地计数, 返回 {放行, 窗口内次数}
var hitScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, ARGV[1])
local n = redis.call('ZCARD', KEYS[1])
if n >= tonumber(ARGV[3]) then
	return {0, n}
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return {1, n + 1}
`)

func (r *RedisThrottle) Hit(ctx context.Context, key string) (bool, int, error) {
	now := time.Now()
	res, err := hitScript.Run(ctx, r.client, []string{r.prefix + ":" + key},
		now.Add(-r.window).UnixMilli(),
		now.UnixMilli(),
		r.attempts,
		strconv.FormatInt(now.UnixNano(), 10),
		r.window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("unexpected throttle reply %v", res)
	}
	return res[0] == 1, max(r.attempts-int(res[1]), 0), nil
}

func (r *RedisThrottle) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+":"+key).Err()
}

func (r *RedisThrottle) Window() time.Duration { return r.window }

// MemoryThrottle 单实例内存计数
type MemoryThrottle struct {
	attempts int
	window   time.Duration

	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewMemoryThrottle 创建内存计数器
func NewMemoryThrottle(attempts int, window time.Duration) *MemoryThrottle {
	return &MemoryThrottle{attempts: attempts, window: window, hits: make(map[string][]time.Time)}
}

func (m *MemoryThrottle) Hit(_ context.Context, key string) (bool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-m.window)
	recent := m.hits[key][:0]
	for _, at := range m.hits[key] {
		if at.After(cutoff) {
			recent = append(recent, at)
		}
	}
	if len(recent) >= m.attempts {
		m.hits[key] = recent
		return false, 0, nil
	}
	m.hits[key] = append(recent, now)
	return true, m.attempts - len(m.hits[key]), nil
}

func (m *MemoryThrottle) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.hits, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryThrottle) Window() time.Duration { return m.window }

// Unthrottled 不限流
type Unthrottled struct{}

func (Unthrottled) Hit(context.Context, string) (bool, int, error) { return true, -1, nil }
func (Unthrottled) Reset(context.Context, string) error            { return nil }
func (Unthrottled) Window() time.Duration                          { return 0 }

// ClientKey 以客户端地址作为计数键
// 转发头只在请求来自引擎配置的可信代理(SetTrustedProxies)时生效
func ClientKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// LoginThrottle 登录限流中间件, 超限时返回429与统一响应结构
// 参数: t 计数器, logger 日志记录器
// 返回值: gin.HandlerFunc 中间件
func LoginThrottle(t Throttle, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := ClientKey(c)
		allowed, remaining, err := t.Hit(c.Request.Context(), key)
		if err != nil {
			// 计数不可用时不阻断登录
			logger.Warn("Login throttle unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}
		if !allowed {
			logger.Info("Login attempts exceeded", zap.String("key", key))
			c.Header("Retry-After", strconv.Itoa(int(t.Window().Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.Envelope[any]{
				ErrorMessage: "too many login attempts, try again later",
			})
			return
		}
		c.Next()
	}
}
