// Package session 持久化的会话与分页偏好
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("session: key not found")

// Store 键值持久化仓库
type Store interface {
	// Get 读取键值, 不存在时返回ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 写入键值
	Set(ctx context.Context, key string, value []byte) error
	// Clear 删除键, 键不存在不视为错误
	Clear(ctx context.Context, key string) error
}

// StoreConfig 仓库配置
type StoreConfig struct {
	// Backend 存储类型: memory, file 或 redis
	Backend   string
	Dir       string
	RedisAddr string
	RedisDB   int
	// TTL redis键的过期时间, 0表示不过期
	TTL    time.Duration
	Prefix string
}

// NewStore 按配置创建仓库
// 参数: cfg 仓库配置, logger 日志记录器
// 返回值: Store 仓库实例, error 错误信息
func NewStore(cfg StoreConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case "", "file":
		dir := cfg.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve home directory: %w", err)
			}
			dir = filepath.Join(home, ".eauth-console")
		}
		logger.Debug("Using file session store", zap.String("dir", dir))
		return NewFileStore(dir), nil
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		logger.Debug("Using redis session store", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
		return NewRedisStore(client, cfg.Prefix, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Backend)
	}
}

// MemoryStore 进程内仓库, 进程退出即丢失
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore 创建内存仓库
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get 读取键值
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Set 写入键值
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Clear 删除键
func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// FileStore 文件仓库, 每个键对应目录下的一个JSON文件
type FileStore struct {
	// dir 存储目录
	dir string

	// cache 已读取的键值
	cache map[string][]byte

	mu sync.RWMutex
}

// NewFileStore 创建文件仓库
// 参数: dir 存储目录, 首次写入时创建
// 返回值: *FileStore 仓库实例
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:   dir,
		cache: make(map[string][]byte),
	}
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get 读取键值
func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	value, ok := f.cache[key]
	f.mu.RUnlock()
	if ok {
		return append([]byte(nil), value...), nil
	}

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	f.mu.Lock()
	f.cache[key] = data
	f.mu.Unlock()
	return append([]byte(nil), data...), nil
}

// Set 写入键值
func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	if err := os.WriteFile(f.path(key), value, 0600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	f.cache[key] = append([]byte(nil), value...)
	return nil
}

// Clear 删除键
func (f *FileStore) Clear(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	delete(f.cache, key)
	return nil
}

// RedisStore Redis仓库
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore 创建Redis仓库
// 参数:
//   - client: Redis客户端
//   - prefix: key前缀
//   - ttl: 过期时间, 0表示不过期
//
// 返回值:
//   - *RedisStore: Redis仓库实例
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "eauth-console"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

// Get 读取键值
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set 写入键值
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Clear 删除键
func (r *RedisStore) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Client 返回底层Redis客户端
func (r *RedisStore) Client() *redis.Client {
	return r.client
}
