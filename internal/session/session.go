package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	// TokenKey 会话的存储键
	TokenKey = "token"
	// PageKey 分页偏好的存储键
	PageKey = "page"
)

type sessionData struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
}

// Session 当前登录会话
// 登录时写入, 每次请求读取, 登出或收到401时清除
type Session struct {
	store  Store
	logger *zap.Logger

	mu   sync.RWMutex
	data sessionData
}

// NewSession 创建会话
// 参数: store 持久化仓库, logger 日志记录器
// 返回值: *Session 会话实例, 需调用Restore恢复已保存的状态
func NewSession(store Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, logger: logger}
}

// Restore 从仓库恢复会话
func (s *Session) Restore(ctx context.Context) error {
	raw, err := s.store.Get(ctx, TokenKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var data sessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn("Discarding corrupt session entry", zap.Error(err))
		return s.store.Clear(ctx, TokenKey)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Login 保存登录后的令牌与用户名
func (s *Session) Login(ctx context.Context, token, username string) error {
	data := sessionData{Token: token, Username: username}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, TokenKey, raw); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	s.logger.Info("Session stored", zap.String("username", username))
	return nil
}

// Token 当前令牌
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

// Username 当前用户名
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Username
}

// Clear 清除会话
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.data = sessionData{}
	s.mu.Unlock()

	if err := s.store.Clear(ctx, TokenKey); err != nil {
		return err
	}
	s.logger.Info("Session cleared")
	return nil
}
