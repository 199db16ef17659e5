package console

import (
	"context"
	"sync"
)

// scope 单个请求内收集的提示与跳转
type scope struct {
	mu            sync.Mutex
	notifications []string
	redirect      string
}

// Error 实现client.Notifier
func (s *scope) Error(_ context.Context, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, message)
}

// Redirect 实现client.Navigator, 只保留第一次跳转
func (s *scope) Redirect(_ context.Context, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.redirect == "" {
		s.redirect = path
	}
}

func (s *scope) snapshot() ([]string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notifications...), s.redirect
}
