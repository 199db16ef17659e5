package client

import "context"

const (
	// FailurePrefix 失败提示的通用前缀
	FailurePrefix = "Request failed."
	// PermissionDeniedMessage 403时的固定提示
	PermissionDeniedMessage = "Permission denied!"
)

// Notifier 用户可见的提示通道
type Notifier interface {
	// Error 展示错误提示, 不阻塞调用方
	Error(ctx context.Context, message string)
}

// Navigator 导航通道
type Navigator interface {
	// Redirect 跳转到指定视图路径
	Redirect(ctx context.Context, path string)
}

// SessionState 客户端读取与清除会话的能力
type SessionState interface {
	// Token 当前会话令牌, 未登录时为空
	Token() string
	// Clear 清除会话
	Clear(ctx context.Context) error
}

// NotifierFunc 函数形式的Notifier
type NotifierFunc func(ctx context.Context, message string)

// Error 实现Notifier
func (f NotifierFunc) Error(ctx context.Context, message string) { f(ctx, message) }

// NavigatorFunc 函数形式的Navigator
type NavigatorFunc func(ctx context.Context, path string)

// Redirect 实现Navigator
func (f NavigatorFunc) Redirect(ctx context.Context, path string) { f(ctx, path) }

// NopNotifier 丢弃所有提示
type NopNotifier struct{}

// Error 实现Notifier
func (NopNotifier) Error(context.Context, string) {}

// NopNavigator 忽略所有跳转
type NopNavigator struct{}

// Redirect 实现Navigator
func (NopNavigator) Redirect(context.Context, string) {}
