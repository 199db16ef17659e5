// Package client eauth后端的HTTP客户端
//
// 所有请求都经过同一个Client: 请求阶段注入会话令牌(无令牌时跳转登录页),
// 响应阶段解析统一响应结构并把失败转换为提示或登录跳转, 之后失败仍然返回给调用方.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vera-byte/eauth-console/pkg/attrs"
	"github.com/vera-byte/eauth-console/pkg/model"
)

const (
	// DefaultTimeout 默认请求超时时间
	DefaultTimeout = 10 * time.Second
	// DefaultLoginPath 默认登录页路径
	DefaultLoginPath = "/login"
	// DefaultAuthScheme 默认认证方案
	DefaultAuthScheme = "Bearer"
	// RawAuthScheme 令牌原样写入Authorization头
	RawAuthScheme = "raw"

	// RequestIDHeader 请求ID头
	RequestIDHeader = "X-Request-ID"
)

// Config 客户端配置
type Config struct {
	// Domain 后端地址, 基础路径为 Domain + "/api"
	Domain string
	// BaseURL 显式指定基础路径, 优先于Domain
	BaseURL string
	// Timeout 请求超时时间, 为0时使用DefaultTimeout
	Timeout time.Duration
	// AuthScheme Authorization头前缀, "raw"表示不加前缀
	AuthScheme string
	// LoginPath 未认证时跳转的路径
	LoginPath string
	// UserAgent 请求User-Agent
	UserAgent string
}

// Client eauth后端客户端
type Client struct {
	baseURL    string
	loginPath  string
	authScheme string
	userAgent  string
	httpClient *http.Client
	session    SessionState
	notifier   Notifier
	navigator  Navigator
	logger     *zap.Logger
}

// Option 客户端选项
type Option func(*Client)

// WithNotifier 设置提示通道
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithNavigator 设置跳转通道
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient 替换底层HTTP客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New 创建新的客户端
// 参数: cfg 客户端配置, session 会话状态, opts 可选项
// 返回值: *Client 客户端, error 错误信息
func New(cfg Config, session SessionState, opts ...Option) (*Client, error) {
	if session == nil {
		return nil, errors.New("session state is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Domain == "" {
			return nil, errors.New("backend domain is required")
		}
		baseURL = strings.TrimRight(cfg.Domain, "/") + "/api"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	scheme := cfg.AuthScheme
	if scheme == "" {
		scheme = DefaultAuthScheme
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "eauth-console"
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		loginPath:  loginPath,
		authScheme: scheme,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
		notifier:   NopNotifier{},
		navigator:  NopNavigator{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// With 返回应用了选项的客户端副本, 共享传输层与会话
func (c *Client) With(opts ...Option) *Client {
	clone := *c
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// BaseURL 返回基础路径
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoginPath 返回登录页路径
func (c *Client) LoginPath() string {
	return c.loginPath
}

// request 单次请求描述
type request struct {
	method string
	path   string
	query  any
	body   any
	// public 无需会话令牌的接口
	public bool
}

// Raw 不关心data内容的响应
type Raw = model.Envelope[json.RawMessage]

// send 发送请求并解析为指定data类型的响应结构
func send[T any](ctx context.Context, c *Client, r request) (*model.Envelope[T], error) {
	status, body, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}

	env := &model.Envelope[T]{}
	if len(bytes.TrimSpace(body)) == 0 {
		env.Success = true
		return env, nil
	}

	// data只在success为true时才有约定的结构
	var head model.Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &head); err != nil {
		return nil, c.malformed(r, status, err)
	}
	env.Success = head.Success
	env.Pagination = head.Pagination
	env.ErrorMessage = head.ErrorMessage
	env.Detail = head.Detail
	if env.Success && len(head.Data) > 0 {
		if err := json.Unmarshal(head.Data, &env.Data); err != nil {
			return nil, c.malformed(r, status, err)
		}
	}

	if !env.Success {
		c.logger.Info("Request reported failure",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.String("error_message", env.ErrorMessage))
		c.notifier.Error(ctx, env.ErrorText(FailurePrefix))
	}
	return env, nil
}

// malformed 记录并包装无法解析的响应
func (c *Client) malformed(r request, status int, err error) error {
	c.logger.Warn("Malformed response envelope",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", status),
		zap.Error(err))
	return fmt.Errorf("%s %s: decode response: %w", r.method, r.path, err)
}

// do 执行请求阶段与传输, 非2xx状态在这里完成响应阶段的处理
// 返回值: int 状态码, []byte 响应体, error 错误信息
func (c *Client) do(ctx context.Context, r request) (int, []byte, error) {
	token := c.session.Token()
	if token == "" && !r.public {
		c.logger.Info("No session token, redirecting to login",
			zap.String("method", r.method),
			zap.String("path", r.path))
		c.navigator.Redirect(ctx, c.loginPath)
		return 0, nil, ErrNoSession
	}

	req, err := c.newRequest(ctx, r, token)
	if err != nil {
		return 0, nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Error(err))
		return 0, nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s %s: read response: %w", r.method, r.path, err)
	}

	c.logger.Debug("Request completed",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.String("request_id", req.Header.Get(RequestIDHeader)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, body, nil
	}
	return resp.StatusCode, body, c.handleStatus(ctx, r, resp.StatusCode, body)
}

// newRequest 构建HTTP请求
func (c *Client) newRequest(ctx context.Context, r request, token string) (*http.Request, error) {
	target := c.baseURL + r.path
	if r.query != nil {
		values, err := attrs.Values(r.query)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
		}
		if encoded := values.Encode(); encoded != "" {
			target += "?" + encoded
		}
	}

	var reader io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", r.method, r.path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", c.authorization(token))
	}
	return req, nil
}

// authorization 构建Authorization头
// 已带认证方案的令牌原样发送
func (c *Client) authorization(token string) string {
	if c.authScheme == RawAuthScheme || strings.Contains(token, " ") {
		return token
	}
	return c.authScheme + " " + token
}

// handleStatus 处理错误状态码: 401跳转登录, 403提示无权限, 422提示校验失败
func (c *Client) handleStatus(ctx context.Context, r request, status int, body []byte) error {
	respErr := &ResponseError{
		StatusCode: status,
		Method:     r.method,
		Path:       r.path,
		Body:       body,
	}
	var env model.Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil {
		respErr.Envelope = &env
	}

	c.logger.Info("Request rejected",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", status))

	switch status {
	case http.StatusUnauthorized:
		if err := c.session.Clear(ctx); err != nil {
			c.logger.Warn("Failed to clear session", zap.Error(err))
		}
		c.navigator.Redirect(ctx, c.loginPath)
	case http.StatusForbidden:
		c.notifier.Error(ctx, PermissionDeniedMessage)
	case http.StatusUnprocessableEntity:
		if respErr.Envelope == nil {
			respErr.Envelope = &model.Envelope[json.RawMessage]{ErrorMessage: strings.TrimSpace(string(body))}
		}
		c.notifier.Error(ctx, respErr.Envelope.ErrorText(FailurePrefix))
	}
	return respErr
}
