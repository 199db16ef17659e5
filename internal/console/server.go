// Package console 管理控制台服务
//
// 路由把视图路径映射到视图: 列表视图调用后端接口并以JSON返回结果,
// 请求过程中产生的提示随结果一起返回, 跳转登录则转换为302.
package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vera-byte/eauth-console/internal/middleware"
	"github.com/vera-byte/eauth-console/internal/session"
	"github.com/vera-byte/eauth-console/pkg/client"
	"github.com/vera-byte/eauth-console/pkg/model"
)

// Server 控制台服务
type Server struct {
	client  *client.Client
	session *session.Session
	pages   *session.PageStore
	limiter middleware.Throttle
	logger  *zap.Logger
	engine  *gin.Engine

	origins []string
	proxies []string
}

// Option 控制台服务选项
type Option func(*Server)

// WithAllowedOrigins 允许跨域访问的来源, 默认只允许同源
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithTrustedProxies 可信的反向代理地址, 只有来自它们的转发头才用于识别客户端
func WithTrustedProxies(proxies ...string) Option {
	return func(s *Server) { s.proxies = proxies }
}

// NewServer 创建控制台服务
// 参数: c 后端客户端, sess 会话, pages 分页偏好, limiter 登录限流器, logger 日志记录器, opts 可选项
// 返回值: *Server 服务实例, error 可信代理地址无效时返回错误
func NewServer(c *client.Client, sess *session.Session, pages *session.PageStore, limiter middleware.Throttle, logger *zap.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = middleware.Unthrottled{}
	}

	s := &Server{
		client:  c,
		session: sess,
		pages:   pages,
		limiter: limiter,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	engine, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// Handler 返回HTTP处理器
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Routes 已注册的路由
func (s *Server) Routes() gin.RoutesInfo {
	return s.engine.Routes()
}

func (s *Server) routes() (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(s.proxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(s.origins...))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "signed_in": s.session.Token() != ""})
	})

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api")
	})
	router.GET("/login", s.loginView)
	router.POST("/login", middleware.LoginThrottle(s.limiter, s.logger), s.login)
	router.POST("/logout", s.logout)
	router.GET("/page-size", s.pageSize)
	router.PUT("/page-size", s.setPageSize)

	router.GET("/api", listView[model.ApiQuery, *model.ApiQuery, []model.Api](s, "api", (*client.Client).ListApis))
	router.GET("/role", listView[model.RoleQuery, *model.RoleQuery, []model.Role](s, "role", (*client.Client).ListRoles))
	router.GET("/user", listView[model.UserQuery, *model.UserQuery, []model.User](s, "user", (*client.Client).ListUsers))
	router.GET("/operate-log", listView[model.OperateLogQuery, *model.OperateLogQuery, []model.OperateLog](s, "operateLog", (*client.Client).OperateLogs))
	router.GET("/security-log", listView[model.SecurityLogQuery, *model.SecurityLogQuery, []model.SecurityLog](s, "securityLog", (*client.Client).SecurityLogs))

	return router, nil
}

// Run 启动服务, ctx结束时优雅关闭
// 参数: ctx 上下文, addr 监听地址
// 返回值: error 错误信息
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting console", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down console...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// viewResponse 视图响应
type viewResponse struct {
	View          string   `json:"view"`
	Notifications []string `json:"notifications,omitempty"`
	Result        any      `json:"result,omitempty"`
	PageSize      int      `json:"page_size,omitempty"`
	PageSizes     []int    `json:"page_sizes,omitempty"`
}

// scoped 返回绑定到本次请求提示通道的客户端
func (s *Server) scoped() (*client.Client, *scope) {
	sc := &scope{}
	return s.client.With(client.WithNotifier(sc), client.WithNavigator(sc)), sc
}

// respond 按调用结果输出视图
func (s *Server) respond(c *gin.Context, sc *scope, resp viewResponse, err error) {
	notifications, redirect := sc.snapshot()
	resp.Notifications = notifications

	if redirect != "" {
		c.Redirect(http.StatusFound, redirect)
		return
	}

	if err != nil {
		var respErr *client.ResponseError
		if errors.As(err, &respErr) {
			if respErr.Envelope != nil {
				resp.Result = respErr.Envelope
			}
			c.JSON(respErr.StatusCode, resp)
			return
		}
		s.logger.Warn("Backend call failed", zap.String("view", resp.View), zap.Error(err))
		resp.Notifications = append(resp.Notifications, err.Error())
		c.JSON(http.StatusBadGateway, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// pagedQuery 嵌入了PageQuery的查询结构指针
type pagedQuery[Q any] interface {
	*Q
	Paging() *model.PageQuery
}

// listView 列表视图
func listView[Q any, PQ pagedQuery[Q], T any](s *Server, view string, call func(*client.Client, context.Context, Q) (*model.Envelope[T], error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query Q
		if err := c.ShouldBindQuery(&query); err != nil {
			c.JSON(http.StatusBadRequest, viewResponse{View: view, Notifications: []string{err.Error()}})
			return
		}

		paging := PQ(&query).Paging()
		if paging.PerPage == 0 {
			paging.PerPage = s.pages.PageSize()
		}
		if paging.Page == 0 {
			paging.Page = 1
		}

		cl, sc := s.scoped()
		env, err := call(cl, c.Request.Context(), query)

		resp := viewResponse{View: view, PageSize: paging.PerPage, PageSizes: session.PageSizes()}
		if env != nil {
			resp.Result = env
		}
		s.respond(c, sc, resp, err)
	}
}

// loginView 登录视图
func (s *Server) loginView(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"view":      "login",
		"signed_in": s.session.Token() != "",
		"username":  s.session.Username(),
	})
}

// login 登录并保存会话
func (s *Server) login(c *gin.Context) {
	var req model.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, viewResponse{View: "login", Notifications: []string{"invalid login request: " + err.Error()}})
		return
	}

	cl, sc := s.scoped()
	env, err := cl.Login(c.Request.Context(), req)
	resp := viewResponse{View: "login"}
	if err != nil || !env.Success {
		if env != nil {
			resp.Result = env
		}
		s.respond(c, sc, resp, err)
		return
	}

	if env.Data.Value == "" {
		s.logger.Warn("Login response carried no token", zap.String("username", req.Username))
		c.JSON(http.StatusBadGateway, viewResponse{View: "login", Notifications: []string{"login succeeded but no token was returned"}})
		return
	}

	if err := s.session.Login(c.Request.Context(), env.Data.Value, req.Username); err != nil {
		s.logger.Error("Failed to store session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, viewResponse{View: "login", Notifications: []string{"failed to store session"}})
		return
	}
	if err := s.limiter.Reset(c.Request.Context(), middleware.ClientKey(c)); err != nil {
		s.logger.Warn("Failed to reset login throttle", zap.Error(err))
	}

	resp.Result = gin.H{"username": req.Username}
	s.respond(c, sc, resp, nil)
}

// logout 登出, 无论后端结果如何都清除本地会话
func (s *Server) logout(c *gin.Context) {
	cl, sc := s.scoped()
	env, err := cl.Logout(c.Request.Context())

	if clearErr := s.session.Clear(c.Request.Context()); clearErr != nil {
		s.logger.Error("Failed to clear session", zap.Error(clearErr))
	}

	if errors.Is(err, client.ErrNoSession) {
		err = nil
	}
	resp := viewResponse{View: "login"}
	if env != nil {
		resp.Result = env
	}
	s.respond(c, sc, resp, err)
}

// pageSize 查询每页条数
func (s *Server) pageSize(c *gin.Context) {
	c.JSON(http.StatusOK, viewResponse{View: "pageSize", PageSize: s.pages.PageSize(), PageSizes: session.PageSizes()})
}

// setPageSize 修改每页条数
func (s *Server) setPageSize(c *gin.Context) {
	var req struct {
		PageSize int `json:"page_size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, viewResponse{View: "pageSize", Notifications: []string{err.Error()}})
		return
	}
	if err := s.pages.SetPageSize(c.Request.Context(), req.PageSize); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrInvalidPageSize) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, viewResponse{View: "pageSize", Notifications: []string{err.Error()}})
		return
	}
	s.pageSize(c)
}
