package middleware

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vera-byte/eauth-console/pkg/model"
)

// CORS 跨域中间件
// 控制台以保存的管理员会话访问后端, 只允许同源与显式配置的来源;
// 其他来源的请求直接拒绝, 防止第三方页面读取数据或触发登录、登出
// 参数: origins 允许的来源, 如 https://admin.example.com, "*" 表示任意来源
// 返回值: gin.HandlerFunc 中间件函数
func CORS(origins ...string) gin.HandlerFunc {
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			allowed = append(allowed, origin)
		}
	}
	wildcard := slices.Contains(allowed, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || sameOrigin(origin, c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Origin")
		if !wildcard && !slices.Contains(allowed, origin) {
			c.AbortWithStatusJSON(http.StatusForbidden, model.Envelope[any]{
				ErrorMessage: "origin not allowed",
			})
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// sameOrigin 来源主机与请求的Host一致
func sameOrigin(origin string, r *http.Request) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
