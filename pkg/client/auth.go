package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vera-byte/eauth-console/pkg/model"
)

// Login 用户登录, 无需会话令牌
// 参数: ctx 上下文, body 用户名与密码
// 返回值: *model.Envelope[model.Token] 登录响应, error 错误信息
func (c *Client) Login(ctx context.Context, body model.Login) (*model.Envelope[model.Token], error) {
	return send[model.Token](ctx, c, request{method: http.MethodPost, path: "/auth/login", body: body, public: true})
}

// Logout 用户登出
func (c *Client) Logout(ctx context.Context) (*Raw, error) {
	return send[json.RawMessage](ctx, c, request{method: http.MethodPost, path: "/auth/logout"})
}
