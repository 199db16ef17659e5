package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vera-byte/eauth-console/pkg/model"
)

// ListUsers 查询用户列表
func (c *Client) ListUsers(ctx context.Context, query model.UserQuery) (*model.Envelope[[]model.User], error) {
	return send[[]model.User](ctx, c, request{method: http.MethodGet, path: "/config/user", query: query})
}

// UpdateUser 更新用户
func (c *Client) UpdateUser(ctx context.Context, userID int, user model.UserUpdate) (*model.Envelope[model.User], error) {
	return send[model.User](ctx, c, request{method: http.MethodPut, path: fmt.Sprintf("/config/user/%d", userID), body: user})
}

// GrantUserRoles 为用户授予角色
func (c *Client) GrantUserRoles(ctx context.Context, userID int, roles model.IdList) (*Raw, error) {
	return send[json.RawMessage](ctx, c, request{method: http.MethodPost, path: fmt.Sprintf("/config/user/%d/role", userID), body: roles})
}

// LightRoles 查询可授予的角色精简列表
func (c *Client) LightRoles(ctx context.Context) (*model.Envelope[[]model.RoleLight], error) {
	return send[[]model.RoleLight](ctx, c, request{method: http.MethodGet, path: "/config/user/roles"})
}

// RegisterUser 注册用户
func (c *Client) RegisterUser(ctx context.Context, user model.UserRegister) (*model.Envelope[model.User], error) {
	return send[model.User](ctx, c, request{method: http.MethodPost, path: "/config/user/register", body: user})
}

// ResetUser 重置用户密码
func (c *Client) ResetUser(ctx context.Context, reset model.UserReset) (*Raw, error) {
	return send[json.RawMessage](ctx, c, request{method: http.MethodPost, path: "/config/user/reset", body: reset})
}

// ChangePassword 修改当前用户密码
func (c *Client) ChangePassword(ctx context.Context, body model.ChangePassword) (*Raw, error) {
	return send[json.RawMessage](ctx, c, request{method: http.MethodPost, path: "/config/user/change-password", body: body})
}
