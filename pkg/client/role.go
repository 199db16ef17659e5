package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vera-byte/eauth-console/pkg/model"
)

// ListRoles 查询角色列表
func (c *Client) ListRoles(ctx context.Context, query model.RoleQuery) (*model.Envelope[[]model.Role], error) {
	return send[[]model.Role](ctx, c, request{method: http.MethodGet, path: "/config/role", query: query})
}

// CreateRole 创建角色
func (c *Client) CreateRole(ctx context.Context, role model.RoleInput) (*model.Envelope[model.Role], error) {
	return send[model.Role](ctx, c, request{method: http.MethodPost, path: "/config/role", body: role})
}

// UpdateRole 更新角色
func (c *Client) UpdateRole(ctx context.Context, roleID int, role model.RoleInput) (*model.Envelope[model.Role], error) {
	return send[model.Role](ctx, c, request{method: http.MethodPut, path: fmt.Sprintf("/config/role/%d", roleID), body: role})
}

// DeleteRole 删除角色
func (c *Client) DeleteRole(ctx context.Context, roleID int) (*Raw, error) {
	return send[json.RawMessage](ctx, c, request{method: http.MethodDelete, path: fmt.Sprintf("/config/role/%d", roleID)})
}

// RoleUnboundApis 查询尚未绑定到角色的API
// 参数: ctx 上下文, roleID 角色ID, query API查询条件
// 返回值: *model.Envelope[[]model.Api] 响应, error 错误信息
func (c *Client) RoleUnboundApis(ctx context.Context, roleID int, query model.ApiQuery) (*model.Envelope[[]model.Api], error) {
	return send[[]model.Api](ctx, c, request{method: http.MethodGet, path: fmt.Sprintf("/config/role/unbind/%d", roleID), query: query})
}

// RoleBindApis 为角色绑定API
func (c *Client) RoleBindApis(ctx context.Context, roleID int, apis model.IdList) (*Raw, error) {
	return send[json.RawMessage](ctx, c, request{method: http.MethodPut, path: fmt.Sprintf("/config/role/%d/api", roleID), body: apis})
}

// RoleUnbindApis 解除角色与API的绑定
func (c *Client) RoleUnbindApis(ctx context.Context, roleID int, apis model.IdList) (*Raw, error) {
	return send[json.RawMessage](ctx, c, request{method: http.MethodDelete, path: fmt.Sprintf("/config/role/%d/api", roleID), body: apis})
}

// RoleBoundUsers 查询已授予该角色的用户
func (c *Client) RoleBoundUsers(ctx context.Context, roleID int, query model.UserQuery) (*model.Envelope[[]model.User], error) {
	return send[[]model.User](ctx, c, request{method: http.MethodGet, path: fmt.Sprintf("/config/role/%d/bound-users", roleID), query: query})
}
