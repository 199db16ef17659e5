package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vera-byte/eauth-console/pkg/model"
)

// ListApis 查询API列表
// 参数: ctx 上下文, query 查询条件, 空字段不会发送
// 返回值: *model.Envelope[[]model.Api] 响应, error 错误信息
func (c *Client) ListApis(ctx context.Context, query model.ApiQuery) (*model.Envelope[[]model.Api], error) {
	return send[[]model.Api](ctx, c, request{method: http.MethodGet, path: "/config/api", query: query})
}

// CreateApi 创建API
func (c *Client) CreateApi(ctx context.Context, api model.ApiInput) (*model.Envelope[model.Api], error) {
	return send[model.Api](ctx, c, request{method: http.MethodPost, path: "/config/api", body: api})
}

// UpdateApi 更新API
func (c *Client) UpdateApi(ctx context.Context, apiID int, api model.ApiInput) (*model.Envelope[model.Api], error) {
	return send[model.Api](ctx, c, request{method: http.MethodPut, path: fmt.Sprintf("/config/api/%d", apiID), body: api})
}

// DeleteApi 删除API
func (c *Client) DeleteApi(ctx context.Context, apiID int) (*Raw, error) {
	return send[json.RawMessage](ctx, c, request{method: http.MethodDelete, path: fmt.Sprintf("/config/api/%d", apiID)})
}

// ApiBindRoles 为API绑定角色
// 参数: ctx 上下文, apiID API ID, roles 角色ID列表
func (c *Client) ApiBindRoles(ctx context.Context, apiID int, roles model.IdList) (*Raw, error) {
	return send[json.RawMessage](ctx, c, request{method: http.MethodPut, path: fmt.Sprintf("/config/api/%d/role", apiID), body: roles})
}

// ApiUnbindRoles 解除API与角色的绑定, 角色ID列表放在DELETE请求体中
func (c *Client) ApiUnbindRoles(ctx context.Context, apiID int, roles model.IdList) (*Raw, error) {
	return send[json.RawMessage](ctx, c, request{method: http.MethodDelete, path: fmt.Sprintf("/config/api/%d/role", apiID), body: roles})
}
