package client

import (
	"context"
	"net/http"

	"github.com/vera-byte/eauth-console/pkg/model"
)

// OperateLogs 查询操作日志
func (c *Client) OperateLogs(ctx context.Context, query model.OperateLogQuery) (*model.Envelope[[]model.OperateLog], error) {
	return send[[]model.OperateLog](ctx, c, request{method: http.MethodGet, path: "/log/operate-log", query: query})
}

// SecurityLogs 查询安全日志
func (c *Client) SecurityLogs(ctx context.Context, query model.SecurityLogQuery) (*model.Envelope[[]model.SecurityLog], error) {
	return send[[]model.SecurityLog](ctx, c, request{method: http.MethodGet, path: "/log/security-log", query: query})
}
