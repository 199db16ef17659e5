package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vera-byte/eauth-console/pkg/model"
)

// ErrNoSession 会话令牌缺失, 请求未发送
var ErrNoSession = errors.New("no session token, login required")

// ResponseError 后端返回了非2xx状态码
type ResponseError struct {
	StatusCode int
	Method     string
	Path       string
	// Envelope 响应体能解析为统一响应结构时非nil
	Envelope *model.Envelope[json.RawMessage]
	Body     []byte
}

func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Envelope != nil && e.Envelope.ErrorMessage != "" {
		msg += ": " + e.Envelope.ErrorMessage
	}
	return msg
}

// StatusCode 提取错误中的HTTP状态码
// 返回值: int 状态码, 非ResponseError时为0
func StatusCode(err error) int {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}

// IsUnauthorized 是否为401
func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }

// IsForbidden 是否为403
func IsForbidden(err error) bool { return StatusCode(err) == http.StatusForbidden }

// IsUnprocessable 是否为422
func IsUnprocessable(err error) bool { return StatusCode(err) == http.StatusUnprocessableEntity }
