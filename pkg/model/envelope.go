package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Envelope 后端统一响应结构
// Success为false时Data不可信
type Envelope[T any] struct {
	Success      bool            `json:"success"`
	Data         T               `json:"data"`
	Pagination   *Pagination     `json:"pagination,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Detail       json.RawMessage `json:"detail,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Current *string `json:"current"`
	First   *string `json:"first"`
	Last    *string `json:"last"`
	Next    *string `json:"next"`
	Prev    *string `json:"prev"`
	Page    int     `json:"page"`
	Pages   int     `json:"pages"`
	PerPage int     `json:"per_page"`
	Total   int     `json:"total"`
}

// HasDetail 是否携带有效的detail
func (e *Envelope[T]) HasDetail() bool {
	trimmed := bytes.TrimSpace(e.Detail)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// ErrorText 构建错误提示文本
// 参数: prefix 提示前缀, 为空时省略
// 返回值: string 形如 "prefix Reason: xxx. Details: {...}"
func (e *Envelope[T]) ErrorText(prefix string) string {
	var b strings.Builder
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteString(" ")
	}
	b.WriteString("Reason: ")
	b.WriteString(e.ErrorMessage)
	if e.HasDetail() {
		b.WriteString(". Details: ")
		var compact bytes.Buffer
		if err := json.Compact(&compact, e.Detail); err != nil {
			b.Write(bytes.TrimSpace(e.Detail))
		} else {
			b.Write(compact.Bytes())
		}
	}
	return b.String()
}

// Err 将逻辑失败转换为错误
// 返回值: error Success为true时返回nil
func (e *Envelope[T]) Err() error {
	if e.Success {
		return nil
	}
	return &EnvelopeError{Message: e.ErrorMessage, Detail: e.Detail}
}

// EnvelopeError 响应结构中success为false时的错误
type EnvelopeError struct {
	Message string
	Detail  json.RawMessage
}

func (e *EnvelopeError) Error() string {
	env := Envelope[json.RawMessage]{ErrorMessage: e.Message, Detail: e.Detail}
	return env.ErrorText("request failed:")
}
