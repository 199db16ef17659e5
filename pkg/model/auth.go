package model

import (
	"encoding/json"
	"fmt"
)

// Login 登录请求结构
type Login struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Token 登录返回的令牌
// 兼容data为字符串或 {"token": ...} / {"access_token": ...} 对象两种形式
type Token struct {
	Value     string
	TokenType string
}

// UnmarshalJSON 解析令牌
func (t *Token) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		t.Value = raw
		return nil
	}

	var obj struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unexpected token payload: %w", err)
	}
	t.Value = obj.Token
	if t.Value == "" {
		t.Value = obj.AccessToken
	}
	t.TokenType = obj.TokenType
	return nil
}

// MarshalJSON 序列化令牌
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type,omitempty"`
	}{t.Value, t.TokenType})
}
