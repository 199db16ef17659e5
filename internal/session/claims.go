package session

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Claims 解析令牌中的声明, 不校验签名
// 签名由后端校验, 这里只用于展示
func Claims(token string) (jwt.MapClaims, error) {
	if _, raw, ok := strings.Cut(token, " "); ok {
		token = raw
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}

// ClaimsUsername 从声明中取用户名
func ClaimsUsername(claims jwt.MapClaims) string {
	for _, key := range []string{"username", "sub", "name"} {
		if value, ok := claims[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
