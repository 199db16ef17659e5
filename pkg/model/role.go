package model

// Role 角色
type Role struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Service     *string `json:"service,omitempty"`
}

// RoleInput 创建/更新角色的请求体
type RoleInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Service     string `json:"service,omitempty"`
}

// RoleLight 角色精简信息, 用于授权选择
type RoleLight struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Service *string `json:"service,omitempty"`
}

// RoleQuery 角色列表查询条件
type RoleQuery struct {
	PageQuery
	Search  string `json:"search,omitempty" form:"search"`
	Service string `json:"service,omitempty" form:"service"`
}
