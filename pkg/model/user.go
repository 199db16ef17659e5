package model

// User 用户信息结构
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Locked   bool   `json:"locked"`
}

// UserQuery 用户列表查询条件
type UserQuery struct {
	PageQuery
	Search string `json:"search,omitempty" form:"search"`
}

// UserUpdate 更新用户的请求体
type UserUpdate struct {
	Email  string `json:"email"`
	Locked bool   `json:"locked"`
}

// UserRegister 注册用户的请求体
type UserRegister struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserReset 重置密码的请求体
type UserReset struct {
	Email string `json:"email"`
}

// ChangePassword 修改密码的请求体
type ChangePassword struct {
	Password           string `json:"password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}
