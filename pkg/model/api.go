package model

// Api API资源定义
type Api struct {
	ID          int     `json:"id"`
	URL         string  `json:"url"`
	Method      string  `json:"method"`
	Service     *string `json:"service,omitempty"`
	Description *string `json:"description,omitempty"`
	Roles       []Role  `json:"roles,omitempty"`
}

// ApiInput 创建/更新API的请求体
type ApiInput struct {
	URL         string `json:"url"`
	Method      string `json:"method"`
	Service     string `json:"service,omitempty"`
	Description string `json:"description,omitempty"`
}

// ApiQuery API列表查询条件
type ApiQuery struct {
	PageQuery
	Search  string `json:"search,omitempty" form:"search"`
	Method  string `json:"method,omitempty" form:"method"`
	Service string `json:"service,omitempty" form:"service"`
}
