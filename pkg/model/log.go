package model

// OperateLog 操作日志
type OperateLog struct {
	ID              int      `json:"id"`
	Username        string   `json:"username"`
	IPAddr          string   `json:"ip_addr"`
	OperateType     string   `json:"operate_type"`
	OperateAPI      string   `json:"operate_api"`
	StatusCode      int      `json:"status_code"`
	ResourceID      *int     `json:"resource_id,omitempty"`
	RequestData     *string  `json:"request_data,omitempty"`
	ResponseData    *string  `json:"response_data,omitempty"`
	Success         bool     `json:"success"`
	OperateDatetime Datetime `json:"operate_datetime"`
}

// OperateLogQuery 操作日志查询条件
// 指针字段为nil表示不过滤
type OperateLogQuery struct {
	PageQuery
	Username      string `json:"username,omitempty" form:"username"`
	IPAddr        string `json:"ip_addr,omitempty" form:"ip_addr"`
	OperateType   string `json:"operate_type,omitempty" form:"operate_type"`
	OperateAPI    string `json:"operate_api,omitempty" form:"operate_api"`
	StatusCode    *int   `json:"status_code,omitempty" form:"status_code"`
	ResourceID    *int   `json:"resource_id,omitempty" form:"resource_id"`
	Success       *bool  `json:"success,omitempty" form:"success"`
	StartDatetime string `json:"start_datetime,omitempty" form:"start_datetime"`
	EndDatetime   string `json:"end_datetime,omitempty" form:"end_datetime"`
}

// SecurityLog 安全日志
type SecurityLog struct {
	ID              int      `json:"id"`
	Username        string   `json:"username"`
	IPAddr          string   `json:"ip_addr"`
	Operate         string   `json:"operate"`
	Success         bool     `json:"success"`
	OperateDatetime Datetime `json:"operate_datetime"`
}

// SecurityLogQuery 安全日志查询条件
type SecurityLogQuery struct {
	PageQuery
	Username      string `json:"username,omitempty" form:"username"`
	IPAddr        string `json:"ip_addr,omitempty" form:"ip_addr"`
	Operate       string `json:"operate,omitempty" form:"operate"`
	Success       *bool  `json:"success,omitempty" form:"success"`
	StartDatetime string `json:"start_datetime,omitempty" form:"start_datetime"`
	EndDatetime   string `json:"end_datetime,omitempty" form:"end_datetime"`
}
