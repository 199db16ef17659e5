package model

// PageQuery 分页查询参数
type PageQuery struct {
	Page    int `json:"page,omitempty" form:"page"`
	PerPage int `json:"per_page,omitempty" form:"per_page"`
}

// IdList 批量绑定/解绑使用的ID列表
type IdList struct {
	Ids []int `json:"ids"`
}

// Paging 返回分页参数, 供嵌入了PageQuery的查询结构共用
func (p *PageQuery) Paging() *PageQuery {
	return p
}
