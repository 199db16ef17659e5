package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// DefaultPageSize 默认每页条数
const DefaultPageSize = 10

var pageSizes = []int{10, 20, 50, 100, 200}

// ErrInvalidPageSize 每页条数不在可选范围内
var ErrInvalidPageSize = errors.New("page size must be one of 10, 20, 50, 100, 200")

type pageData struct {
	PageSize int `json:"pageSize"`
}

// PageStore 每页条数偏好
type PageStore struct {
	store Store

	mu       sync.RWMutex
	pageSize int
}

// NewPageStore 创建分页偏好
func NewPageStore(store Store) *PageStore {
	return &PageStore{store: store, pageSize: DefaultPageSize}
}

// PageSizes 可选的每页条数
func PageSizes() []int {
	return slices.Clone(pageSizes)
}

// Restore 从仓库恢复偏好, 无效的保存值回落为默认值
func (p *PageStore) Restore(ctx context.Context) error {
	raw, err := p.store.Get(ctx, PageKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var data pageData
	if err := json.Unmarshal(raw, &data); err != nil || !slices.Contains(pageSizes, data.PageSize) {
		data.PageSize = DefaultPageSize
	}

	p.mu.Lock()
	p.pageSize = data.PageSize
	p.mu.Unlock()
	return nil
}

// PageSize 当前每页条数
func (p *PageStore) PageSize() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pageSize
}

// SetPageSize 修改并保存每页条数
// 参数: ctx 上下文, size 每页条数
// 返回值: error 不在可选范围内时返回ErrInvalidPageSize
func (p *PageStore) SetPageSize(ctx context.Context, size int) error {
	if !slices.Contains(pageSizes, size) {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, size)
	}
	raw, err := json.Marshal(pageData{PageSize: size})
	if err != nil {
		return err
	}
	if err := p.store.Set(ctx, PageKey, raw); err != nil {
		return err
	}

	p.mu.Lock()
	p.pageSize = size
	p.mu.Unlock()
	return nil
}
