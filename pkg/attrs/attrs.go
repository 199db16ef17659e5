// Package attrs 查询参数过滤
// 未设置的筛选条件(nil、空指针、空字符串)不会出现在请求中
package attrs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// PickNonEmpty 过滤空属性
// 参数: m 原始映射
// 返回值: map[string]any 仅包含非nil且非空字符串的键, m为nil时返回空映射
func PickNonEmpty(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for key, value := range m {
		if isEmpty(value) {
			continue
		}
		result[key] = value
	}
	return result
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return true
		}
		if rv.Kind() == reflect.Pointer {
			return isEmpty(rv.Elem().Interface())
		}
	}
	return false
}

// FromStruct 按JSON字段名将查询结构展开为映射
// 参数: v 查询结构(或其指针), 嵌入的PageQuery字段会被提升
// 返回值: map[string]any 展开后的映射, error 错误信息
func FromStruct(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	m := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("query must encode to a JSON object: %w", err)
	}
	return m, nil
}

// Values 构建过滤后的URL查询参数
// 参数: v 查询结构或映射
// 返回值: url.Values 查询参数, error 错误信息
func Values(v any) (url.Values, error) {
	m, err := FromStruct(v)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	for key, value := range PickNonEmpty(m) {
		if items, ok := value.([]any); ok {
			for _, item := range items {
				if isEmpty(item) {
					continue
				}
				values.Add(key, stringify(item))
			}
			continue
		}
		values.Set(key, stringify(value))
	}
	return values, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case *string:
		return *v
	case *int:
		return strconv.Itoa(*v)
	case *bool:
		return strconv.FormatBool(*v)
	default:
		return fmt.Sprint(v)
	}
}
