package model

import (
	"encoding/json"
	"time"
)

// datetimeLayouts 后端可能返回的时间格式, 无时区的按本地时间解析
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Datetime 后端返回的时间, 保留原文
// 解析失败不影响整条记录的解码
type Datetime string

// UnmarshalJSON 接受字符串或null
func (d *Datetime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Datetime(raw)
	return nil
}

// Time 按已知格式解析
// 返回值: time.Time 时间, bool 是否解析成功
func (d Datetime) Time() (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := parse(layout, string(d)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parse(layout, value string) (time.Time, error) {
	if layout == time.RFC3339Nano {
		return time.Parse(layout, value)
	}
	return time.ParseInLocation(layout, value, time.Local)
}
