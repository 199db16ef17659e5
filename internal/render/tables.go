package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vera-byte/eauth-console/pkg/model"
)

const timeLayout = "2006-01-02 15:04:05"

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// truncate 截断过长的单元格
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// formatTime 能解析的时间转为本地时间显示, 否则原样显示
func formatTime(d model.Datetime) string {
	t, ok := d.Time()
	if !ok {
		return string(d)
	}
	return t.Local().Format(timeLayout)
}

// Apis API表格
func Apis(apis []model.Api) Table {
	t := Table{Header: []string{"ID", "Method", "URL", "Service", "Description", "Roles"}}
	for _, api := range apis {
		roles := make([]string, 0, len(api.Roles))
		for _, role := range api.Roles {
			roles = append(roles, role.Name)
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(api.ID),
			api.Method,
			api.URL,
			deref(api.Service),
			truncate(deref(api.Description), 40),
			strings.Join(roles, ","),
		})
	}
	return t
}

// Roles 角色表格
func Roles(roles []model.Role) Table {
	t := Table{Header: []string{"ID", "Name", "Service", "Description"}}
	for _, role := range roles {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(role.ID),
			role.Name,
			deref(role.Service),
			truncate(deref(role.Description), 40),
		})
	}
	return t
}

// LightRoles 角色精简表格
func LightRoles(roles []model.RoleLight) Table {
	t := Table{Header: []string{"ID", "Name", "Service"}}
	for _, role := range roles {
		t.Rows = append(t.Rows, []string{strconv.Itoa(role.ID), role.Name, deref(role.Service)})
	}
	return t
}

// Users 用户表格
func Users(users []model.User) Table {
	t := Table{Header: []string{"ID", "Username", "Email", "Locked"}}
	for _, user := range users {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(user.ID),
			user.Username,
			user.Email,
			strconv.FormatBool(user.Locked),
		})
	}
	return t
}

// OperateLogs 操作日志表格
func OperateLogs(logs []model.OperateLog) Table {
	t := Table{Header: []string{"ID", "Time", "Username", "IP", "Type", "API", "Status", "Resource", "Success"}}
	for _, log := range logs {
		resource := ""
		if log.ResourceID != nil {
			resource = strconv.Itoa(*log.ResourceID)
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(log.ID),
			formatTime(log.OperateDatetime),
			log.Username,
			log.IPAddr,
			log.OperateType,
			truncate(log.OperateAPI, 50),
			strconv.Itoa(log.StatusCode),
			resource,
			strconv.FormatBool(log.Success),
		})
	}
	return t
}

// SecurityLogs 安全日志表格
func SecurityLogs(logs []model.SecurityLog) Table {
	t := Table{Header: []string{"ID", "Time", "Username", "IP", "Operate", "Success"}}
	for _, log := range logs {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(log.ID),
			formatTime(log.OperateDatetime),
			log.Username,
			log.IPAddr,
			log.Operate,
			strconv.FormatBool(log.Success),
		})
	}
	return t
}

// Route 控制台路由
type Route struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Handler string `json:"handler"`
}

// SortRoutes 按路径、方法排序
func SortRoutes(routes gin.RoutesInfo) []Route {
	list := make([]Route, 0, len(routes))
	for _, r := range routes {
		list = append(list, Route{Method: r.Method, Path: r.Path, Handler: r.Handler})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Path == list[j].Path {
			return list[i].Method < list[j].Method
		}
		return list[i].Path < list[j].Path
	})
	return list
}

// Routes 路由表格, 处理器名称过长时截断
func Routes(routes []Route) Table {
	t := Table{Header: []string{"Method", "Path", "Handler"}}
	for _, r := range routes {
		t.Rows = append(t.Rows, []string{r.Method, r.Path, truncate(r.Handler, 60)})
	}
	return t
}
