// Package ui 终端提示与导航
package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// viewCommands 视图路径对应的命令
var viewCommands = map[string]string{
	"/login":        "login",
	"/api":          "api list",
	"/role":         "role list",
	"/user":         "user list",
	"/operate-log":  "log operate",
	"/security-log": "log security",
}

// Terminal 终端上的Notifier与Navigator实现
type Terminal struct {
	out     io.Writer
	program string

	mu         sync.Mutex
	redirected string
}

// NewTerminal 创建终端提示
// 参数: out 输出位置, program 命令名称, 用于提示下一步命令
// 返回值: *Terminal 终端提示实例
func NewTerminal(out io.Writer, program string) *Terminal {
	return &Terminal{out: out, program: program}
}

// Error 输出错误提示
func (t *Terminal) Error(_ context.Context, message string) {
	fmt.Fprintln(t.out, errorStyle.Render("✗ "+message))
}

// Success 输出成功提示
func (t *Terminal) Success(message string) {
	fmt.Fprintln(t.out, okStyle.Render("✓ "+message))
}

// Redirect 终端无法切换视图, 提示对应的命令
func (t *Terminal) Redirect(_ context.Context, path string) {
	t.mu.Lock()
	t.redirected = path
	t.mu.Unlock()

	command, ok := viewCommands[path]
	if !ok {
		fmt.Fprintln(t.out, hintStyle.Render("→ "+path))
		return
	}
	if path == "/login" {
		fmt.Fprintln(t.out, hintStyle.Render(fmt.Sprintf("Not signed in. Run `%s %s` first.", t.program, command)))
		return
	}
	fmt.Fprintln(t.out, hintStyle.Render(fmt.Sprintf("Continue with `%s %s`.", t.program, command)))
}

// Redirected 最近一次跳转的路径
func (t *Terminal) Redirected() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.redirected
}
