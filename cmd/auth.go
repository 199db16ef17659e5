package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/vera-byte/eauth-console/internal/render"
	"github.com/vera-byte/eauth-console/internal/session"
	"github.com/vera-byte/eauth-console/pkg/model"
)

// loginCmd 登录并保存会话
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if username == "" {
			if username, err = prompt("Username: "); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = promptPassword("Password: "); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		env, err := c.Login(ctx, model.Login{Username: username, Password: password})
		if err != nil {
			return reported(ctx, err)
		}
		if !env.Success {
			return ErrReported
		}
		if env.Data.Value == "" {
			return errors.New("login succeeded but no token was returned")
		}

		if claims, err := session.Claims(env.Data.Value); err == nil {
			if name := session.ClaimsUsername(claims); name != "" {
				username = name
			}
		}
		if err := rt.session.Login(ctx, env.Data.Value, username); err != nil {
			return fmt.Errorf("store session: %w", err)
		}
		rt.term.Success(fmt.Sprintf("Signed in as %s", username))
		return nil
	},
}

// logoutCmd 登出
// 后端调用失败时本地会话仍然清除
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if c, err := rt.backend(); err == nil && rt.session.Token() != "" {
			if _, err := c.Logout(ctx); err != nil {
				rt.logger.Warn("Logout request failed", zap.Error(err))
			}
		}
		if err := rt.session.Clear(ctx); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		rt.term.Success("Signed out")
		return nil
	},
}

// whoamiCmd 显示当前会话
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and token claims",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := rt.session.Token()
		if token == "" {
			rt.term.Redirect(cmd.Context(), "/login")
			return ErrReported
		}

		claims, err := session.Claims(token)
		if err != nil {
			// 非JWT令牌只能显示用户名
			rt.logger.Debug("Token is not a JWT", zap.Error(err))
		}

		table := render.Table{Header: []string{"Claim", "Value"}}
		table.Rows = append(table.Rows, []string{"username", rt.session.Username()})
		keys := make([]string, 0, len(claims))
		for key := range claims {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			table.Rows = append(table.Rows, []string{key, claimValue(key, claims[key])})
		}

		return rt.printer.Print(map[string]any{
			"username": rt.session.Username(),
			"claims":   claims,
		}, table, nil)
	},
}

// passwdCmd 修改当前用户密码
var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the signed-in user's password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}

		var body model.ChangePassword
		if body.Password, err = promptPassword("Current password: "); err != nil {
			return err
		}
		if body.NewPassword, err = promptPassword("New password: "); err != nil {
			return err
		}
		if body.NewPasswordConfirm, err = promptPassword("Confirm new password: "); err != nil {
			return err
		}

		env, err := c.ChangePassword(cmd.Context(), body)
		return done(cmd.Context(), env, err, "Password changed")
	},
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "username")
	loginCmd.Flags().StringP("password", "p", "", "password, prompted when omitted")

	RootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, passwdCmd)
}

// prompt 从标准输入读取一行
func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword 读取密码, 终端下不回显
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(label)
	}
	fmt.Fprint(os.Stderr, label)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

// claimValue 格式化声明值, 时间戳声明转换为本地时间
func claimValue(key string, value any) string {
	switch key {
	case "exp", "iat", "nbf":
		if ts, ok := value.(float64); ok {
			return time.Unix(int64(ts), 0).Format(time.RFC3339)
		}
	}
	return fmt.Sprint(value)
}
