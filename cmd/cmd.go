package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vera-byte/eauth-console/internal/config"
	"github.com/vera-byte/eauth-console/internal/render"
	"github.com/vera-byte/eauth-console/internal/session"
	"github.com/vera-byte/eauth-console/internal/ui"
	"github.com/vera-byte/eauth-console/pkg/client"
	"github.com/vera-byte/eauth-console/pkg/model"
)

const programName = "eauth-console"

// ErrReported 错误已经展示给用户
var ErrReported = errors.New("error already reported")

// RootCmd 根命令
var RootCmd = &cobra.Command{
	Use:           programName,
	Short:         "eauth administrative console",
	Long:          `Manage APIs, roles, users and their bindings on an eauth backend, and browse its audit logs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rt != nil {
			_ = rt.logger.Sync()
		}
	},
}

// runtime 命令执行期间共享的依赖
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   session.Store
	session *session.Session
	pages   *session.PageStore
	term    *ui.Terminal
	client  *client.Client
	printer *render.Printer

	// clientErr 后端地址未配置等导致客户端不可用
	clientErr error
}

// backend 返回后端客户端
func (r *runtime) backend() (*client.Client, error) {
	if r.clientErr != nil {
		return nil, r.clientErr
	}
	return r.client, nil
}

var rt *runtime

func init() {
	flags := RootCmd.PersistentFlags()
	flags.String("domain", "", "backend origin, overrides EAUTH_DOMAIN")
	flags.Duration("timeout", 0, "request timeout")
	flags.String("session-store", "", "session store: memory, file or redis")
	flags.String("log-level", "", "log level")
	flags.StringP("output", "o", render.FormatTable, "output format: table, json or yaml")

	if err := bindFlags(flags, map[string]string{
		"backend.domain":  "domain",
		"backend.timeout": "timeout",
		"session.store":   "session-store",
		"log.level":       "log-level",
	}); err != nil {
		panic(err)
	}
}

// bindFlags 将命令行参数绑定到配置键
func bindFlags(fs *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// setup 加载配置并恢复会话
func setup(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}

	store, err := session.NewStore(cfg.StoreConfig(), logger)
	if err != nil {
		return err
	}
	sess := session.NewSession(store, logger)
	if err := sess.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	pages := session.NewPageStore(store)
	if err := pages.Restore(ctx); err != nil {
		return fmt.Errorf("restore page size: %w", err)
	}

	term := ui.NewTerminal(os.Stderr, programName)
	c, err := client.New(cfg.ClientConfig(), sess,
		client.WithNotifier(term),
		client.WithNavigator(term),
		client.WithLogger(logger.Named("client")),
	)
	if err != nil {
		err = fmt.Errorf("%w (set EAUTH_DOMAIN or --domain)", err)
	}

	output, _ := RootCmd.PersistentFlags().GetString("output")
	rt = &runtime{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		session:   sess,
		pages:     pages,
		term:      term,
		client:    c,
		printer:   &render.Printer{Out: os.Stdout, Format: output},
		clientErr: err,
	}
	return nil
}

// reported 将调用错误展示给用户
// 拦截器已经处理过的错误(跳转登录、无权限、校验失败)不再重复提示
func reported(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, client.ErrNoSession),
		client.IsUnauthorized(err),
		client.IsForbidden(err),
		client.IsUnprocessable(err):
	default:
		rt.term.Error(ctx, err.Error())
	}
	return ErrReported
}

// list 输出列表结果
func list[T any](ctx context.Context, env *model.Envelope[T], err error, table func(T) render.Table) error {
	if err != nil {
		return reported(ctx, err)
	}
	if !env.Success {
		return ErrReported
	}
	return rt.printer.Print(env, table(env.Data), env.Pagination)
}

// done 输出变更结果
func done[T any](ctx context.Context, env *model.Envelope[T], err error, message string) error {
	if err != nil {
		return reported(ctx, err)
	}
	if !env.Success {
		return ErrReported
	}
	if rt.printer.Format != render.FormatTable {
		return rt.printer.Print(env, render.Table{}, nil)
	}
	rt.term.Success(message)
	return nil
}

// parseID 解析位置参数中的ID
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// pageFlags 为列表命令添加分页参数
func pageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("per-page", 0, "items per page, defaults to the saved page size")
}

// pageQuery 读取分页参数
func pageQuery(cmd *cobra.Command) model.PageQuery {
	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	if perPage == 0 {
		perPage = rt.pages.PageSize()
	}
	return model.PageQuery{Page: page, PerPage: perPage}
}

// idsFlag 读取ID列表参数
func idsFlag(cmd *cobra.Command, name string) (model.IdList, error) {
	ids, err := cmd.Flags().GetIntSlice(name)
	if err != nil {
		return model.IdList{}, err
	}
	if len(ids) == 0 {
		return model.IdList{}, fmt.Errorf("--%s is required", name)
	}
	return model.IdList{Ids: ids}, nil
}

// optionalBool 参数被显式设置时返回其值
func optionalBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

// optionalInt 参数被显式设置时返回其值
func optionalInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}
