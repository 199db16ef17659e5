package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vera-byte/eauth-console/internal/console"
	"github.com/vera-byte/eauth-console/internal/middleware"
	"github.com/vera-byte/eauth-console/internal/render"
	"github.com/vera-byte/eauth-console/internal/session"
)

// serveCmd 启动控制台服务
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the console HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}

		limit := middleware.ThrottleConfig{
			Attempts: rt.cfg.Console.LoginRate,
			Window:   rt.cfg.Console.LoginWindow,
			Prefix:   "eauth:login",
		}
		if store, ok := rt.store.(*session.RedisStore); ok {
			limit.Redis = store.Client()
		}

		server, err := console.NewServer(c, rt.session, rt.pages, middleware.NewThrottle(limit), rt.logger.Named("console"),
			console.WithAllowedOrigins(rt.cfg.Console.CORSOrigins...),
			console.WithTrustedProxies(rt.cfg.Console.TrustedProxies...),
		)
		if err != nil {
			return err
		}
		routes := render.SortRoutes(server.Routes())
		if err := rt.printer.Print(routes, render.Routes(routes), nil); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := fmt.Sprintf("%s:%s", rt.cfg.Console.Host, rt.cfg.Console.Port)
		rt.logger.Info("Starting console server", zap.String("addr", addr), zap.String("backend", c.BaseURL()))
		rt.term.Success(fmt.Sprintf("Console listening on http://%s", addr))
		return server.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host")
	serveCmd.Flags().String("port", "", "listen port")
	if err := bindFlags(serveCmd.Flags(), map[string]string{
		"console.host": "host",
		"console.port": "port",
	}); err != nil {
		panic(err)
	}

	RootCmd.AddCommand(serveCmd)
}
