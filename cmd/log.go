package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vera-byte/eauth-console/internal/render"
	"github.com/vera-byte/eauth-console/pkg/model"
)

// logCmd 审计日志命令
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Browse audit logs",
}

var logOperateCmd = &cobra.Command{
	Use:   "operate",
	Short: "List operate logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		query := model.OperateLogQuery{
			PageQuery:  pageQuery(cmd),
			StatusCode: optionalInt(cmd, "status-code"),
			ResourceID: optionalInt(cmd, "resource-id"),
			Success:    optionalBool(cmd, "success"),
		}
		query.Username, _ = f.GetString("username")
		query.IPAddr, _ = f.GetString("ip")
		query.OperateType, _ = f.GetString("type")
		query.OperateAPI, _ = f.GetString("api")
		query.StartDatetime, _ = f.GetString("since")
		query.EndDatetime, _ = f.GetString("until")

		env, err := c.OperateLogs(cmd.Context(), query)
		return list(cmd.Context(), env, err, render.OperateLogs)
	},
}

var logSecurityCmd = &cobra.Command{
	Use:   "security",
	Short: "List security logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		query := model.SecurityLogQuery{
			PageQuery: pageQuery(cmd),
			Success:   optionalBool(cmd, "success"),
		}
		query.Username, _ = f.GetString("username")
		query.IPAddr, _ = f.GetString("ip")
		query.Operate, _ = f.GetString("operate")
		query.StartDatetime, _ = f.GetString("since")
		query.EndDatetime, _ = f.GetString("until")

		env, err := c.SecurityLogs(cmd.Context(), query)
		return list(cmd.Context(), env, err, render.SecurityLogs)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{logOperateCmd, logSecurityCmd} {
		pageFlags(cmd)
		cmd.Flags().String("username", "", "filter by username")
		cmd.Flags().String("ip", "", "filter by client address")
		cmd.Flags().Bool("success", false, "filter by outcome")
		cmd.Flags().String("since", "", "start datetime, e.g. 2024-01-01 00:00:00")
		cmd.Flags().String("until", "", "end datetime")
	}
	logOperateCmd.Flags().String("type", "", "filter by operate type")
	logOperateCmd.Flags().String("api", "", "filter by operated API")
	logOperateCmd.Flags().Int("status-code", 0, "filter by response status code")
	logOperateCmd.Flags().Int("resource-id", 0, "filter by resource id")
	logSecurityCmd.Flags().String("operate", "", "filter by operation")

	logCmd.AddCommand(logOperateCmd, logSecurityCmd)
	RootCmd.AddCommand(logCmd)
}
