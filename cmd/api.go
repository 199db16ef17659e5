package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vera-byte/eauth-console/internal/render"
	"github.com/vera-byte/eauth-console/pkg/model"
)

// apiCmd API资源管理命令
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Manage API resource definitions",
}

var apiListCmd = &cobra.Command{
	Use:   "list",
	Short: "List APIs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}
		env, err := c.ListApis(cmd.Context(), apiQuery(cmd))
		return list(cmd.Context(), env, err, render.Apis)
	},
}

var apiCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}
		env, err := c.CreateApi(cmd.Context(), apiInput(cmd))
		if err != nil || !env.Success {
			return done(cmd.Context(), env, err, "")
		}
		return done(cmd.Context(), env, nil, fmt.Sprintf("API %d created", env.Data.ID))
	},
}

var apiUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update an API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := rt.backend()
		if err != nil {
			return err
		}
		env, err := c.UpdateApi(cmd.Context(), id, apiInput(cmd))
		return done(cmd.Context(), env, err, fmt.Sprintf("API %d updated", id))
	},
}

var apiDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := rt.backend()
		if err != nil {
			return err
		}
		env, err := c.DeleteApi(cmd.Context(), id)
		return done(cmd.Context(), env, err, fmt.Sprintf("API %d deleted", id))
	},
}

var apiBindRolesCmd = &cobra.Command{
	Use:   "bind-roles ID",
	Short: "Bind roles to an API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		roles, err := idsFlag(cmd, "roles")
		if err != nil {
			return err
		}
		c, err := rt.backend()
		if err != nil {
			return err
		}
		env, err := c.ApiBindRoles(cmd.Context(), id, roles)
		return done(cmd.Context(), env, err, fmt.Sprintf("API %d bound to roles %v", id, roles.Ids))
	},
}

var apiUnbindRolesCmd = &cobra.Command{
	Use:   "unbind-roles ID",
	Short: "Unbind roles from an API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		roles, err := idsFlag(cmd, "roles")
		if err != nil {
			return err
		}
		c, err := rt.backend()
		if err != nil {
			return err
		}
		env, err := c.ApiUnbindRoles(cmd.Context(), id, roles)
		return done(cmd.Context(), env, err, fmt.Sprintf("API %d unbound from roles %v", id, roles.Ids))
	},
}

func init() {
	apiQueryFlags(apiListCmd)

	for _, cmd := range []*cobra.Command{apiCreateCmd, apiUpdateCmd} {
		cmd.Flags().String("url", "", "API path")
		cmd.Flags().String("method", "", "HTTP method")
		cmd.Flags().String("service", "", "owning service")
		cmd.Flags().String("description", "", "description")
		_ = cmd.MarkFlagRequired("url")
		_ = cmd.MarkFlagRequired("method")
	}

	for _, cmd := range []*cobra.Command{apiBindRolesCmd, apiUnbindRolesCmd} {
		cmd.Flags().IntSlice("roles", nil, "role ids, comma separated")
	}

	apiCmd.AddCommand(apiListCmd, apiCreateCmd, apiUpdateCmd, apiDeleteCmd, apiBindRolesCmd, apiUnbindRolesCmd)
	RootCmd.AddCommand(apiCmd)
}

// apiQueryFlags 添加API查询参数
func apiQueryFlags(cmd *cobra.Command) {
	pageFlags(cmd)
	cmd.Flags().String("search", "", "search keyword")
	cmd.Flags().String("method", "", "filter by HTTP method")
	cmd.Flags().String("service", "", "filter by service")
}

func apiQuery(cmd *cobra.Command) model.ApiQuery {
	search, _ := cmd.Flags().GetString("search")
	method, _ := cmd.Flags().GetString("method")
	service, _ := cmd.Flags().GetString("service")
	return model.ApiQuery{PageQuery: pageQuery(cmd), Search: search, Method: method, Service: service}
}

func apiInput(cmd *cobra.Command) model.ApiInput {
	url, _ := cmd.Flags().GetString("url")
	method, _ := cmd.Flags().GetString("method")
	service, _ := cmd.Flags().GetString("service")
	description, _ := cmd.Flags().GetString("description")
	return model.ApiInput{URL: url, Method: method, Service: service, Description: description}
}
