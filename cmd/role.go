package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vera-byte/eauth-console/internal/render"
	"github.com/vera-byte/eauth-console/pkg/model"
)

// roleCmd 角色管理命令
var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage roles and their API bindings",
}

var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}
		search, _ := cmd.Flags().GetString("search")
		service, _ := cmd.Flags().GetString("service")
		env, err := c.ListRoles(cmd.Context(), model.RoleQuery{PageQuery: pageQuery(cmd), Search: search, Service: service})
		return list(cmd.Context(), env, err, render.Roles)
	},
}

var roleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a role",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}
		env, err := c.CreateRole(cmd.Context(), roleInput(cmd))
		if err != nil || !env.Success {
			return done(cmd.Context(), env, err, "")
		}
		return done(cmd.Context(), env, nil, fmt.Sprintf("Role %d created", env.Data.ID))
	},
}

var roleUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a role",
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
		env, err := c.UpdateRole(cmd.Context(), id, roleInput(cmd))
		return done(cmd.Context(), env, err, fmt.Sprintf("Role %d updated", id))
	},
}

var roleDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a role",
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
		env, err := c.DeleteRole(cmd.Context(), id)
		return done(cmd.Context(), env, err, fmt.Sprintf("Role %d deleted", id))
	},
}

var roleUnboundApisCmd = &cobra.Command{
	Use:   "unbound-apis ID",
	Short: "List APIs not yet bound to a role",
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
		env, err := c.RoleUnboundApis(cmd.Context(), id, apiQuery(cmd))
		return list(cmd.Context(), env, err, render.Apis)
	},
}

var roleBindApisCmd = &cobra.Command{
	Use:   "bind-apis ID",
	Short: "Bind APIs to a role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		apis, err := idsFlag(cmd, "apis")
		if err != nil {
			return err
		}
		c, err := rt.backend()
		if err != nil {
			return err
		}
		env, err := c.RoleBindApis(cmd.Context(), id, apis)
		return done(cmd.Context(), env, err, fmt.Sprintf("Role %d bound to APIs %v", id, apis.Ids))
	},
}

var roleUnbindApisCmd = &cobra.Command{
	Use:   "unbind-apis ID",
	Short: "Unbind APIs from a role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		apis, err := idsFlag(cmd, "apis")
		if err != nil {
			return err
		}
		c, err := rt.backend()
		if err != nil {
			return err
		}
		env, err := c.RoleUnbindApis(cmd.Context(), id, apis)
		return done(cmd.Context(), env, err, fmt.Sprintf("Role %d unbound from APIs %v", id, apis.Ids))
	},
}

var roleUsersCmd = &cobra.Command{
	Use:   "users ID",
	Short: "List users granted a role",
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
		search, _ := cmd.Flags().GetString("search")
		env, err := c.RoleBoundUsers(cmd.Context(), id, model.UserQuery{PageQuery: pageQuery(cmd), Search: search})
		return list(cmd.Context(), env, err, render.Users)
	},
}

func init() {
	pageFlags(roleListCmd)
	roleListCmd.Flags().String("search", "", "search keyword")
	roleListCmd.Flags().String("service", "", "filter by service")

	for _, cmd := range []*cobra.Command{roleCreateCmd, roleUpdateCmd} {
		cmd.Flags().String("name", "", "role name")
		cmd.Flags().String("description", "", "description")
		cmd.Flags().String("service", "", "owning service")
		_ = cmd.MarkFlagRequired("name")
	}

	apiQueryFlags(roleUnboundApisCmd)

	for _, cmd := range []*cobra.Command{roleBindApisCmd, roleUnbindApisCmd} {
		cmd.Flags().IntSlice("apis", nil, "API ids, comma separated")
	}

	pageFlags(roleUsersCmd)
	roleUsersCmd.Flags().String("search", "", "search keyword")

	roleCmd.AddCommand(roleListCmd, roleCreateCmd, roleUpdateCmd, roleDeleteCmd,
		roleUnboundApisCmd, roleBindApisCmd, roleUnbindApisCmd, roleUsersCmd)
	RootCmd.AddCommand(roleCmd)
}

func roleInput(cmd *cobra.Command) model.RoleInput {
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	service, _ := cmd.Flags().GetString("service")
	return model.RoleInput{Name: name, Description: description, Service: service}
}
