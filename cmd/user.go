package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vera-byte/eauth-console/internal/render"
	"github.com/vera-byte/eauth-console/pkg/model"
)

// userCmd 用户管理命令
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users and their roles",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}
		search, _ := cmd.Flags().GetString("search")
		env, err := c.ListUsers(cmd.Context(), model.UserQuery{PageQuery: pageQuery(cmd), Search: search})
		return list(cmd.Context(), env, err, render.Users)
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a user's email or lock state",
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
		email, _ := cmd.Flags().GetString("email")
		locked, _ := cmd.Flags().GetBool("locked")
		env, err := c.UpdateUser(cmd.Context(), id, model.UserUpdate{Email: email, Locked: locked})
		return done(cmd.Context(), env, err, fmt.Sprintf("User %d updated", id))
	},
}

var userGrantCmd = &cobra.Command{
	Use:   "grant ID",
	Short: "Grant roles to a user",
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
		env, err := c.GrantUserRoles(cmd.Context(), id, roles)
		return done(cmd.Context(), env, err, fmt.Sprintf("User %d granted roles %v", id, roles.Ids))
	},
}

var userRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List roles available for granting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}
		env, err := c.LightRoles(cmd.Context())
		return list(cmd.Context(), env, err, render.LightRoles)
	},
}

var userRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		env, err := c.RegisterUser(cmd.Context(), model.UserRegister{Username: username, Email: email})
		return done(cmd.Context(), env, err, fmt.Sprintf("User %s registered", username))
	},
}

var userResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset a user's password by email",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rt.backend()
		if err != nil {
			return err
		}
		email, _ := cmd.Flags().GetString("email")
		env, err := c.ResetUser(cmd.Context(), model.UserReset{Email: email})
		return done(cmd.Context(), env, err, fmt.Sprintf("Password reset sent to %s", email))
	},
}

func init() {
	pageFlags(userListCmd)
	userListCmd.Flags().String("search", "", "search keyword")

	userUpdateCmd.Flags().String("email", "", "email address")
	userUpdateCmd.Flags().Bool("locked", false, "lock the account")
	_ = userUpdateCmd.MarkFlagRequired("email")

	userGrantCmd.Flags().IntSlice("roles", nil, "role ids, comma separated")

	userRegisterCmd.Flags().String("username", "", "username")
	userRegisterCmd.Flags().String("email", "", "email address")
	_ = userRegisterCmd.MarkFlagRequired("username")
	_ = userRegisterCmd.MarkFlagRequired("email")

	userResetCmd.Flags().String("email", "", "email address")
	_ = userResetCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userListCmd, userUpdateCmd, userGrantCmd, userRolesCmd, userRegisterCmd, userResetCmd)
	RootCmd.AddCommand(userCmd)
}
