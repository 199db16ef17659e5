package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// pageSizeCmd 查看或设置列表分页大小
var pageSizeCmd = &cobra.Command{
	Use:   "page-size [SIZE]",
	Short: "Show or set the saved list page size",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), rt.pages.PageSize())
			return nil
		}
		size, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page size %q", args[0])
		}
		if err := rt.pages.SetPageSize(cmd.Context(), size); err != nil {
			return err
		}
		rt.term.Success(fmt.Sprintf("Page size set to %d", size))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(pageSizeCmd)
}
