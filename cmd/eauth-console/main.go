package main

import (
	"errors"
	"os"

	cmd "github.com/vera-byte/eauth-console/cmd"
	vgokit "github.com/vera-byte/vgo-kit"
	"go.uber.org/zap"
)

// main eauth管理控制台入口
func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		if errors.Is(err, cmd.ErrReported) {
			os.Exit(1)
		}
		vgokit.Log.Fatal("Failed to execute command", zap.Error(err))
	}
}
