package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configDefault 首次运行时写出的默认配置
var configDefault string

var rootCmd = &cobra.Command{
	Use:   "note-tree-service",
	Short: "Note Tree Service",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
