package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by the release build.
var version = "dev"

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the patrol version",
		Run: func(*cobra.Command, []string) {
			fmt.Println("patrol", version)
		},
	})
}
