package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/memoria"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of memoria",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "memoria v%s\n", memoria.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
