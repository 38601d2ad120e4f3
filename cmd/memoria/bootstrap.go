package main

import (
	"github.com/spf13/cobra"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Rebuild the current project context",
	Long:  `Print the project overview, the latest devlog entries, the TODOs and work-plan suggestions as JSON.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), svc.Bootstrap(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}
