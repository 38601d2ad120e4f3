package main

import (
	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the state of the service and its repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}

		out := map[string]any{
			svc.ComponentType(): svc.State(),
		}
		if repo, ok := svc.Repository().(introspection.Introspectable); ok {
			name := "repository"
			if c, ok := repo.(introspection.Component); ok {
				name = c.ComponentType()
			}
			out[name] = repo.State()
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
