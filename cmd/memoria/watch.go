package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/memoria/pkg/adapters/fs"
	"github.com/aretw0/memoria/pkg/adapters/lifecycle"
)

var (
	watchPattern string
	watchStores  []string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print store changes as they happen",
	Long:  `Watch the memory directory and print one JSON line per change until interrupted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		events, err := svc.Watch(ctx, watchPattern)
		if err != nil {
			return fmt.Errorf("failed to watch: %w", err)
		}
		src := lifecycle.NewSource(events, watchStores...)
		if err := src.Start(ctx); err != nil {
			return err
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		for event := range src.Events() {
			if err := encoder.Encode(event); err != nil {
				return fmt.Errorf("failed to encode event: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", fs.DefaultWatchPattern, "Glob of store files to watch")
	watchCmd.Flags().StringSliceVar(&watchStores, "store", nil, "Only report these store files (repeatable)")
}
