package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/memoria/pkg/core"
)

var (
	todoText string
	todoNote string
	todoOpen bool
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage TODO items",
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List TODO items as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		items, err := svc.Repository().ReadTodos(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read todos: %w", err)
		}

		out := make([]core.TodoItem, 0, len(items))
		for _, item := range items {
			if todoOpen && item.Done {
				continue
			}
			out = append(out, item)
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

var todoCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Mark an open TODO item as done",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		if err := svc.CompleteTodo(cmd.Context(), todoText, todoNote); err != nil {
			return fmt.Errorf("failed to complete todo: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Completed: %s\n", todoText)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(todoCmd)
	todoCmd.AddCommand(todoListCmd)
	todoCmd.AddCommand(todoCompleteCmd)

	todoListCmd.Flags().BoolVar(&todoOpen, "open", false, "Only list open items")

	todoCompleteCmd.Flags().StringVar(&todoText, "text", "", "Text of the TODO item")
	todoCompleteCmd.Flags().StringVar(&todoNote, "note", "", "Completion note")
	todoCompleteCmd.MarkFlagRequired("text")
}
