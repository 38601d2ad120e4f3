package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/memoria"
	"github.com/aretw0/memoria/pkg/git"
)

var initGit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the memory directory and its default files",
	Long: `Create the memory directory and any missing store with its default content.
Existing files are left untouched.
With --git a repository is created in the memory directory unless it already sits in a work tree.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if readOnly {
			return fmt.Errorf("cannot initialize in read-only mode")
		}
		root, err := projectRoot()
		if err != nil {
			return err
		}
		if _, err := memoria.Init(root, options()...); err != nil {
			return fmt.Errorf("failed to initialize memory: %w", err)
		}

		cfg := memoria.ResolveConfig(root, options()...)
		path := memoria.MemoryPath(root, cfg)
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized memory in %s\n", path)
		if initGit {
			return initRepo(cmd, path)
		}
		return nil
	},
}

func initRepo(cmd *cobra.Command, path string) error {
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}
	client := git.NewClient(path, slog.Default())
	if client.IsRepo() {
		slog.Debug("memory directory already in a git work tree", "path", path)
		return nil
	}
	if err := client.Init(); err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized git repository in %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initGit, "git", false, "Create a git repository in the memory directory")
}
