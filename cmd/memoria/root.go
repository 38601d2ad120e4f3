package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/memoria"
	"github.com/aretw0/memoria/pkg/core"
)

var (
	verbose    bool
	rootDir    string
	memoryDir  string
	configFile string
	readOnly   bool
	versioning bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memoria",
	Short: "File-backed memory for iterative research work",
	Long: `memoria keeps a devlog, a decision log, TODOs and an experiment table as flat files.
It rebuilds project context for a new session and searches past entries by keyword.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Project root (default: discovered from the working directory)")
	rootCmd.PersistentFlags().StringVar(&memoryDir, "memory-dir", "", "Memory directory (overrides memory_directory)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file (default: config/config.yaml|yml|json under the root)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Never create or modify stores")
	rootCmd.PersistentFlags().BoolVar(&versioning, "commit", false, "Commit ingested changes when the memory directory is in a git work tree")
}

// projectRoot returns --root, else the discovered root, else the working directory.
func projectRoot() (string, error) {
	if rootDir != "" {
		return rootDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if root, err := memoria.FindRoot(wd); err == nil {
		return root, nil
	}
	return wd, nil
}

func options() []memoria.Option {
	opts := []memoria.Option{
		memoria.WithLogger(slog.Default()),
		memoria.WithReadOnly(readOnly),
		memoria.WithVersioning(versioning),
	}
	if memoryDir != "" {
		opts = append(opts, memoria.WithMemoryDir(memoryDir))
	}
	if configFile != "" {
		opts = append(opts, memoria.WithConfigFile(configFile))
	}
	return opts
}

func openService() (*core.Service, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	svc, err := memoria.New(root, options()...)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory: %w", err)
	}
	return svc, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
