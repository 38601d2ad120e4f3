package memoria

import (
	"log/slog"
	"time"

	"github.com/aretw0/memoria/internal/platform"
	"github.com/aretw0/memoria/pkg/core"
)

// --- Configuration ---

// Option defines a functional option for configuring memoria.
type Option = platform.Option

// Config is the memory configuration.
type Config = core.Config

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return core.DefaultConfig()
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithConfig uses cfg as is and skips configuration file discovery.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// WithConfigFile loads the configuration from path.
func WithConfigFile(path string) Option {
	return platform.WithConfigFile(path)
}

// WithMemoryDir overrides the configured memory directory.
func WithMemoryDir(dir string) Option {
	return platform.WithMemoryDir(dir)
}

// WithReadOnly skips store creation and rejects writes.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithVersioning commits ingested changes to git.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithWatcherErrorHandler registers a callback for watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a new memoria Service for the project at root.
func New(root string, opts ...Option) (*core.Service, error) {
	return platform.New(root, opts...)
}

// Init prepares the stores explicitly.
func Init(root string, opts ...Option) (core.Repository, error) {
	return platform.Init(root, opts...)
}

// LoadConfig reads a configuration file and merges it over the defaults.
func LoadConfig(path string, logger *slog.Logger) (Config, error) {
	return platform.LoadConfig(path, logger)
}

// FindRoot recursively looks upwards for a project root indicator.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// ResolveConfig returns the configuration New would use for root.
func ResolveConfig(root string, opts ...Option) Config {
	return platform.Config(root, opts...)
}

// SaveConfig writes cfg as YAML to path.
func SaveConfig(path string, cfg Config) error {
	return platform.SaveConfig(path, cfg)
}

// FindConfig returns the first configuration file under root, or "".
func FindConfig(root string) string {
	return platform.FindConfig(root)
}

// MemoryPath resolves the memory directory of cfg against root.
func MemoryPath(root string, cfg Config) string {
	return platform.MemoryPath(root, cfg)
}

// ConfigCandidates are the configuration paths probed under a project root.
var ConfigCandidates = platform.ConfigCandidates
