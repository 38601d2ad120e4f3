package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/memoria/pkg/core"
)

// options holds the internal configuration for the memoria service.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	adapter    string
	settings   *core.Config
	configPath string
	clock      func() time.Time
	config     map[string]interface{}
}

// Option defines a functional option for configuring memoria.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

func (o *options) log() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter allows specifying the storage adapter to use by name (e.g. "fs").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithConfig uses cfg as is and skips configuration file discovery.
func WithConfig(cfg core.Config) Option {
	return func(o *options) {
		o.settings = &cfg
	}
}

// WithConfigFile loads the configuration from path instead of discovering it.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithMemoryDir overrides the configured memory directory.
func WithMemoryDir(dir string) Option {
	return func(o *options) {
		o.config["memory_dir"] = dir
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Write operations (log-session, todo completion) return ErrReadOnly.
// 2. Initialization (Mkdir, default stores) is skipped.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithVersioning commits ingested changes when the memory directory is in a git work tree.
// By default, versioning is disabled.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["versioning"] = enabled
	}
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithWatcherErrorHandler registers a callback to handle errors occurring during the Watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
