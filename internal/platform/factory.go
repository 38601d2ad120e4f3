package platform

import (
	"github.com/aretw0/memoria/pkg/core"
)

// New creates a memoria Service for the project at root.
//
//	svc, err := memoria.New(".", memoria.WithReadOnly(true))
//
// The root argument is adapter-specific (the project directory for 'fs').
func New(root string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	cfg := o.resolveConfig(root)
	repo, err := initRepository(root, cfg, o)
	if err != nil {
		return nil, err
	}

	var svcOpts []core.ServiceOption
	if o.clock != nil {
		svcOpts = append(svcOpts, core.WithClock(o.clock))
	}
	return core.NewService(repo, cfg, o.log(), svcOpts...), nil
}

// Init prepares the stores of the project at root and returns the repository.
func Init(root string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRepository(root, o.resolveConfig(root), o)
}

// Config resolves the configuration New would use for root.
func Config(root string, opts ...Option) core.Config {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o.resolveConfig(root)
}

// resolveConfig picks the explicit config, else the given file, else the discovered one.
// Load failures fall back to defaults.
func (o *options) resolveConfig(root string) core.Config {
	var cfg core.Config
	switch {
	case o.settings != nil:
		cfg = *o.settings
		for _, issue := range cfg.Normalize() {
			o.log().Warn("config value replaced", "issue", issue)
		}
	default:
		path := o.configPath
		if path == "" {
			path = FindConfig(root)
		}
		loaded, err := LoadConfig(path, o.log())
		if err != nil {
			o.log().Warn("using default configuration", "path", path, "error", err)
		}
		cfg = loaded
	}

	if dir, ok := o.config["memory_dir"].(string); ok && dir != "" {
		cfg.MemoryDirectory = dir
	}
	return cfg
}
