package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/memoria/pkg/adapters/fs"
	"github.com/aretw0/memoria/pkg/core"
)

// initRepository builds the configured adapter and runs its initialization.
func initRepository(root string, cfg core.Config, o *options) (core.Repository, error) {
	// 1. Check for injected repository
	if o.repository != nil {
		return o.repository, nil
	}

	// 2. Initialize based on Adapter
	var repo core.Repository
	switch o.adapter {
	case "fs":
		repo = initFS(root, cfg, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	// 3. Run Initialization
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// MemoryPath resolves the memory directory of cfg against root.
func MemoryPath(root string, cfg core.Config) string {
	if filepath.IsAbs(cfg.MemoryDirectory) {
		return cfg.MemoryDirectory
	}
	if root == "" {
		root = "."
	}
	return filepath.Join(root, cfg.MemoryDirectory)
}

// initFS handles the initialization logic for the Filesystem adapter
func initFS(root string, cfg core.Config, o *options) *fs.Repository {
	readOnly, _ := o.config["read_only"].(bool)
	versioning, _ := o.config["versioning"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	path := MemoryPath(root, cfg)
	o.log().Debug("opening memory", "path", path, "read_only", readOnly, "versioning", versioning)

	return fs.NewRepository(fs.Config{
		Path:         path,
		Settings:     cfg,
		Logger:       o.log(),
		ReadOnly:     readOnly,
		Versioning:   versioning,
		ErrorHandler: errorHandler,
	})
}
