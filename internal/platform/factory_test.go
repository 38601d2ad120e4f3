package platform

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/memoria/pkg/adapters/fs"
	"github.com/aretw0/memoria/pkg/core"
)

func TestNew_InitializesStores(t *testing.T) {
	root := t.TempDir()

	svc, err := New(root, WithLogger(discard))
	require.NoError(t, err)

	repo, ok := svc.Repository().(*fs.Repository)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "memory"), repo.Path)
	assert.FileExists(t, filepath.Join(root, "memory", fs.DevlogFile))
}

func TestNew_UsesDiscoveredConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config.yaml", "memory_directory: lab\nsearch:\n  max_results: 4\n")

	svc, err := New(root, WithLogger(discard))
	require.NoError(t, err)
	assert.Equal(t, 4, svc.Config().Search.MaxResults)
	assert.DirExists(t, filepath.Join(root, "lab"))
}

func TestNew_BrokenConfigUsesDefaults(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config.yaml", "search: [unclosed\n")

	svc, err := New(root, WithLogger(discard))
	require.NoError(t, err)
	assert.Equal(t, core.DefaultConfig().Search, svc.Config().Search)
	assert.DirExists(t, filepath.Join(root, "memory"))
}

func TestNew_Options(t *testing.T) {
	root := t.TempDir()
	custom := core.DefaultConfig()
	custom.Search.MaxResults = 2
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	svc, err := New(root,
		WithLogger(discard),
		WithConfig(custom),
		WithMemoryDir("elsewhere"),
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.Config().Search.MaxResults)
	assert.Equal(t, "elsewhere", svc.Config().MemoryDirectory)

	_, err = svc.LogSession(context.Background(), core.Session{Goal: "clocked"})
	require.NoError(t, err)
	res := svc.Bootstrap(context.Background())
	require.Len(t, res.RecentProgress, 1)
	assert.Contains(t, res.RecentProgress[0], "## 2024-03-01 10:30")
}

func TestNew_ReadOnly(t *testing.T) {
	root := t.TempDir()

	svc, err := New(root, WithLogger(discard), WithReadOnly(true))
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(root, "memory"))

	_, err = svc.LogSession(context.Background(), core.Session{Goal: "x"})
	assert.ErrorIs(t, err, core.ErrReadOnly)

	res := svc.Search(context.Background(), "anything", core.Filters{})
	assert.Empty(t, res.Matches)
}

func TestNew_UnknownAdapter(t *testing.T) {
	_, err := New(t.TempDir(), WithLogger(discard), WithAdapter("s3"))
	assert.Error(t, err)
}

type stubRepo struct{ core.Repository }

func TestNew_InjectedRepository(t *testing.T) {
	repo := stubRepo{}
	svc, err := New(t.TempDir(), WithRepository(repo))
	require.NoError(t, err)
	assert.Equal(t, repo, svc.Repository())
}

func TestMemoryPath(t *testing.T) {
	cfg := core.DefaultConfig()
	assert.Equal(t, filepath.Join("proj", "memory"), MemoryPath("proj", cfg))
	assert.Equal(t, "memory", MemoryPath("", cfg))

	abs := filepath.Join(t.TempDir(), "m")
	cfg.MemoryDirectory = abs
	assert.Equal(t, abs, MemoryPath("proj", cfg))
}
