package git

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Lock(t *testing.T) {
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, nil)

	unlock, err := client.Lock()
	require.NoError(t, err)

	lockPath := filepath.Join(tmpDir, ".memoria.lock")
	assert.FileExists(t, lockPath)

	unlock()
	assert.NoFileExists(t, lockPath)
}

func TestClient_LockWaitsForRelease(t *testing.T) {
	client := NewClient(t.TempDir(), nil)

	unlock, err := client.Lock()
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	acquired := make(chan struct{})
	go func() {
		defer wg.Done()
		second, err := client.Lock()
		if err == nil {
			close(acquired)
			second()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first is held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	wg.Wait()
	select {
	case <-acquired:
	default:
		t.Fatal("second lock never acquired")
	}
}

func TestClient_InitAndCommit(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, nil)

	assert.False(t, client.IsRepo())
	require.NoError(t, client.Init())
	assert.DirExists(t, filepath.Join(tmpDir, ".git"))
	assert.True(t, client.IsRepo())

	_, err := client.Run("config", "user.email", "test@example.com")
	require.NoError(t, err)
	_, err = client.Run("config", "user.name", "Test")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "devlog.md"), []byte("# Development Log\n"), 0644))
	status, err := client.Status()
	require.NoError(t, err)
	assert.Contains(t, status, "devlog.md")

	require.NoError(t, client.Add("devlog.md"))
	require.NoError(t, client.Commit("docs(memory): init"))

	status, err = client.Status()
	require.NoError(t, err)
	assert.Empty(t, status)

	subject, err := client.Run("log", "-1", "--format=%s")
	require.NoError(t, err)
	assert.Equal(t, "docs(memory): init", subject)
}

func TestClient_AddNothing(t *testing.T) {
	client := NewClient(t.TempDir(), nil)
	assert.NoError(t, client.Add())
}

func TestClient_CommitOnlyGivenFiles(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, nil)
	require.NoError(t, client.Init())
	_, err := client.Run("config", "user.email", "test@example.com")
	require.NoError(t, err)
	_, err = client.Run("config", "user.name", "Test")
	require.NoError(t, err)

	for _, name := range []string{"devlog.md", "unrelated.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte(name+"\n"), 0644))
	}
	require.NoError(t, client.Add("devlog.md", "unrelated.txt"))
	require.NoError(t, client.Commit("docs(memory): log session", "devlog.md"))

	committed, err := client.Run("show", "--name-only", "--format=", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "devlog.md", committed)

	status, err := client.Status("unrelated.txt")
	require.NoError(t, err)
	assert.Equal(t, "A  unrelated.txt", status)
	status, err = client.Status("devlog.md")
	require.NoError(t, err)
	assert.Empty(t, status)
}
