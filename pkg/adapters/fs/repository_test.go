package fs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/memoria/pkg/core"
)

func newTestRepo(t *testing.T, mutate ...func(*Config)) *Repository {
	t.Helper()
	cfg := Config{
		Path:     filepath.Join(t.TempDir(), "memory"),
		Settings: core.DefaultConfig(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	return NewRepository(cfg)
}

func writeStore(t *testing.T, r *Repository, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(r.Path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(r.Path, name), data, 0644))
}

func TestInitialize(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Initialize(ctx))
	for _, name := range StoreFiles {
		assert.FileExists(t, filepath.Join(r.Path, name))
	}

	overview, err := r.ReadOverview(ctx)
	require.NoError(t, err)
	assert.Contains(t, overview, "# Project Overview")
	assert.Contains(t, overview, "## Project Status")

	records, err := r.ReadExperiments(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	todos, err := r.ReadTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestInitialize_KeepsExistingStores(t *testing.T) {
	r := newTestRepo(t)
	writeStore(t, r, DevlogFile, []byte("## 2024-01-01 09:00\nmine\n"))

	require.NoError(t, r.Initialize(context.Background()))

	data, err := os.ReadFile(filepath.Join(r.Path, DevlogFile))
	require.NoError(t, err)
	assert.Equal(t, "## 2024-01-01 09:00\nmine\n", string(data))
}

func TestInitialize_ReadOnly(t *testing.T) {
	r := newTestRepo(t, func(c *Config) { c.ReadOnly = true })

	require.NoError(t, r.Initialize(context.Background()))
	assert.NoDirExists(t, r.Path)
}

func TestInitialize_Delimiter(t *testing.T) {
	r := newTestRepo(t, func(c *Config) { c.Settings.CSVDelimiter = ";" })
	require.NoError(t, r.Initialize(context.Background()))

	data, err := os.ReadFile(filepath.Join(r.Path, ExperimentsFile))
	require.NoError(t, err)
	assert.Equal(t, "timestamp;experiment_id;hypothesis;dataset;model;spec;metrics;notes;research_phase\n", string(data))
}

func TestRead_MissingStore(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.ReadText(ctx, core.SourceDevlog)
	assert.ErrorIs(t, err, core.ErrMissingStore)
	_, err = r.ReadExperiments(ctx)
	assert.ErrorIs(t, err, core.ErrMissingStore)
	_, err = r.ReadTodos(ctx)
	assert.ErrorIs(t, err, core.ErrMissingStore)
	_, err = r.ReadOverview(ctx)
	assert.ErrorIs(t, err, core.ErrMissingStore)

	_, err = r.ReadText(ctx, core.SourceExperiments)
	assert.Error(t, err)
}

func TestReadText(t *testing.T) {
	r := newTestRepo(t)
	writeStore(t, r, DecisionsFile, []byte("\xEF\xBB\xBF# Key Decisions\r\n\r\n## 2024-03-01T10:00:00Z\r\n\r\n**Decision**: Use 2SLS\r\n"))

	store, err := r.ReadText(context.Background(), core.SourceDecisions)
	require.NoError(t, err)
	assert.Equal(t, []string{"# Key Decisions", "", "## 2024-03-01T10:00:00Z", "", "**Decision**: Use 2SLS"}, store.Lines)
	require.Len(t, store.Entries, 1)
	assert.Equal(t, "2024-03-01", store.Entries[0].Date)
	assert.Equal(t, 3, store.Entries[0].Line)
}

func TestReadText_InvalidUTF8(t *testing.T) {
	r := newTestRepo(t)
	writeStore(t, r, DevlogFile, []byte("caf\xE9\n"))

	_, err := r.ReadText(context.Background(), core.SourceDevlog)
	assert.ErrorIs(t, err, core.ErrMalformedStore)
}

func TestReadText_Latin1(t *testing.T) {
	r := newTestRepo(t, func(c *Config) { c.Settings.Encoding = "latin1" })
	writeStore(t, r, DevlogFile, []byte("## 2024-03-01 10:00\ncaf\xE9 au lait\n"))

	store, err := r.ReadText(context.Background(), core.SourceDevlog)
	require.NoError(t, err)
	assert.Equal(t, "café au lait", store.Lines[1])
	assert.Equal(t, "windows-1252", r.State().(RepositoryState).Encoding)
}

func TestNewRepository_UnknownEncoding(t *testing.T) {
	r := newTestRepo(t, func(c *Config) { c.Settings.Encoding = "klingon" })
	assert.Equal(t, "utf-8", r.State().(RepositoryState).Encoding)
}

func TestReadExperiments(t *testing.T) {
	r := newTestRepo(t, func(c *Config) { c.Settings.CSVDelimiter = ";" })
	writeStore(t, r, ExperimentsFile, []byte(
		" Timestamp ;Experiment_ID;hypothesis;dataset;owner\n"+
			"2024-03-01T10:00:00Z;exp_1;IV > OLS;census;ana\n"+
			"2024-03-02T10:00:00Z;exp_2\n"+
			"2024-03-03T10:00:00Z;exp_3;\"quoted; value\";panel;bo;extra\n"))

	records, err := r.ReadExperiments(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, 2, records[0].Row)
	assert.Equal(t, "exp_1", records[0].ExperimentID)
	assert.Equal(t, "2024-03-01T10:00:00Z", records[0].Timestamp)
	assert.Equal(t, "census", records[0].Dataset)
	assert.Equal(t, "ana", records[0].Fields["owner"])

	assert.Equal(t, 3, records[1].Row)
	assert.Empty(t, records[1].Hypothesis, "short rows pad with empty values")

	assert.Equal(t, "quoted; value", records[2].Hypothesis)
}

func TestReadExperiments_Empty(t *testing.T) {
	r := newTestRepo(t)
	writeStore(t, r, ExperimentsFile, nil)

	records, err := r.ReadExperiments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRepository_State(t *testing.T) {
	r := newTestRepo(t, func(c *Config) { c.Versioning = true })
	writeStore(t, r, DevlogFile, []byte("# Development Log\n"))

	state, ok := r.State().(RepositoryState)
	require.True(t, ok)
	assert.Equal(t, r.Path, state.Path)
	assert.Equal(t, ",", state.Delimiter)
	assert.True(t, state.Versioning)
	assert.True(t, state.Stores[DevlogFile])
	assert.False(t, state.Stores[TodosFile])
	assert.False(t, state.WatcherActive)
	assert.Nil(t, state.LastWrite)
	assert.Equal(t, "repository", r.ComponentType())
}
