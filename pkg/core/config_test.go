package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_IsNormal(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Normalize())
	assert.Equal(t, "memory", cfg.MemoryDirectory)
	assert.Equal(t, 5, cfg.Bootstrap.RecentEntriesCount)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, 3, cfg.Search.ContextLines)
	assert.Equal(t, ResearchPhases, cfg.Logging.PhaseSections)
}

func TestConfig_Normalize(t *testing.T) {
	cfg := Config{
		CSVDelimiter:    ";;",
		TimestampFormat: "RFC822",
		Search:          SearchConfig{MaxResults: -4, ContextLines: -1},
	}

	issues := cfg.Normalize()

	assert.Len(t, issues, 5)
	def := DefaultConfig()
	assert.Equal(t, def.MemoryDirectory, cfg.MemoryDirectory)
	assert.Equal(t, def.Encoding, cfg.Encoding)
	assert.Equal(t, ",", cfg.CSVDelimiter)
	assert.Equal(t, TimestampISO8601, cfg.TimestampFormat)
	assert.Equal(t, def.Bootstrap.RecentEntriesCount, cfg.Bootstrap.RecentEntriesCount)
	assert.Equal(t, def.Search.MaxResults, cfg.Search.MaxResults)
	assert.Equal(t, def.Search.ContextLines, cfg.Search.ContextLines)
	assert.Equal(t, def.Logging.ExperimentSchema, cfg.Logging.ExperimentSchema)
}

func TestConfig_Delimiter(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ',', cfg.Delimiter())

	cfg.CSVDelimiter = "\t"
	assert.Equal(t, '\t', cfg.Delimiter())

	cfg.CSVDelimiter = "|"
	assert.Equal(t, '|', cfg.Delimiter())
}

func TestConfig_FormatTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 5, 7, 0, time.FixedZone("BRT", -3*3600))
	cfg := DefaultConfig()

	assert.Equal(t, "2024-03-01T12:05:07Z", cfg.FormatTimestamp(at))

	cfg.TimestampFormat = TimestampCompact
	assert.Equal(t, "2024-03-01_12-05-07", cfg.FormatTimestamp(at))

	cfg.TimestampFormat = TimestampUnix
	assert.Equal(t, "1709294707", cfg.FormatTimestamp(at))
}

func TestConfig_IsPhase(t *testing.T) {
	cfg := DefaultConfig()

	p, ok := cfg.IsPhase("dgp")
	assert.True(t, ok)
	assert.Equal(t, "DGP", p)

	_, ok = cfg.IsPhase("lunch")
	assert.False(t, ok)
}
