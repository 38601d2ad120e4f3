package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Timestamp formats accepted by Config.TimestampFormat.
const (
	TimestampISO8601 = "ISO8601"
	TimestampCompact = "YYYY-MM-DD_HH-MM-SS"
	TimestampUnix    = "timestamp"
)

// ResearchPhases is the default phase taxonomy.
var ResearchPhases = []string{
	"DGP", "data_preprocess", "data_analyse", "modeling",
	"robustness", "writing", "infra", "notes",
}

// Config is the memory configuration. It is built once and passed to the
// components that need it; nothing reads it from global state.
type Config struct {
	MemoryDirectory string          `yaml:"memory_directory" json:"memory_directory"`
	Encoding        string          `yaml:"encoding" json:"encoding"`
	CSVDelimiter    string          `yaml:"csv_delimiter" json:"csv_delimiter"`
	TimestampFormat string          `yaml:"timestamp_format" json:"timestamp_format"`
	Bootstrap       BootstrapConfig `yaml:"bootstrap" json:"bootstrap"`
	Logging         LoggingConfig   `yaml:"logging" json:"logging"`
	Search          SearchConfig    `yaml:"search" json:"search"`

	// Extra keeps unknown top-level sections untouched.
	Extra map[string]any `yaml:",inline" json:"-"`
}

type BootstrapConfig struct {
	RecentEntriesCount int  `yaml:"recent_entries_count" json:"recent_entries_count"`
	IncludeTodos       bool `yaml:"include_todos" json:"include_todos"`
	SuggestWorkPlan    bool `yaml:"suggest_work_plan" json:"suggest_work_plan"`
}

type LoggingConfig struct {
	AutoTimestamp    bool     `yaml:"auto_timestamp" json:"auto_timestamp"`
	PhaseSections    []string `yaml:"phase_sections" json:"phase_sections"`
	ExperimentSchema []string `yaml:"experiment_schema" json:"experiment_schema"`
}

type SearchConfig struct {
	MaxResults     int  `yaml:"max_results" json:"max_results"`
	IncludeContext bool `yaml:"include_context" json:"include_context"`
	ContextLines   int  `yaml:"context_lines" json:"context_lines"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		MemoryDirectory: "memory",
		Encoding:        "utf-8",
		CSVDelimiter:    ",",
		TimestampFormat: TimestampISO8601,
		Bootstrap: BootstrapConfig{
			RecentEntriesCount: 5,
			IncludeTodos:       true,
			SuggestWorkPlan:    true,
		},
		Logging: LoggingConfig{
			AutoTimestamp:    true,
			PhaseSections:    append([]string(nil), ResearchPhases...),
			ExperimentSchema: []string{"hypothesis", "dataset", "model", "metrics", "notes"},
		},
		Search: SearchConfig{
			MaxResults:     10,
			IncludeContext: true,
			ContextLines:   3,
		},
	}
}

// Normalize replaces invalid values with their defaults.
// It returns one message per replaced value.
func (c *Config) Normalize() []string {
	def := DefaultConfig()
	var issues []string
	fix := func(field string, got any) {
		issues = append(issues, fmt.Sprintf("%s: invalid value %v, using default", field, got))
	}

	if c.MemoryDirectory == "" {
		c.MemoryDirectory = def.MemoryDirectory
	}
	if c.Encoding == "" {
		c.Encoding = def.Encoding
	}
	if c.CSVDelimiter == "" {
		c.CSVDelimiter = def.CSVDelimiter
	} else if utf8.RuneCountInString(c.CSVDelimiter) != 1 || c.CSVDelimiter == "\n" || c.CSVDelimiter == "\"" {
		fix("csv_delimiter", strconv.Quote(c.CSVDelimiter))
		c.CSVDelimiter = def.CSVDelimiter
	}
	switch c.TimestampFormat {
	case TimestampISO8601, TimestampCompact, TimestampUnix:
	case "":
		c.TimestampFormat = def.TimestampFormat
	default:
		fix("timestamp_format", c.TimestampFormat)
		c.TimestampFormat = def.TimestampFormat
	}
	if c.Bootstrap.RecentEntriesCount <= 0 {
		fix("bootstrap.recent_entries_count", c.Bootstrap.RecentEntriesCount)
		c.Bootstrap.RecentEntriesCount = def.Bootstrap.RecentEntriesCount
	}
	if c.Search.MaxResults <= 0 {
		fix("search.max_results", c.Search.MaxResults)
		c.Search.MaxResults = def.Search.MaxResults
	}
	if c.Search.ContextLines < 0 {
		fix("search.context_lines", c.Search.ContextLines)
		c.Search.ContextLines = def.Search.ContextLines
	}
	if len(c.Logging.PhaseSections) == 0 {
		c.Logging.PhaseSections = def.Logging.PhaseSections
	}
	if len(c.Logging.ExperimentSchema) == 0 {
		c.Logging.ExperimentSchema = def.Logging.ExperimentSchema
	}
	return issues
}

// Delimiter returns the CSV field delimiter as a rune.
func (c Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// FormatTimestamp renders t according to the configured timestamp format.
func (c Config) FormatTimestamp(t time.Time) string {
	t = t.UTC()
	switch c.TimestampFormat {
	case TimestampCompact:
		return t.Format("2006-01-02_15-04-05")
	case TimestampUnix:
		return strconv.FormatInt(t.Unix(), 10)
	default:
		return t.Format(time.RFC3339)
	}
}

// IsPhase reports whether name is one of the configured phases, ignoring case.
// It returns the canonical spelling.
func (c Config) IsPhase(name string) (string, bool) {
	for _, p := range c.Logging.PhaseSections {
		if strings.EqualFold(p, name) {
			return p, true
		}
	}
	return "", false
}
