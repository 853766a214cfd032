package am

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Default values, also written by `am init`
const (
	DefaultFormat       = "gaf"
	DefaultSampleSize   = 10
	DefaultReportFormat = ReportFormatMarkdown
	DefaultDatabasePath = "assocparse.db"
	DefaultFetchTimeout = 300
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("parser.format", DefaultFormat)
	v.SetDefault("parser.remove_double_prefixes", false)
	v.SetDefault("parser.entity_map_file", "")
	v.SetDefault("parser.class_map_file", "")
	v.SetDefault("parser.valid_taxa", []string{})
	v.SetDefault("parser.class_idspaces", []string{})

	v.SetDefault("report.sample_size", DefaultSampleSize)
	v.SetDefault("report.format", DefaultReportFormat)

	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("database.persist", false)

	v.SetDefault("source.fetch_timeout_seconds", DefaultFetchTimeout)
	v.SetDefault("source.temp_dir", "")
}

// BindEnvVars binds settings that are commonly overridden per invocation
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "ASSOCPARSE_DATABASE_PATH")
	v.BindEnv("source.temp_dir", "ASSOCPARSE_TEMP_DIR")
}

// Defaults returns a Config holding only the built-in defaults
func Defaults() *Config {
	return &Config{
		Parser:   ParserConfig{Format: DefaultFormat, ValidTaxa: []string{}, ClassIdspaces: []string{}},
		Report:   ReportConfig{SampleSize: DefaultSampleSize, Format: DefaultReportFormat},
		Database: DatabaseConfig{Path: DefaultDatabasePath},
		Source:   SourceConfig{FetchTimeoutSeconds: DefaultFetchTimeout},
	}
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// FetchTimeout returns the remote fetch limit (0 = none)
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Source.FetchTimeoutSeconds) * time.Second
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Parser: {Format: %s}, Report: {Format: %s}, Database: %s}",
		c.Parser.Format, c.Report.Format, c.Database.Path)
}
