// Package am ("assocparse config") loads the application configuration.
//
// Settings come from TOML files merged in precedence order (system, user,
// project) with ASSOCPARSE_* environment variables on top. The loaded
// Config is turned into the immutable parser configuration by
// BuildParserConfig.
package am

// Config represents the assocparse configuration
type Config struct {
	Parser   ParserConfig   `mapstructure:"parser" toml:"parser"`
	Report   ReportConfig   `mapstructure:"report" toml:"report"`
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Source   SourceConfig   `mapstructure:"source" toml:"source"`
}

// ParserConfig configures decoding and identifier validation
type ParserConfig struct {
	Format               string   `mapstructure:"format" toml:"format"`                                 // gaf, gpad or hpoa
	RemoveDoublePrefixes bool     `mapstructure:"remove_double_prefixes" toml:"remove_double_prefixes"` // MGI:MGI:123 -> MGI:123
	EntityMapFile        string   `mapstructure:"entity_map_file" toml:"entity_map_file"`               // remap table for subject ids ("" = none)
	ClassMapFile         string   `mapstructure:"class_map_file" toml:"class_map_file"`                 // remap table for term ids ("" = none)
	ValidTaxa            []string `mapstructure:"valid_taxa" toml:"valid_taxa"`                         // empty = every taxon accepted
	ClassIdspaces        []string `mapstructure:"class_idspaces" toml:"class_idspaces"`                 // empty = every term prefix accepted
}

// ReportConfig configures the diagnostic digest
type ReportConfig struct {
	SampleSize int    `mapstructure:"sample_size" toml:"sample_size"` // example ids kept per statistic
	Format     string `mapstructure:"format" toml:"format"`           // md, json or yaml
}

// DatabaseConfig configures the SQLite run history
type DatabaseConfig struct {
	Path    string `mapstructure:"path" toml:"path"`
	Persist bool   `mapstructure:"persist" toml:"persist"` // save every parse run
}

// SourceConfig configures input resolution
type SourceConfig struct {
	FetchTimeoutSeconds int    `mapstructure:"fetch_timeout_seconds" toml:"fetch_timeout_seconds"` // 0 = no limit
	TempDir             string `mapstructure:"temp_dir" toml:"temp_dir"`                           // "" = system temp dir
}

// Report output formats
const (
	ReportFormatMarkdown = "md"
	ReportFormatJSON     = "json"
	ReportFormatYAML     = "yaml"
)

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
