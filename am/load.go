package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/assocparse/errors"
)

// EnvPrefix prefixes every environment override (ASSOCPARSE_PARSER_FORMAT)
const EnvPrefix = "ASSOCPARSE"

var (
	loadMu        sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper
	configSources map[string]SourceInfo
)

// Load reads the configuration using Viper. The result is cached until
// Reset.
func Load() (*Config, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return globalConfig, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, on top of
// the defaults and without environment overrides
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}
	return LoadWithViper(v)
}

// Reset clears the cached configuration
func Reset() {
	loadMu.Lock()
	defer loadMu.Unlock()
	globalConfig = nil
	viperInstance = nil
	configSources = nil
}

// newViper returns a Viper with defaults and environment binding but no
// files
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)
	SetDefaults(v)
	return v
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}
	v := newViper()
	configSources = mergeConfigFiles(v, configPaths())
	viperInstance = v
	return v
}

// configPaths lists candidate files, lowest precedence first
func configPaths() []configFile {
	paths := []configFile{{Path: "/etc/assocparse/am.toml", Source: SourceSystem}}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, configFile{Path: filepath.Join(home, ".assocparse", "am.toml"), Source: SourceUser})
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, configFile{Path: project, Source: SourceProject})
	}
	return paths
}

type configFile struct {
	Path   string
	Source ConfigSource
}

// findProjectConfig searches for am.toml or config.toml by walking up the
// directory tree. am.toml wins over config.toml in the same directory.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range []string{"am.toml", "config.toml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges files into v in order and records which file
// each key came from. Unreadable files are skipped.
func mergeConfigFiles(v *viper.Viper, files []configFile) map[string]SourceInfo {
	sources := make(map[string]SourceInfo)
	for _, f := range files {
		if _, err := os.Stat(f.Path); err != nil {
			continue
		}
		fileViper := viper.New()
		fileViper.SetConfigFile(f.Path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}
		settings := fileViper.AllSettings()
		if err := v.MergeConfigMap(settings); err != nil {
			continue
		}
		markSettingsFromSource(settings, "", f.Source, f.Path, sources)
	}
	return sources
}
