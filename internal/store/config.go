package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// DefaultKey is the durable key the todo document lives under.
	DefaultKey = "general-todos"

	configName = "config"
	envPrefix  = "GTODO"
)

// Config is the resolved runtime configuration. Values come from (lowest to highest):
// defaults, <config dir>/config.{yaml,json,toml}, GTODO_* env vars, CLI flags.
type Config struct {
	ConfigDir string `json:"configDir"`
	Backend   string `json:"backend"`
	DataDir   string `json:"dataDir"`
	Key       string `json:"key"`
	RedisURL  string `json:"redisUrl,omitempty"`
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
	LogFile   string `json:"logFile,omitempty"`

	// ConfigFile is the file viper read, empty when none was found.
	ConfigFile string `json:"configFile,omitempty"`
}

// SQLitePath is where the sqlite backend keeps its database.
func (c Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "gtodo.sqlite")
}

// DefaultLogFile is used while the TUI owns the terminal.
func (c Config) DefaultLogFile() string {
	if strings.TrimSpace(c.LogFile) != "" {
		return c.LogFile
	}
	return filepath.Join(c.ConfigDir, "gtodo.log")
}

// ConfigDir returns $GTODO_CONFIG_DIR or ~/.gtodo.
func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.gtodo).
	if v := strings.TrimSpace(os.Getenv("GTODO_CONFIG_DIR")); v != "" {
		return expandPath(v)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gtodo"), nil
}

// NewViper returns a viper instance with defaults and env bindings for configDir.
// Callers bind flags onto it before LoadConfig.
func NewViper(configDir string) *viper.Viper {
	v := viper.New()
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("data_dir", filepath.Join(configDir, "data"))
	v.SetDefault("key", DefaultKey)
	v.SetDefault("redis_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_file", "")

	v.SetConfigName(configName) // yaml/json/toml are all picked up
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the config file (if any) and resolves every key through v.
func LoadConfig(v *viper.Viper, configDir string) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}
	dataDir, err := expandPath(v.GetString("data_dir"))
	if err != nil {
		return Config{}, err
	}
	logFile, err := expandPath(v.GetString("log_file"))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		ConfigDir:  configDir,
		Backend:    strings.ToLower(strings.TrimSpace(v.GetString("backend"))),
		DataDir:    dataDir,
		Key:        strings.TrimSpace(v.GetString("key")),
		RedisURL:   strings.TrimSpace(v.GetString("redis_url")),
		LogLevel:   strings.TrimSpace(v.GetString("log_level")),
		LogFormat:  strings.TrimSpace(v.GetString("log_format")),
		LogFile:    logFile,
		ConfigFile: v.ConfigFileUsed(),
	}
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	return cfg, nil
}

func expandPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", nil
	}
	return homedir.Expand(p)
}
