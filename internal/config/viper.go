// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/settle2qif/internal/fileutils"
	"fjacquet/settle2qif/internal/models"
	"fjacquet/settle2qif/internal/parsererror"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by InitializeConfig.
const EnvPrefix = "SETTLE2QIF"

// Default input and output file names.
const (
	DefaultInputPath   = "QIF_Source_Data.csv"
	DefaultOutputPath  = "Square_Transactions_Import.qif"
	DefaultHistoryPath = "settle2qif.db"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Input struct {
		Path       string `mapstructure:"path" yaml:"path"`
		Encoding   string `mapstructure:"encoding" yaml:"encoding"`
		SkipHeader bool   `mapstructure:"skip_header" yaml:"skip_header"`
	} `mapstructure:"input" yaml:"input"`

	Output struct {
		Path   string `mapstructure:"path" yaml:"path"`
		Verify bool   `mapstructure:"verify" yaml:"verify"`
	} `mapstructure:"output" yaml:"output"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Accounts models.SplitAccounts `mapstructure:"accounts" yaml:"accounts"`

	Audit struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"audit" yaml:"audit"`

	History struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"history" yaml:"history"`
}

// InitializeConfig loads configuration from defaults, an optional config
// file and SETTLE2QIF_* environment variables, in increasing priority.
// An empty configFile searches for config.yaml in the usual locations.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.settle2qif")
		v.AddConfigPath(".settle2qif")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicitly named file must exist
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing overrides a value.
func Default() *Config {
	var config Config
	config.Log.Level = "info"
	config.Log.Format = "text"
	config.Input.Path = DefaultInputPath
	config.Input.Encoding = fileutils.EncodingUTF8
	config.Output.Path = DefaultOutputPath
	config.CSV.Delimiter = ","
	config.Accounts = models.DefaultSplitAccounts()
	config.History.Path = DefaultHistoryPath
	return &config
}

// setDefaults registers every key of Default with v so that environment
// variables bind to them.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("input.path", d.Input.Path)
	v.SetDefault("input.encoding", d.Input.Encoding)
	v.SetDefault("input.skip_header", d.Input.SkipHeader)

	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.verify", d.Output.Verify)

	v.SetDefault("csv.delimiter", d.CSV.Delimiter)

	v.SetDefault("accounts.fees", d.Accounts.Fees)
	v.SetDefault("accounts.tax", d.Accounts.Tax)
	v.SetDefault("accounts.revenue", d.Accounts.Revenue)

	v.SetDefault("audit.path", d.Audit.Path)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
}

// Validate checks every configuration value.
func Validate(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return &parsererror.ConfigError{Key: "log.level", Reason: fmt.Sprintf("unknown level %q", config.Log.Level)}
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return &parsererror.ConfigError{Key: "log.format", Reason: fmt.Sprintf("%q must be 'text' or 'json'", config.Log.Format)}
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return &parsererror.ConfigError{Key: "csv.delimiter", Reason: fmt.Sprintf("must be a single character, got %q", config.CSV.Delimiter)}
	}

	if !fileutils.IsSupportedEncoding(config.Input.Encoding) {
		return &parsererror.ConfigError{Key: "input.encoding", Reason: fmt.Sprintf("unsupported encoding %q", config.Input.Encoding)}
	}

	required := []struct {
		key   string
		value string
	}{
		{"input.path", config.Input.Path},
		{"output.path", config.Output.Path},
		{"accounts.fees", config.Accounts.Fees},
		{"accounts.tax", config.Accounts.Tax},
		{"accounts.revenue", config.Accounts.Revenue},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &parsererror.ConfigError{Key: r.key, Reason: "must not be empty"}
		}
	}

	if config.History.Enabled && strings.TrimSpace(config.History.Path) == "" {
		return &parsererror.ConfigError{Key: "history.path", Reason: "must not be empty when history is enabled"}
	}

	return nil
}

// Delimiter returns the CSV delimiter as a rune. Call only on a validated config.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

// ToYAML renders the configuration as YAML.
func (c *Config) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}
