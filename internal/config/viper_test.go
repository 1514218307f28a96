package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/settle2qif/internal/models"
	"fjacquet/settle2qif/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// chdirTemp runs the test from an empty directory so no config.yaml is found.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestInitializeConfig_Defaults(t *testing.T) {
	chdirTemp(t)

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "QIF_Source_Data.csv", config.Input.Path)
	assert.Equal(t, "utf-8", config.Input.Encoding)
	assert.False(t, config.Input.SkipHeader)
	assert.Equal(t, "Square_Transactions_Import.qif", config.Output.Path)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, ',', config.Delimiter())
	assert.Equal(t, models.DefaultSplitAccounts(), config.Accounts)
	assert.Equal(t, "", config.Audit.Path)
	assert.False(t, config.History.Enabled)
	assert.Equal(t, "settle2qif.db", config.History.Path)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	chdirTemp(t)

	testEnvVars := map[string]string{
		"SETTLE2QIF_LOG_LEVEL":         "debug",
		"SETTLE2QIF_LOG_FORMAT":        "json",
		"SETTLE2QIF_INPUT_PATH":        "export.csv",
		"SETTLE2QIF_INPUT_SKIP_HEADER": "true",
		"SETTLE2QIF_CSV_DELIMITER":     ";",
		"SETTLE2QIF_ACCOUNTS_FEES":     "Expenses:Fees",
		"SETTLE2QIF_HISTORY_ENABLED":   "true",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "export.csv", config.Input.Path)
	assert.True(t, config.Input.SkipHeader)
	assert.Equal(t, ';', config.Delimiter())
	assert.Equal(t, "Expenses:Fees", config.Accounts.Fees)
	assert.Equal(t, models.DefaultTaxAccount, config.Accounts.Tax)
	assert.True(t, config.History.Enabled)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	content := `
input:
  path: settlements.csv
  encoding: windows-1252
output:
  path: out/import.qif
accounts:
  fees: Fees
  tax: Tax
  revenue: Revenue
audit:
  path: out/audit.csv
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "settlements.csv", config.Input.Path)
	assert.Equal(t, "windows-1252", config.Input.Encoding)
	assert.Equal(t, "out/import.qif", config.Output.Path)
	assert.Equal(t, models.SplitAccounts{Fees: "Fees", Tax: "Tax", Revenue: "Revenue"}, config.Accounts)
	assert.Equal(t, "out/audit.csv", config.Audit.Path)
	assert.Equal(t, "info", config.Log.Level)
}

func TestInitializeConfig_EnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  path: from-file.qif\n"), 0600))
	t.Setenv("SETTLE2QIF_OUTPUT_PATH", "from-env.qif")

	config, err := InitializeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.qif", config.Output.Path)
}

func TestInitializeConfig_OutputVerify(t *testing.T) {
	chdirTemp(t)

	config, err := InitializeConfig("")
	require.NoError(t, err)
	assert.False(t, config.Output.Verify)

	t.Setenv("SETTLE2QIF_OUTPUT_VERIFY", "true")
	config, err = InitializeConfig("")
	require.NoError(t, err)
	assert.True(t, config.Output.Verify)
}

func TestInitializeConfig_ExplicitFileMissing(t *testing.T) {
	dir := chdirTemp(t)

	_, err := InitializeConfig(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestInitializeConfig_InvalidValue(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SETTLE2QIF_CSV_DELIMITER", ";;")

	_, err := InitializeConfig("")

	var cfgErr *parsererror.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "csv.delimiter", cfgErr.Key)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantKey string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantKey: "log.level"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantKey: "log.format"},
		{name: "empty delimiter", mutate: func(c *Config) { c.CSV.Delimiter = "" }, wantKey: "csv.delimiter"},
		{name: "multi-byte single character delimiter", mutate: func(c *Config) { c.CSV.Delimiter = "¦" }},
		{name: "tab delimiter", mutate: func(c *Config) { c.CSV.Delimiter = "\t" }},
		{name: "unknown encoding", mutate: func(c *Config) { c.Input.Encoding = "utf-16" }, wantKey: "input.encoding"},
		{name: "empty input path", mutate: func(c *Config) { c.Input.Path = " " }, wantKey: "input.path"},
		{name: "empty output path", mutate: func(c *Config) { c.Output.Path = "" }, wantKey: "output.path"},
		{name: "empty fee account", mutate: func(c *Config) { c.Accounts.Fees = "" }, wantKey: "accounts.fees"},
		{name: "empty tax account", mutate: func(c *Config) { c.Accounts.Tax = "" }, wantKey: "accounts.tax"},
		{name: "empty revenue account", mutate: func(c *Config) { c.Accounts.Revenue = "" }, wantKey: "accounts.revenue"},
		{
			name:    "history enabled without path",
			mutate:  func(c *Config) { c.History.Enabled = true; c.History.Path = "" },
			wantKey: "history.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)

			err := Validate(c)
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *parsererror.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestDelimiter_MultiByte(t *testing.T) {
	c := Default()
	c.CSV.Delimiter = "¦"
	assert.Equal(t, '¦', c.Delimiter())
}

func TestToYAML(t *testing.T) {
	c := Default()
	c.Audit.Path = "audit.csv"

	out, err := c.ToYAML()
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, *c, decoded)
	assert.Contains(t, string(out), "skip_header: false")
}
