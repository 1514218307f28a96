// Package root contains the root command for the application
package root

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/settle2qif/internal/config"
	"fjacquet/settle2qif/internal/container"
	"fjacquet/settle2qif/internal/logging"
	"fjacquet/settle2qif/internal/parsererror"

	"github.com/spf13/cobra"
)

// Exit codes returned by the binary.
const (
	ExitOK           = 0
	ExitUnexpected   = 1
	ExitMissingInput = 2
)

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer is built in PersistentPreRunE from the loaded configuration
	AppContainer *container.Container

	// Flags holds the parsed persistent flags
	Flags = GlobalFlags{}

	// LogOutput receives log output; nil means stderr
	LogOutput io.Writer

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "settle2qif",
		Short: "A CLI tool to convert payment-processor settlement CSV exports to QIF.",
		Long: `settle2qif converts settlement CSV exports into QIF (Quicken Interchange Format)
bank transactions. Every settlement row becomes one deposit split into fees,
tax and revenue categories, ready to import into GnuCash or Quicken.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVar(&Flags.ConfigFile, "config", "", "Config file (default: config.yaml in ., .settle2qif or $HOME/.settle2qif)")
	Cmd.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&Flags.LogFormat, "log-format", "", "Log format (text, json)")
}

// setup loads configuration and builds the application container.
func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig(Flags.ConfigFile)
	if err != nil {
		return err
	}
	switch {
	case Flags.LogLevel != "":
		cfg.Log.Level = Flags.LogLevel
	case config.GetEnv(config.EnvPrefix+"_LOG_LEVEL", "") == "":
		// plain LOG_LEVEL is honored when no prefixed variable is set
		if level := config.GetEnv("LOG_LEVEL", ""); level != "" {
			cfg.Log.Level = strings.ToLower(level)
		}
	}
	if Flags.LogFormat != "" {
		cfg.Log.Format = Flags.LogFormat
	}

	c, err := container.NewContainerWithOutput(cfg, LogOutput)
	if err != nil {
		return err
	}
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// GetContainer returns the application container, building one from the
// default configuration when no command setup ran.
func GetContainer() *container.Container {
	if AppContainer == nil {
		c, err := container.NewContainerWithOutput(config.Default(), LogOutput)
		if err != nil {
			// the default configuration is always valid
			panic(err)
		}
		AppContainer = c
	}
	return AppContainer
}

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case parsererror.IsMissingInputFile(err):
		return ExitMissingInput
	default:
		return ExitUnexpected
	}
}

// Report writes the final status line for err to w. A missing input file is
// worded distinctly from every other failure.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	if parsererror.IsMissingInputFile(err) {
		fmt.Fprintf(w, "ERROR: %v. Ensure the input file exists or pass --input.\n", err)
		return
	}
	fmt.Fprintf(w, "ERROR: unexpected error: %v\n", err)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := Cmd.Execute()
	Report(os.Stderr, err)
	return ExitCode(err)
}
