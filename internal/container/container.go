// Package container wires the settle2qif dependencies from a Config.
package container

import (
	"fmt"
	"io"

	"fjacquet/settle2qif/internal/config"
	"fjacquet/settle2qif/internal/history"
	"fjacquet/settle2qif/internal/logging"
	"fjacquet/settle2qif/internal/qif"
)

// Container holds the application dependencies. It is immutable after
// creation.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	converter *qif.Converter
	output    io.Writer
}

// NewContainer validates cfg and builds the logger and converter from it.
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithOutput(cfg, nil)
}

// NewContainerWithOutput is NewContainer sending log output to out.
func NewContainerWithOutput(cfg *config.Config, out io.Writer) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NewLogrusAdapterWithOutput(cfg.Log.Level, cfg.Log.Format, out)

	converter := qif.NewConverter(
		qif.WithDelimiter(cfg.Delimiter()),
		qif.WithAccounts(cfg.Accounts),
		qif.WithLogger(logger),
	)

	return &Container{
		logger:    logger,
		config:    cfg,
		converter: converter,
		output:    out,
	}, nil
}

// WithConfig returns a container built from cfg that logs to the same output
// as c. c itself is unchanged.
func (c *Container) WithConfig(cfg *config.Config) (*Container, error) {
	return NewContainerWithOutput(cfg, c.output)
}

// GetLogger returns the configured logger.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the configuration the container was built from.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetConverter returns the settlement-to-QIF converter.
func (c *Container) GetConverter() *qif.Converter {
	return c.converter
}

// OpenHistory opens the run-history store. It returns (nil, nil) when history
// is disabled; callers must Close a non-nil store.
func (c *Container) OpenHistory() (*history.Store, error) {
	if !c.config.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(c.config.History.Path, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	c.logger.Debug("Opened history database",
		logging.F(logging.FieldDatabase, c.config.History.Path))
	return store, nil
}
