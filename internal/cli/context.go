package cli

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/linkstash/internal/app"
	"github.com/dshills/linkstash/internal/config"
	"github.com/dshills/linkstash/pkg/logger"
)

// CLIContext carries the loaded configuration and lazily opened application
// through a single command invocation.
type CLIContext struct {
	Config     *config.Config
	ConfigPath string
	Logger     *zerolog.Logger

	appOnce sync.Once
	app     *app.App
	appErr  error
}

// NewCLIContext creates a CLI context
func NewCLIContext(cfg *config.Config, configPath string, log *zerolog.Logger) *CLIContext {
	return &CLIContext{
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     log,
	}
}

// App opens storage and builds the application on first use
func (c *CLIContext) App() (*app.App, error) {
	c.appOnce.Do(func() {
		c.app, c.appErr = app.New(c.Config, *c.Log())
	})
	return c.app, c.appErr
}

// Close releases the application if it was opened
func (c *CLIContext) Close() error {
	if c.app != nil {
		return c.app.Close()
	}
	return nil
}

// Log returns the command logger, falling back to the global one
func (c *CLIContext) Log() *zerolog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.Get()
}
