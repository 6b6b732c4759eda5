package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mediaconv"
	"mediaconv/internal/config"
	"mediaconv/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	converterOnce sync.Once
	converter     *mediaconv.Converter
	converterErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureConverter() (*mediaconv.Converter, error) {
	c.converterOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.converterErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.converterErr = err
			return
		}
		c.converter, c.converterErr = mediaconv.New(mediaconv.Options{
			FFmpeg:  cfg.Tools.FFmpeg,
			FFprobe: cfg.Tools.FFprobe,
			Logger:  logger,
		})
	})
	return c.converter, c.converterErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
