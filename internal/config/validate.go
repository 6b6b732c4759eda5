package config

import (
	"errors"
	"fmt"
	"regexp"
)

var thumbnailSizePattern = regexp.MustCompile(`^\d+x\d+$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateConversion() error {
	if c.Conversion.SegmentTime <= 0 {
		return errors.New("conversion.segment_time must be positive")
	}
	if !thumbnailSizePattern.MatchString(c.Conversion.ThumbnailSize) {
		return fmt.Errorf("conversion.thumbnail_size %q must look like WIDTHxHEIGHT", c.Conversion.ThumbnailSize)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
