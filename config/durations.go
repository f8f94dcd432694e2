package config

import "time"

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// GetShutdownTimeout returns how long in-flight requests get on shutdown.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := parseDuration(c.Server.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// GetImageTimeout returns the timeout for fetching images to resize.
func (c *Config) GetImageTimeout() time.Duration {
	d, err := parseDuration(c.Images.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GetImportTimeout returns the timeout for fetching recipe pages.
func (c *Config) GetImportTimeout() time.Duration {
	d, err := parseDuration(c.Import.Timeout)
	if err != nil || d <= 0 {
		return 25 * time.Second
	}
	return d
}
