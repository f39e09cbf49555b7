// Package config holds collector configuration and environment helpers.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds collector configuration. Every knob the scraper and the
// storage writers need is passed in explicitly so the components stay
// testable without ambient globals.
type Config struct {
	BaseURL          string
	MaxPages         int
	Timeout          time.Duration // per-attempt request timeout
	MaxAttempts      int           // total attempts per page, including the first
	RetryWait        time.Duration // fixed wait between attempts
	PageDelay        time.Duration // pacing between page requests
	RespectRobotsTxt bool
	OutputFile       string
	OutputFormat     string // csv, json, or dual
	UserAgent        string
	Verbose          bool
	MetricsAddr      string
}

// DefaultConfig returns conservative defaults for the demo target.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "https://books.toscrape.com",
		MaxPages:         3,
		Timeout:          10 * time.Second,
		MaxAttempts:      3,
		RetryWait:        2 * time.Second,
		PageDelay:        1 * time.Second,
		RespectRobotsTxt: false,
		OutputFile:       "data/books.csv",
		OutputFormat:     "csv",
		UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		Verbose:          false,
		MetricsAddr:      "",
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1")
	}
	if c.RetryWait < 0 {
		return fmt.Errorf("retry wait cannot be negative")
	}
	if c.PageDelay < 0 {
		return fmt.Errorf("page delay cannot be negative")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}

// EnvInt reads an integer environment variable. The boolean reports whether
// the variable was set to a non-empty value.
func EnvInt(name string) (int, bool, error) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return value, true, nil
}

// EnvString reads a string environment variable. The boolean reports whether
// the variable was set to a non-empty value.
func EnvString(name string) (string, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
