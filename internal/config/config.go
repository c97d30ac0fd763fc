// filepath: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the application's configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Crawler  CrawlerConfig  `toml:"crawler"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	JWT      JWTConfig      `toml:"jwt"`

	MasterAPIKey string `toml:"-"` // Not loaded from file, set by CLI/env
	JWTSecret    string `toml:"-"` // Runtime secret (from env, flag, or file)

	// Runtime computed values
	MaxBodySizeBytes  int64         `toml:"-"`
	FetchTimeout      time.Duration `toml:"-"`
	PageCacheTTL      time.Duration `toml:"-"`
	ReportMaxAge      time.Duration `toml:"-"`
	RetentionInterval time.Duration `toml:"-"`
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// CrawlerConfig holds crawl behaviour settings.
type CrawlerConfig struct {
	MaxPages      int    `toml:"max_pages"`       // default page budget per crawl
	MaxPagesLimit int    `toml:"max_pages_limit"` // hard cap a client can request
	FetchTimeout  string `toml:"fetch_timeout"`   // e.g. "15s"
	MaxBodySize   string `toml:"max_body_size"`   // e.g. "4MB"
	UserAgent     string `toml:"user_agent"`
	PageCacheTTL  string `toml:"page_cache_ttl"` // e.g. "5m", "0" disables
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	Path              string `toml:"path"`
	ReportMaxAge      string `toml:"report_max_age"`     // e.g. "30d"
	RetentionInterval string `toml:"retention_interval"` // e.g. "1h"
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level        string `toml:"level"`
	AuditEnabled bool   `toml:"audit_enabled"`
}

// JWTConfig holds settings for token generation.
type JWTConfig struct {
	AccessDurationMin int    `toml:"access_duration_min"`
	Secret            string `toml:"secret"` // Persisted secret
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
// Used to persist the auto-generated JWT secret.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file for saving: %w", err)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config to file: %w", err)
	}
	return nil
}

// ParseAndValidate processes configuration strings into runtime values.
// It sets defaults if values are missing and parses human-readable
// sizes and durations.
func (c *Config) ParseAndValidate() error {
	if c.Crawler.MaxPages == 0 {
		c.Crawler.MaxPages = 20
	}
	if c.Crawler.MaxPagesLimit == 0 {
		c.Crawler.MaxPagesLimit = 100
	}
	if c.Crawler.MaxPages > c.Crawler.MaxPagesLimit {
		return fmt.Errorf("max_pages (%d) exceeds max_pages_limit (%d)", c.Crawler.MaxPages, c.Crawler.MaxPagesLimit)
	}
	if c.Crawler.UserAgent == "" {
		c.Crawler.UserAgent = "AIOProBot/0.1 (+https://aiopro.dev)"
	}
	if c.Crawler.FetchTimeout == "" {
		c.Crawler.FetchTimeout = "15s"
	}
	if c.Crawler.MaxBodySize == "" {
		c.Crawler.MaxBodySize = "4MB"
	}
	if c.Crawler.PageCacheTTL == "" {
		c.Crawler.PageCacheTTL = "5m"
	}
	if c.Database.ReportMaxAge == "" {
		c.Database.ReportMaxAge = "30d"
	}
	if c.Database.RetentionInterval == "" {
		c.Database.RetentionInterval = "1h"
	}
	if c.JWT.AccessDurationMin == 0 {
		c.JWT.AccessDurationMin = 15
	}

	var err error
	if c.FetchTimeout, err = parseDuration(c.Crawler.FetchTimeout); err != nil {
		return fmt.Errorf("invalid fetch_timeout: %w", err)
	}
	if c.PageCacheTTL, err = parseDuration(c.Crawler.PageCacheTTL); err != nil {
		return fmt.Errorf("invalid page_cache_ttl: %w", err)
	}
	if c.ReportMaxAge, err = parseDuration(c.Database.ReportMaxAge); err != nil {
		return fmt.Errorf("invalid report_max_age: %w", err)
	}
	if c.RetentionInterval, err = parseDuration(c.Database.RetentionInterval); err != nil {
		return fmt.Errorf("invalid retention_interval: %w", err)
	}
	if c.MaxBodySizeBytes, err = parseSize(c.Crawler.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}

	return nil
}

// parseDuration parses a duration string. It accepts everything
// time.ParseDuration does, plus a "d" suffix for days.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid day duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

// parseSize parses a size string (e.g., "4MB", "512K") into bytes.
func parseSize(sizeStr string) (int64, error) {
	re := regexp.MustCompile(`(?i)^(\d+)\s*(K|M|G|T)?B?$`)
	matches := re.FindStringSubmatch(strings.TrimSpace(sizeStr))

	if len(matches) < 2 {
		return 0, fmt.Errorf("invalid size format: %s", sizeStr)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size number: %s", matches[1])
	}

	unit := ""
	if len(matches) > 2 {
		unit = strings.ToUpper(matches[2])
	}

	switch unit {
	case "T":
		return value * (1 << 40), nil
	case "G":
		return value * (1 << 30), nil
	case "M":
		return value * (1 << 20), nil
	case "K":
		return value * (1 << 10), nil
	default:
		return value, nil
	}
}
