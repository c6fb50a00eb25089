package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/contentjson/internal/content"
)

// Config represents the complete configuration for contentjson
type Config struct {
	Server       ServerConfig                      `yaml:"server"`
	Logging      LoggingConfig                     `yaml:"logging"`
	Content      ContentConfig                     `yaml:"content"`
	Properties   PropertiesConfig                  `yaml:"properties"`
	ContentTypes map[string]content.RenderSettings `yaml:"content_types"`
}

// ServerConfig controls the HTTP adapter
type ServerConfig struct {
	Listen  string `yaml:"listen"`
	BaseURL string `yaml:"base_url"`
}

// LoggingConfig controls the diagnostics logger
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// ContentConfig locates the content documents
type ContentConfig struct {
	Dir string `yaml:"dir"`
}

// PropertiesConfig controls which resource properties are exposed
type PropertiesConfig struct {
	// Allow holds regular expressions matched against property names. An
	// empty list exposes every property.
	Allow []string `yaml:"allow"`

	// compiled regexes (not serialized)
	allow []*regexp.Regexp
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Content: ContentConfig{
			Dir: "./content",
		},
		Properties: PropertiesConfig{
			Allow: []string{},
		},
		ContentTypes: make(map[string]content.RenderSettings),
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.ContentTypes == nil {
		cfg.ContentTypes = make(map[string]content.RenderSettings)
	}

	// Relative content dirs are relative to the config file
	if cfg.Content.Dir != "" && !filepath.IsAbs(cfg.Content.Dir) {
		cfg.Content.Dir = filepath.Join(filepath.Dir(path), cfg.Content.Dir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".contentjson.yml", ".contentjson.yaml", "contentjson.yml", "contentjson.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks enumerated settings and compiles property patterns
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging level '%s': expected one of %s", c.Logging.Level, strings.Join(validLevels, ", "))
	}
	if !contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("invalid logging format '%s': expected one of %s", c.Logging.Format, strings.Join(validFormats, ", "))
	}
	for name, settings := range c.ContentTypes {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("content type name must not be empty")
		}
		if !settings.HasRenderer() && len(settings.Parameters) > 0 {
			return fmt.Errorf("content type '%s' has parameters but no renderer", name)
		}
	}
	return c.compilePatterns()
}

// compilePatterns compiles the property allow patterns
func (c *Config) compilePatterns() error {
	c.Properties.allow = make([]*regexp.Regexp, 0, len(c.Properties.Allow))
	for _, pattern := range c.Properties.Allow {
		regex, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			return fmt.Errorf("invalid property pattern '%s': %w", pattern, err)
		}
		c.Properties.allow = append(c.Properties.allow, regex)
	}
	return nil
}

// PropertyAllowed checks if a property may be exposed in rendered output.
// It only reads patterns compiled by Validate, so a config changed without
// revalidation exposes nothing.
func (c *Config) PropertyAllowed(name string) bool {
	if len(c.Properties.Allow) == 0 {
		return true
	}
	if len(c.Properties.allow) != len(c.Properties.Allow) {
		return false
	}
	for _, regex := range c.Properties.allow {
		if regex.MatchString(name) {
			return true
		}
	}
	return false
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath, cliContentDir string, cliDebug bool) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	// CLI values win over the file when set
	if cliContentDir != "" {
		cfg.Content.Dir = cliContentDir
	}
	if cliDebug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
