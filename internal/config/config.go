package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMembersRange     = "Medlemmer!A2:F51"
	DefaultGroupsRange      = "Grupper!A2:D10"
	DefaultServerPort       = 3000
	DefaultMetricsNamespace = "working_groups"
)

// Store drivers
const (
	StoreNone     = "none"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreSheets   = "sheets"
)

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port int `yaml:"port" validate:"min=1,max=65535"`
}

// StoreConfig selects where allocation history is recorded
type StoreConfig struct {
	Driver  string `yaml:"driver" validate:"oneof=none sqlite postgres sheets"`
	DSN     string `yaml:"dsn,omitempty"`
	SheetID string `yaml:"sheetID,omitempty"`
}

// MetricsConfig configures the prometheus collector
type MetricsConfig struct {
	Namespace string `yaml:"namespace" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	SpreadsheetID   string        `yaml:"spreadsheetID" validate:"required"`
	MembersRange    string        `yaml:"membersRange" validate:"required"`
	GroupsRange     string        `yaml:"groupsRange" validate:"required"`
	GroupCount      int           `yaml:"groupCount" validate:"required,min=1"`
	Weeks           []int         `yaml:"weeks,omitempty" validate:"required_without=WeekRule,unique,dive,min=1,max=53"`
	WeekRule        string        `yaml:"weekRule,omitempty"`
	ExcludeWeeks    []int         `yaml:"excludeWeeks,omitempty" validate:"dive,min=1,max=53"`
	CredentialsFile string        `yaml:"credentialsFile,omitempty"`
	Server          ServerConfig  `yaml:"server"`
	Store           StoreConfig   `yaml:"store"`
	Metrics         MetricsConfig `yaml:"metrics"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads the configuration with an environment suffix
// For example, env="test" will look for "working_groups_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills optional fields left empty in the file
func applyDefaults(cfg *Config) {
	if cfg.MembersRange == "" {
		cfg.MembersRange = DefaultMembersRange
	}
	if cfg.GroupsRange == "" {
		cfg.GroupsRange = DefaultGroupsRange
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreNone
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.WeekRule != "" {
		rule, err := rrule.StrToRRule(cfg.WeekRule)
		if err != nil {
			return fmt.Errorf("invalid rrule in weekRule: %w", err)
		}
		if rule.OrigOptions.Count == 0 && rule.OrigOptions.Until.IsZero() {
			return fmt.Errorf("invalid rrule in weekRule: COUNT or UNTIL is required")
		}
	}

	switch cfg.Store.Driver {
	case StoreSQLite, StorePostgres:
		if cfg.Store.DSN == "" {
			return fmt.Errorf("config validation failed: store.dsn is required for driver %s", cfg.Store.Driver)
		}
	case StoreSheets:
		if cfg.Store.SheetID == "" {
			return fmt.Errorf("config validation failed: store.sheetID is required for driver %s", cfg.Store.Driver)
		}
	}

	return nil
}

// ResolveWeeks returns the calendar weeks to share between groups.
// An explicit weeks list wins; otherwise the ISO week of each weekRule occurrence is used,
// de-duplicated in order. excludeWeeks are removed in both cases.
func (c *Config) ResolveWeeks() ([]int, error) {
	var weeks []int

	if len(c.Weeks) > 0 {
		weeks = slices.Clone(c.Weeks)
	} else if c.WeekRule != "" {
		rule, err := rrule.StrToRRule(c.WeekRule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in weekRule: %w", err)
		}

		for _, occurrence := range rule.All() {
			_, week := occurrence.ISOWeek()
			if !slices.Contains(weeks, week) {
				weeks = append(weeks, week)
			}
		}
	}

	weeks = slices.DeleteFunc(weeks, func(week int) bool {
		return slices.Contains(c.ExcludeWeeks, week)
	})

	if weeks == nil {
		weeks = []int{}
	}

	return weeks, nil
}

// findConfigFile searches for the config file in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "working_groups_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "working_groups_config.yaml"
	if env != "" {
		configFileName = "working_groups_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
