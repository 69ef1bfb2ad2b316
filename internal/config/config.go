// Package config holds the application configuration and the preset store.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

type Config struct {
	Source           string                `yaml:"source" json:"source"`
	Dest             string                `yaml:"dest" json:"dest"`
	Structure        types.StructurePolicy `yaml:"structure" json:"structure"`
	DateFormat       types.DateFormat      `yaml:"date_format" json:"date_format"`
	Prefix           string                `yaml:"prefix" json:"prefix"`
	PreserveOriginal bool                  `yaml:"preserve_original" json:"preserve_original"`
	VerifyMode       types.VerifyMode      `yaml:"verify_mode" json:"verify_mode"`
	WindowStart      string                `yaml:"window_start" json:"window_start"`
	WindowEnd        string                `yaml:"window_end" json:"window_end"`
	LogFile          string                `yaml:"log_file" json:"log_file"`
	LogJSON          bool                  `yaml:"log_json" json:"log_json"`
}

func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".fotofusion")

	return &Config{
		Structure:        types.StructureByDate,
		DateFormat:       types.DateFormatYMDHier,
		PreserveOriginal: true,
		VerifyMode:       types.VerifySize,
		LogFile:          filepath.Join(dataDir, "fotofusion.log"),
		LogJSON:          false,
	}
}

func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Source == "" {
		return &ValidationError{Field: "source", Message: "source path is required"}
	}
	if c.Dest == "" {
		return &ValidationError{Field: "dest", Message: "destination path is required"}
	}
	if c.Structure == "" {
		c.Structure = types.StructureByDate
	}
	if c.DateFormat == "" {
		c.DateFormat = types.DateFormatYMDHier
	}
	if c.VerifyMode == "" {
		c.VerifyMode = types.VerifySize
	}
	if c.LogFile == "" {
		homeDir, _ := os.UserHomeDir()
		c.LogFile = filepath.Join(homeDir, ".fotofusion", "fotofusion.log")
	}

	if _, err := c.Window(); err != nil {
		return err
	}

	return nil
}

// Window parses the configured capture-time window. A date-only end bound
// extends to the end of that day so both bounds stay inclusive.
func (c *Config) Window() (*types.TimeWindow, error) {
	if c.WindowStart == "" && c.WindowEnd == "" {
		return nil, nil
	}

	window := &types.TimeWindow{}

	if c.WindowStart != "" {
		t, _, err := parseWindowBound(c.WindowStart)
		if err != nil {
			return nil, &ValidationError{Field: "window_start", Message: err.Error()}
		}
		window.Start = t
	}

	if c.WindowEnd != "" {
		t, dateOnly, err := parseWindowBound(c.WindowEnd)
		if err != nil {
			return nil, &ValidationError{Field: "window_end", Message: err.Error()}
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		window.End = t
	}

	return window, nil
}

func parseWindowBound(value string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, true, nil
	}
	if t, err = time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC3339)", value)
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
