package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModePerCountry = "per-country"
	ModeBatch      = "batch"
)

// Config holds all application-level configuration
type Config struct {
	// IMF DataMapper
	BaseURL        string        `yaml:"base_url"`
	Indicator      string        `yaml:"indicator"`
	FetchMode      string        `yaml:"fetch_mode"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 means no timeout
	UserAgent      string        `yaml:"user_agent"`

	// Analysis
	FocusCountry string   `yaml:"focus_country"`
	Countries    []string `yaml:"countries"`

	// Output
	OutputDir   string `yaml:"output_dir"`
	ChartFormat string `yaml:"chart_format"`
	ShowCharts  bool   `yaml:"show_charts"`

	// Exports, empty disables
	CSVFilePath    string `yaml:"csv_file"`
	ExcelFilePath  string `yaml:"xlsx_file"`
	DatabaseDriver string `yaml:"database_driver"`
	DatabaseURL    string `yaml:"database_url"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration
func Default() *Config {
	countries := make([]string, len(DefaultCountries))
	copy(countries, DefaultCountries)
	return &Config{
		BaseURL:        "https://www.imf.org/external/datamapper/api/v1",
		Indicator:      "PCPIPCH",
		FetchMode:      ModePerCountry,
		UserAgent:      "inflation-report/1.0",
		FocusCountry:   "TUR",
		Countries:      countries,
		OutputDir:      "output",
		ChartFormat:    "png",
		DatabaseDriver: "postgres",
		LogLevel:       "info",
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty and config.yaml does not exist), then .env
// and environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// A missing .env is normal
	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file at '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.BaseURL = getEnv("IMF_BASE_URL", c.BaseURL)
	c.Indicator = getEnv("IMF_INDICATOR", c.Indicator)
	c.FetchMode = getEnv("FETCH_MODE", c.FetchMode)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.FocusCountry = getEnv("FOCUS_COUNTRY", c.FocusCountry)
	if v := os.Getenv("COUNTRIES"); v != "" {
		c.Countries = strings.Split(v, ",")
	}
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.ChartFormat = getEnv("CHART_FORMAT", c.ChartFormat)
	c.ShowCharts = getEnvBool("SHOW_CHARTS", c.ShowCharts)
	c.CSVFilePath = getEnv("CSV_FILE_PATH", c.CSVFilePath)
	c.ExcelFilePath = getEnv("XLSX_FILE_PATH", c.ExcelFilePath)
	c.DatabaseDriver = getEnv("DATABASE_DRIVER", c.DatabaseDriver)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate normalizes codes and rejects unusable settings
func (c *Config) Validate() error {
	c.FocusCountry = strings.ToUpper(strings.TrimSpace(c.FocusCountry))
	if len(c.FocusCountry) != 3 {
		return fmt.Errorf("focus country must be an ISO alpha-3 code, got %q", c.FocusCountry)
	}
	if len(c.Countries) == 0 {
		return errors.New("country list is empty")
	}
	for i, code := range c.Countries {
		code = strings.ToUpper(strings.TrimSpace(code))
		if len(code) != 3 {
			return fmt.Errorf("invalid country code %q", c.Countries[i])
		}
		c.Countries[i] = code
	}
	switch c.FetchMode {
	case ModePerCountry, ModeBatch:
	default:
		return fmt.Errorf("unknown fetch mode %q (want %s or %s)", c.FetchMode, ModePerCountry, ModeBatch)
	}
	c.ChartFormat = strings.TrimPrefix(strings.ToLower(c.ChartFormat), ".")
	switch c.ChartFormat {
	case "png", "svg", "pdf", "jpg":
	default:
		return fmt.Errorf("unsupported chart format %q", c.ChartFormat)
	}
	if c.DatabaseURL != "" {
		switch c.DatabaseDriver {
		case "postgres", "sqlite3":
		default:
			return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
		}
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("base URL is empty")
	}
	return nil
}

// ChartPath returns the output file for a chart name
func (c *Config) ChartPath(name string) string {
	return filepath.Join(c.OutputDir, name+"."+c.ChartFormat)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
