package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// Supported curriculum sources
const (
	SourceCSV      = "csv"
	SourceXLSX     = "xlsx"
	SourcePostgres = "postgres"
)

// Config holds the whole application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DataConfig describes where the curriculum is read from.
type DataConfig struct {
	Source    string `mapstructure:"source"` // csv | xlsx | postgres
	Path      string `mapstructure:"path"`
	Sheet     string `mapstructure:"sheet"`     // xlsx only; first sheet when empty
	Delimiter string `mapstructure:"delimiter"` // csv only
	Encoding  string `mapstructure:"encoding"`  // csv only: latin1 | utf-8
	Timezone  string `mapstructure:"timezone"`
}

// Location resolves the configured time zone for end dates.
func (c *DataConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Comma returns the CSV field separator.
func (c *DataConfig) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return ';'
	}
	return r
}

// DatabaseConfig PostgreSQL settings, only used by the postgres source and the importer
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// DashboardConfig presentation settings
type DashboardConfig struct {
	DefaultSemester       int           `mapstructure:"default_semester"`
	AcceleratedCourseLoad int           `mapstructure:"accelerated_course_load"`
	CacheTTL              time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration from file and environment.
// Precedence: environment > config file > defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8050)
	v.SetDefault("server.cors.allow_origins", []string{})

	v.SetDefault("data.source", SourceCSV)
	v.SetDefault("data.path", "Studienablaufplan.csv")
	v.SetDefault("data.sheet", "")
	v.SetDefault("data.delimiter", ";")
	v.SetDefault("data.encoding", "latin1")
	v.SetDefault("data.timezone", "Local")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "studienfortschritt")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Europe/Berlin")
	v.SetDefault("db.max_open_conns", 5)
	v.SetDefault("db.max_idle_conns", 2)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("dashboard.default_semester", 1)
	v.SetDefault("dashboard.accelerated_course_load", 8)
	v.SetDefault("dashboard.cache_ttl", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("STUDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the application cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be within 1-65535")
	}

	switch c.Data.Source {
	case SourceCSV, SourceXLSX:
		if c.Data.Path == "" {
			return fmt.Errorf("invalid config: data.path is required for source %q", c.Data.Source)
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("invalid config: unknown data.source %q", c.Data.Source)
	}

	if c.Data.Source == SourceCSV {
		if utf8.RuneCountInString(c.Data.Delimiter) != 1 {
			return fmt.Errorf("invalid config: data.delimiter must be a single character")
		}
		switch strings.ToLower(c.Data.Encoding) {
		case "latin1", "latin-1", "iso-8859-1", "utf-8", "utf8":
		default:
			return fmt.Errorf("invalid config: unsupported data.encoding %q", c.Data.Encoding)
		}
	}

	if _, err := c.Data.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Dashboard.AcceleratedCourseLoad <= 0 {
		return fmt.Errorf("invalid config: dashboard.accelerated_course_load must be positive")
	}
	if c.Dashboard.CacheTTL < 0 {
		return fmt.Errorf("invalid config: dashboard.cache_ttl must not be negative")
	}

	return nil
}
