package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides. Nested keys are separated by a double
// underscore: NANP_SERVER__READ_TIMEOUT=10s.
const EnvPrefix = "NANP_"

// DefaultPath is read when Load is called without a path. A missing file there is not an error.
const DefaultPath = "configs/config.yaml"

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment" validate:"oneof=development test staging production"`
	LogLevel    string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	Security   SecurityConfig   `koanf:"security"`
	CrossCheck CrossCheckConfig `koanf:"crosscheck"`
	Ingest     IngestConfig     `koanf:"ingest"`
}

type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// Enabled reports whether a database was configured.
func (c DatabaseConfig) Enabled() bool { return c.URL != "" }

type RedisConfig struct {
	URL          string        `koanf:"url"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db" validate:"min=0,max=15"`
	PoolSize     int           `koanf:"pool_size" validate:"min=1"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// Enabled reports whether a Redis server was configured.
func (c RedisConfig) Enabled() bool { return c.URL != "" }

type TelemetryConfig struct {
	Enabled       bool          `koanf:"enabled"`
	OTLPEndpoint  string        `koanf:"otlp_endpoint"`
	SamplingRate  float64       `koanf:"sampling_rate" validate:"min=0,max=1"`
	ExportTimeout time.Duration `koanf:"export_timeout"`
	BatchTimeout  time.Duration `koanf:"batch_timeout"`
}

type SecurityConfig struct {
	JWTSecret   string          `koanf:"jwt_secret"`
	TokenIssuer string          `koanf:"token_issuer"`
	TokenExpiry time.Duration   `koanf:"token_expiry"`
	RateLimit   RateLimitConfig `koanf:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `koanf:"requests_per_second" validate:"min=0"`
	BurstSize         int `koanf:"burst_size" validate:"min=0"`
}

// CrossCheckConfig drives the comparison of the static area code tables
// against published reports.
type CrossCheckConfig struct {
	Enabled           bool          `koanf:"enabled"`
	Interval          time.Duration `koanf:"interval"`
	HTTPTimeout       time.Duration `koanf:"http_timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	UserAgent         string        `koanf:"user_agent"`
	FailOnDiscrepancy bool          `koanf:"fail_on_discrepancy"`

	NANPAGeographicURL    string `koanf:"nanpa_geographic_url" validate:"omitempty,url"`
	NANPANonGeographicURL string `koanf:"nanpa_nongeographic_url" validate:"omitempty,url"`
	NANPACountryURL       string `koanf:"nanpa_country_url" validate:"omitempty,url"`
	CNAURL                string `koanf:"cna_url" validate:"omitempty,url"`

	CSVReportPath  string `koanf:"csv_report_path"`
	CSVComplete    bool   `koanf:"csv_complete"`
	LibPhoneNumber bool   `koanf:"libphonenumber"`
}

type IngestConfig struct {
	Persist       bool   `koanf:"persist"`
	MaxInputBytes int    `koanf:"max_input_bytes" validate:"gt=0"`
	DefaultSource string `koanf:"default_source"`
}

// Defaults returns the configuration used before any file or environment overrides.
func Defaults() *Config {
	return &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			DB:           0,
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Enabled:       false,
			OTLPEndpoint:  "localhost:4317",
			SamplingRate:  1.0,
			ExportTimeout: 30 * time.Second,
			BatchTimeout:  5 * time.Second,
		},
		Security: SecurityConfig{
			TokenIssuer: "phonenumbers-na",
			TokenExpiry: 24 * time.Hour,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 100,
				BurstSize:         200,
			},
		},
		CrossCheck: CrossCheckConfig{
			Enabled:               false,
			Interval:              24 * time.Hour,
			HTTPTimeout:           30 * time.Second,
			RequestsPerSecond:     1,
			CacheTTL:              12 * time.Hour,
			UserAgent:             "phonenumbers-na-crosscheck/1.0",
			NANPAGeographicURL:    "https://nationalnanpa.com/enas/geoAreaCodeNumberReport.do",
			NANPANonGeographicURL: "https://www.nationalnanpa.com/enas/nonGeoNpaServiceReport.do",
			NANPACountryURL:       "https://nationalnanpa.com/area_code_maps/area_code_maps_Country_Territory.html",
			CNAURL:                "https://cnac.ca/co_codes/co_code_lookup.htm",
			LibPhoneNumber:        false,
		},
		Ingest: IngestConfig{
			Persist:       false,
			MaxInputBytes: 1 << 20,
			DefaultSource: "api",
		},
	}
}

// Load merges defaults, the YAML file at path and NANP_ environment variables,
// then validates the result. An empty path reads DefaultPath if it exists.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.CrossCheck.Enabled && c.CrossCheck.Interval <= 0 {
		return fmt.Errorf("invalid config: crosscheck.interval must be positive when crosscheck is enabled")
	}
	if c.Environment == "production" && c.Security.JWTSecret == "" {
		return fmt.Errorf("invalid config: security.jwt_secret is required in production")
	}
	if c.CrossCheck.CSVReportPath != "" {
		if _, err := os.Stat(c.CrossCheck.CSVReportPath); err != nil {
			return fmt.Errorf("invalid config: crosscheck.csv_report_path: %w", err)
		}
	}
	return nil
}
