// Package config loads service settings. Values come from built-in defaults,
// then an optional YAML file named by CONFIG_FILE, then the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Config struct {
	Port              string
	DatabaseDriver    string
	DatabaseURL       string
	MongoURI          string
	MongoDatabase     string
	AccessTokenSecret string
	SessionTTL        time.Duration
	ResetTokenTTL     time.Duration
	AppBaseURL        string
	CORSOrigins       []string
	ResetRatePerMin   int
	ShutdownTimeout   time.Duration
	Email             EmailConfig
	Notify            NotifyConfig
	S3                S3Config
}

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether an SMTP relay is configured.
func (e EmailConfig) Enabled() bool { return e.Host != "" }

type NotifyConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

func (s S3Config) Enabled() bool { return s.Bucket != "" }

// fileConfig mirrors the YAML layout. Durations are strings like "2h".
type fileConfig struct {
	Port              string   `yaml:"port"`
	DatabaseDriver    string   `yaml:"database_driver"`
	DatabaseURL       string   `yaml:"database_url"`
	MongoURI          string   `yaml:"mongodb_uri"`
	MongoDatabase     string   `yaml:"mongodb_database"`
	AccessTokenSecret string   `yaml:"access_token_secret"`
	SessionTTL        string   `yaml:"session_ttl"`
	ResetTokenTTL     string   `yaml:"reset_token_ttl"`
	AppBaseURL        string   `yaml:"app_base_url"`
	CORSOrigins       []string `yaml:"cors_origins"`
	ResetRatePerMin   int      `yaml:"reset_rate_per_minute"`
	ShutdownTimeout   string   `yaml:"shutdown_timeout"`
	Email             struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"email"`
	Notify struct {
		Workers     int    `yaml:"workers"`
		QueueSize   int    `yaml:"queue_size"`
		SendTimeout string `yaml:"send_timeout"`
	} `yaml:"notify"`
	S3 struct {
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"s3"`
}

func Defaults() *Config {
	return &Config{
		Port:            "5050",
		DatabaseDriver:  DriverPostgres,
		MongoDatabase:   "elearning",
		SessionTTL:      2 * time.Hour,
		ResetTokenTTL:   30 * time.Minute,
		AppBaseURL:      "http://localhost:5173",
		CORSOrigins:     []string{"http://localhost:5173"},
		ResetRatePerMin: 5,
		ShutdownTimeout: 10 * time.Second,
		Email: EmailConfig{
			Port: 587,
		},
		Notify: NotifyConfig{
			Workers:     2,
			QueueSize:   100,
			SendTimeout: 15 * time.Second,
		},
		S3: S3Config{
			Region: "us-east-1",
		},
	}
}

// Load resolves the configuration and validates it.
func Load() (*Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Port, fc.Port)
	setString(&c.DatabaseDriver, fc.DatabaseDriver)
	setString(&c.DatabaseURL, fc.DatabaseURL)
	setString(&c.MongoURI, fc.MongoURI)
	setString(&c.MongoDatabase, fc.MongoDatabase)
	setString(&c.AccessTokenSecret, fc.AccessTokenSecret)
	setString(&c.AppBaseURL, fc.AppBaseURL)
	if len(fc.CORSOrigins) > 0 {
		c.CORSOrigins = fc.CORSOrigins
	}
	setInt(&c.ResetRatePerMin, fc.ResetRatePerMin)

	setString(&c.Email.Host, fc.Email.Host)
	setInt(&c.Email.Port, fc.Email.Port)
	setString(&c.Email.Username, fc.Email.Username)
	setString(&c.Email.Password, fc.Email.Password)
	setString(&c.Email.From, fc.Email.From)

	setInt(&c.Notify.Workers, fc.Notify.Workers)
	setInt(&c.Notify.QueueSize, fc.Notify.QueueSize)

	setString(&c.S3.Endpoint, fc.S3.Endpoint)
	setString(&c.S3.Region, fc.S3.Region)
	setString(&c.S3.Bucket, fc.S3.Bucket)
	setString(&c.S3.AccessKey, fc.S3.AccessKey)
	setString(&c.S3.SecretKey, fc.S3.SecretKey)

	for key, d := range map[string]struct {
		dst *time.Duration
		raw string
	}{
		"session_ttl":         {&c.SessionTTL, fc.SessionTTL},
		"reset_token_ttl":     {&c.ResetTokenTTL, fc.ResetTokenTTL},
		"shutdown_timeout":    {&c.ShutdownTimeout, fc.ShutdownTimeout},
		"notify.send_timeout": {&c.Notify.SendTimeout, fc.Notify.SendTimeout},
	} {
		if err := setDuration(d.dst, d.raw); err != nil {
			return fmt.Errorf("config file %s: %s: %w", path, key, err)
		}
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.Port, os.Getenv("PORT"))
	setString(&c.DatabaseDriver, os.Getenv("DATABASE_DRIVER"))
	setString(&c.DatabaseURL, os.Getenv("DATABASE_URL"))
	setString(&c.MongoURI, os.Getenv("MONGODB_URI"))
	setString(&c.MongoDatabase, os.Getenv("MONGODB_DATABASE"))
	setString(&c.AccessTokenSecret, os.Getenv("ACCESS_TOKEN_SECRET"))
	setString(&c.AppBaseURL, os.Getenv("APP_BASE_URL"))
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	setString(&c.Email.Host, os.Getenv("EMAIL_HOST"))
	setString(&c.Email.Username, os.Getenv("EMAIL_USER"))
	setString(&c.Email.Password, os.Getenv("EMAIL_PASS"))
	setString(&c.Email.From, os.Getenv("EMAIL_FROM"))

	setString(&c.S3.Endpoint, os.Getenv("S3_ENDPOINT"))
	setString(&c.S3.Region, os.Getenv("S3_REGION"))
	setString(&c.S3.Bucket, os.Getenv("S3_BUCKET"))
	setString(&c.S3.AccessKey, os.Getenv("S3_ACCESS_KEY"))
	setString(&c.S3.SecretKey, os.Getenv("S3_SECRET_KEY"))

	ints := map[string]*int{
		"EMAIL_PORT":            &c.Email.Port,
		"NOTIFY_WORKERS":        &c.Notify.Workers,
		"NOTIFY_QUEUE_SIZE":     &c.Notify.QueueSize,
		"RESET_RATE_PER_MINUTE": &c.ResetRatePerMin,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
		*dst = n
	}

	durations := map[string]*time.Duration{
		"SESSION_TTL":         &c.SessionTTL,
		"RESET_TOKEN_TTL":     &c.ResetTokenTTL,
		"SHUTDOWN_TIMEOUT":    &c.ShutdownTimeout,
		"NOTIFY_SEND_TIMEOUT": &c.Notify.SendTimeout,
	}
	for key, dst := range durations {
		if err := setDuration(dst, os.Getenv(key)); err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
	}
	return nil
}

// Validate reports every problem with the resolved configuration at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required"))
		}
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver))
	}
	if c.AccessTokenSecret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}
	if c.Notify.Workers < 1 {
		errs = append(errs, errors.New("NOTIFY_WORKERS must be at least 1"))
	}
	if c.Notify.QueueSize < 1 {
		errs = append(errs, errors.New("NOTIFY_QUEUE_SIZE must be at least 1"))
	}
	if c.ResetRatePerMin < 1 {
		errs = append(errs, errors.New("RESET_RATE_PER_MINUTE must be at least 1"))
	}
	if c.Email.Enabled() && c.Email.Username == "" {
		errs = append(errs, errors.New("EMAIL_USER is required when EMAIL_HOST is set"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
