package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMongo  = "mongo"
	DriverEtcd   = "etcd"
	DriverMemory = "memory"
)

var (
	ErrMissingMongoURI = errors.New("MONGODB_URI is required for the mongo storage driver")
	ErrUnknownDriver   = errors.New("unknown storage driver")
)

// Config holds all configuration for the tracker.
// The mapstructure tags are used by Viper to unmarshal the data.
type Config struct {
	StorageDriver string `mapstructure:"storage_driver"`

	MongoURI      string `mapstructure:"mongodb_uri"`
	MongoDatabase string `mapstructure:"mongodb_database"`

	EtcdEndpoints     []string      `mapstructure:"etcd_endpoints"`
	EtcdTimeout       time.Duration `mapstructure:"etcd_timeout"`
	LeaderElectionTTL time.Duration `mapstructure:"leader_election_ttl"`

	EmailUser     string `mapstructure:"email_user"`
	EmailPassword string `mapstructure:"email_password"`
	EmailTo       string `mapstructure:"email_to"`
	SMTPHost      string `mapstructure:"smtp_host"`
	SMTPPort      int    `mapstructure:"smtp_port"`

	CronSecret           string        `mapstructure:"cron_secret"`
	ReminderSchedule     string        `mapstructure:"reminder_schedule"`
	ReminderDedupe       bool          `mapstructure:"reminder_dedupe"`
	ReminderSendInterval time.Duration `mapstructure:"reminder_send_interval"`

	HttpListenAddr string        `mapstructure:"http_listen_addr"`
	GrpcListenAddr string        `mapstructure:"grpc_listen_addr"`
	HealthInterval time.Duration `mapstructure:"health_interval"`
	Timezone       string        `mapstructure:"timezone"`
	TracingEnabled bool          `mapstructure:"tracing_enabled"`
	LogLevel       string        `mapstructure:"log_level"`
}

var defaults = map[string]any{
	"storage_driver":         DriverMongo,
	"mongodb_uri":            "",
	"mongodb_database":       "",
	"etcd_endpoints":         []string{"localhost:2379"},
	"etcd_timeout":           "5s",
	"leader_election_ttl":    "10s",
	"email_user":             "",
	"email_password":         "",
	"email_to":               "",
	"smtp_host":              "smtp.gmail.com",
	"smtp_port":              587,
	"cron_secret":            "",
	"reminder_schedule":      "",
	"reminder_dedupe":        false,
	"reminder_send_interval": "0s",
	"http_listen_addr":       ":8080",
	"grpc_listen_addr":       ":50051",
	"health_interval":        "15s",
	"timezone":               "",
	"tracing_enabled":        false,
	"log_level":              "info",
}

// DotEnvFiles are read, when present, before the environment is consulted.
// Earlier files win.
var DotEnvFiles = []string{".env.local", ".env"}

// Load loads configuration from .env files, an optional config file and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	if err := loadDotEnv(DotEnvFiles...); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

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
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// A comma separated env value arrives as a single element.
	if len(cfg.EtcdEndpoints) == 1 && strings.Contains(cfg.EtcdEndpoints[0], ",") {
		cfg.EtcdEndpoints = strings.Split(cfg.EtcdEndpoints[0], ",")
	}
	if cfg.EmailTo == "" {
		cfg.EmailTo = cfg.EmailUser
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// Validate enforces the settings the process cannot start without.
func (c *Config) Validate() error {
	if !slices.Contains([]string{DriverMongo, DriverEtcd, DriverMemory}, c.StorageDriver) {
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.StorageDriver)
	}
	if c.StorageDriver == DriverMongo && c.MongoURI == "" {
		return ErrMissingMongoURI
	}
	if c.StorageDriver == DriverEtcd && len(c.EtcdEndpoints) == 0 {
		return errors.New("ETCD_ENDPOINTS is required for the etcd storage driver")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// MailEnabled reports whether SMTP credentials were supplied. Without them
// every email feature is switched off.
func (c *Config) MailEnabled() bool {
	return c.EmailUser != "" && c.EmailPassword != ""
}

// Location resolves TIMEZONE, falling back to the process zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
