// Package config loads runtime settings from configs/config.yml and
// TASKS_-prefixed environment variables. The token signing secret is only
// ever supplied by the environment (TASKS_AUTH_SECRET) or a deployment
// secret mounted as a config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const envPrefix = "TASKS"

type Config struct {
	Port     string       `mapstructure:"port"`
	LogLevel string       `mapstructure:"log_level"`
	DB       DBConfig     `mapstructure:"db"`
	Auth     AuthConfig   `mapstructure:"auth"`
	Tasks    TasksConfig  `mapstructure:"tasks"`
	Server   ServerConfig `mapstructure:"server"`
}

type DBConfig struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

type AuthConfig struct {
	Secret     string        `mapstructure:"secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

type TasksConfig struct {
	DefaultStatus string `mapstructure:"default_status"`
	DefaultLimit  int    `mapstructure:"default_limit"`
	MaxLimit      int    `mapstructure:"max_limit"`
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")

	v.SetDefault("db.path", "tasks.db")
	v.SetDefault("db.busy_timeout", 5*time.Second)

	// Registered so AutomaticEnv can fill it during Unmarshal.
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 30*time.Minute)
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)

	v.SetDefault("tasks.default_status", "pending")
	v.SetDefault("tasks.default_limit", 100)
	v.SetDefault("tasks.max_limit", 1000)

	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})
}

// Load reads config.yml from the first of paths that has one (a missing
// file is fine), overlays the environment and validates the result.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
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

// Validate rejects settings the service cannot safely start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.Secret) == "" {
		errs = append(errs, fmt.Errorf("auth.secret is required (set %s_AUTH_SECRET)", envPrefix))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Tasks.MaxLimit <= 0 {
		errs = append(errs, errors.New("tasks.max_limit must be positive"))
	}
	if c.Tasks.DefaultLimit <= 0 || c.Tasks.DefaultLimit > c.Tasks.MaxLimit {
		errs = append(errs, errors.New("tasks.default_limit must be in (0, tasks.max_limit]"))
	}
	if strings.TrimSpace(c.Tasks.DefaultStatus) == "" {
		errs = append(errs, errors.New("tasks.default_status must not be empty"))
	}
	return errors.Join(errs...)
}
