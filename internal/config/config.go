package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tordrt/jsonsql/internal/db"
)

const (
	configFileName = "jsonsql"
	envPrefix      = "JSONSQL"

	keyDatabaseURL    = "database_url"
	keySchemaFile     = "schema_file"
	keyConnectRetries = "connect_retries"
	keyConnectWait    = "connect_wait"
	keyPlaceholder    = "placeholder"
	keyStrictTypes    = "strict_types"

	defaultConnectRetries = 30
	defaultConnectWait    = 2 * time.Second
	defaultPlaceholder    = "?"
)

// Config holds the settings shared by the jsonsql commands.
type Config struct {
	DatabaseURL    string
	SchemaFile     string
	ConnectRetries int
	ConnectWait    time.Duration
	Placeholder    string
	StrictTypes    bool
}

// Load reads configuration from a .env file, an optional YAML config file
// and the environment. With an empty path, jsonsql.yaml is looked up in the
// working directory and a missing file is not an error. Environment
// variables are named JSONSQL_<KEY>; DATABASE_URL is honored as well.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (silently ignore if missing)
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(keyConnectRetries, defaultConnectRetries)
	v.SetDefault(keyConnectWait, defaultConnectWait)
	v.SetDefault(keyPlaceholder, defaultPlaceholder)
	v.SetDefault(keyStrictTypes, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(keyDatabaseURL, envPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:    v.GetString(keyDatabaseURL),
		SchemaFile:     v.GetString(keySchemaFile),
		ConnectRetries: v.GetInt(keyConnectRetries),
		ConnectWait:    v.GetDuration(keyConnectWait),
		Placeholder:    v.GetString(keyPlaceholder),
		StrictTypes:    v.GetBool(keyStrictTypes),
	}
	if cfg.ConnectRetries < 0 {
		return nil, fmt.Errorf("%s must not be negative", keyConnectRetries)
	}
	return cfg, nil
}

// DatabaseURLFor returns the configured URL pointed at another database
func (c *Config) DatabaseURLFor(name string) (string, error) {
	if c.DatabaseURL == "" {
		return "", fmt.Errorf("database URL is required")
	}
	return db.WithDatabase(c.DatabaseURL, name)
}

// ServerURL returns the configured URL without an application database
func (c *Config) ServerURL() (string, error) {
	if c.DatabaseURL == "" {
		return "", fmt.Errorf("database URL is required")
	}
	return db.ServerURL(c.DatabaseURL)
}

// Retry returns the connection retry settings
func (c *Config) Retry(logger *slog.Logger) db.RetryOptions {
	return db.RetryOptions{
		Retries: c.ConnectRetries,
		Wait:    c.ConnectWait,
		Logger:  logger,
	}
}
