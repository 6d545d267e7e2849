package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
	Radios   []RadioConfig  `mapstructure:"radios"`
}

type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// Auth Configuration
type AuthConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	JWTSecretEnv        string        `mapstructure:"jwt_secret_env"`
	AccessTokenTTL      time.Duration `mapstructure:"access_token_ttl"`
	BootstrapSecretHash string        `mapstructure:"bootstrap_secret_hash"`
}

type ProfilesConfig struct {
	SearchPaths []string `mapstructure:"search_paths"`
}

// RadioConfig declares one session the server brings up at startup. Settings
// holds the initial device configuration as plain key/value pairs ("freq",
// "gain", "rate", "bandwidth", "antenna", "chan").
type RadioConfig struct {
	Name      string         `mapstructure:"name"`
	Filter    string         `mapstructure:"filter"`
	Direction string         `mapstructure:"direction"`
	Channels  []int          `mapstructure:"channels"`
	Settings  map[string]any `mapstructure:"settings"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("server.shutdown_timeout", "30s")

	viper.SetDefault("database.enabled", true)
	viper.SetDefault("database.max_connections", 10)

	// Auth Defaults
	viper.SetDefault("auth.enabled", true)
	viper.SetDefault("auth.jwt_secret_env", "JWT_SECRET")
	viper.SetDefault("auth.access_token_ttl", "60m")

	viper.SetDefault("profiles.search_paths", []string{"./profiles"})

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ORC")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

func (a *AuthConfig) GetJWTSecret() string {
	envVar := a.JWTSecretEnv
	if envVar == "" {
		envVar = "JWT_SECRET"
	}

	secret := os.Getenv(envVar)
	if secret == "" {
		// Development fallback, flagged by IsProductionReady.
		return "dev-secret-change-in-production-min-32-chars"
	}
	return secret
}

func (a *AuthConfig) IsProductionReady() bool {
	secret := a.GetJWTSecret()
	return secret != "dev-secret-change-in-production-min-32-chars" && len(secret) >= 32
}
