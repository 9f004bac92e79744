package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Dev     DevConfig     `mapstructure:"dev"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	File string `mapstructure:"file"`
}

// DevConfig configures the bundled in-memory dev API server.
type DevConfig struct {
	Addr      string        `mapstructure:"addr"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	AccessTTL time.Duration `mapstructure:"access_ttl"`
	Seed      bool          `mapstructure:"seed"`
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.shopctl/")
	v.AddConfigPath("/etc/shopctl/")

	// Enable environment variable override with SHOPCTL_ prefix
	v.SetEnvPrefix("SHOPCTL")
	v.AutomaticEnv()

	v.SetDefault("api.base_url", "http://localhost:8000/dashboard")
	v.SetDefault("api.timeout", 60*time.Second)
	v.SetDefault("session.file", defaultSessionFile())
	v.SetDefault("dev.addr", "localhost:8000")
	v.SetDefault("dev.jwt_secret", "dev-only-secret")
	v.SetDefault("dev.access_ttl", 15*time.Minute)
	v.SetDefault("dev.seed", true)

	// Read config file; running without one is fine, defaults apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shopctl-session.json"
	}
	return filepath.Join(home, ".shopctl", "session.json")
}
