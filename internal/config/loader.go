package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// LoadConfig reads the configuration file and applies defaults. Environment
// variables override file values (viper.AutomaticEnv; a .env file is loaded
// by godotenv/autoload in the server package).
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults plus env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.CORS.AllowMethods == nil {
		cfg.CORS.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if cfg.CORS.AllowHeaders == nil {
		cfg.CORS.AllowHeaders = []string{"*"}
	}
	if cfg.Projects.Root == "" {
		cfg.Projects.Root = "./projects"
	}
	if cfg.Preview.LegacyPort == 0 {
		cfg.Preview.LegacyPort = 8080
	}
	if cfg.Preview.BackendPortStart == 0 {
		cfg.Preview.BackendPortStart = 8080
	}
	if cfg.Preview.BackendPortEnd == 0 {
		cfg.Preview.BackendPortEnd = 8100
	}
	if cfg.Preview.BackendExcluded == nil {
		// The platform's own API port must never be handed to a preview.
		cfg.Preview.BackendExcluded = []int{8000}
	}
	if cfg.Preview.FrontendPortStart == 0 {
		cfg.Preview.FrontendPortStart = 5173
	}
	if cfg.Preview.FrontendPortEnd == 0 {
		cfg.Preview.FrontendPortEnd = 5200
	}
	if cfg.Preview.FrontendExcluded == nil {
		cfg.Preview.FrontendExcluded = []int{5174}
	}
	if cfg.Preview.WarmupSeconds == 0 {
		cfg.Preview.WarmupSeconds = 3
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Preview.BackendPortEnd < cfg.Preview.BackendPortStart {
		return fmt.Errorf("invalid backend preview port range: %d-%d",
			cfg.Preview.BackendPortStart, cfg.Preview.BackendPortEnd)
	}
	if cfg.Preview.FrontendPortEnd < cfg.Preview.FrontendPortStart {
		return fmt.Errorf("invalid frontend preview port range: %d-%d",
			cfg.Preview.FrontendPortStart, cfg.Preview.FrontendPortEnd)
	}

	if _, err := os.Stat(cfg.Projects.Root); os.IsNotExist(err) {
		if err := os.MkdirAll(cfg.Projects.Root, 0o755); err != nil {
			return fmt.Errorf("failed to create projects root: %w", err)
		}
	}

	return nil
}
