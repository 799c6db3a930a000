package config

import (
	"fmt"
	"time"
)

// Config is the application configuration, loaded from config.yaml plus
// environment overrides.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Projects ProjectsConfig `mapstructure:"projects"`
	Preview  PreviewConfig  `mapstructure:"preview"`
}

type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ProductionMode bool   `mapstructure:"production_mode"`
}

func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
}

func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}

// ProjectsConfig controls where generated project trees live and what
// happens to them when a project row is hard-deleted.
type ProjectsConfig struct {
	Root            string `mapstructure:"root"`
	CleanupOnDelete bool   `mapstructure:"cleanup_on_delete"`
}

// PreviewConfig holds the dev-server port policy. The main application's own
// ports are always excluded from the candidate ranges so a preview can never
// collide with the platform itself.
type PreviewConfig struct {
	LegacyPort        int   `mapstructure:"legacy_port"`
	BackendPortStart  int   `mapstructure:"backend_port_start"`
	BackendPortEnd    int   `mapstructure:"backend_port_end"`
	BackendExcluded   []int `mapstructure:"backend_excluded"`
	FrontendPortStart int   `mapstructure:"frontend_port_start"`
	FrontendPortEnd   int   `mapstructure:"frontend_port_end"`
	FrontendExcluded  []int `mapstructure:"frontend_excluded"`
	WarmupSeconds     int   `mapstructure:"warmup_seconds"`
}

func (p *PreviewConfig) WarmupDelay() time.Duration {
	return time.Duration(p.WarmupSeconds) * time.Second
}
