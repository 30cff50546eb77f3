// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Data    DataConfig    `mapstructure:"data"`
	Logging LoggingConfig `mapstructure:"logging"`
	Kometa  KometaConfig  `mapstructure:"kometa"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DataConfig holds on-disk layout configuration: where profiles, generated
// YAML files and the run-history database live.
type DataConfig struct {
	ProfilesDir string `mapstructure:"profiles_dir"`
	OutputDir   string `mapstructure:"output_dir"`
	HistoryDB   string `mapstructure:"history_db"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// KometaConfig holds the managed Kometa installation configuration.
type KometaConfig struct {
	InstallDir string `mapstructure:"install_dir"`
	RepoURL    string `mapstructure:"repo_url"`
	Branch     string `mapstructure:"branch"`
	Python     string `mapstructure:"python"`
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.kometawizard")
	}

	v.SetEnvPrefix("KOMETAWIZARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults + env vars
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8090)

	v.SetDefault("data.profiles_dir", "./data/profiles")
	v.SetDefault("data.output_dir", "./data/output")
	v.SetDefault("data.history_db", "./data/kometawizard.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "./data/logs")

	v.SetDefault("kometa.install_dir", "./data/kometa")
	v.SetDefault("kometa.repo_url", "https://github.com/Kometa-Team/Kometa.git")
	v.SetDefault("kometa.branch", "master")
	v.SetDefault("kometa.python", "python3")
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ResolvePort returns the configured port if it is free, otherwise the next
// free port the OS hands out. A single-user desktop tool should start even
// when another process squats on its default port.
func (c *ServerConfig) ResolvePort() (int, error) {
	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
	if ln, err := net.Listen("tcp", addr); err == nil {
		ln.Close()
		return c.Port, nil
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:0", c.Host))
	if err != nil {
		return 0, fmt.Errorf("no available port: %w", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}
