// Package config loads dashboard settings from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "passrate.yaml"

// Environment overrides.
const (
	EnvLogLevel = "LOG_LEVEL"
	EnvHost     = "PASSRATE_HOST"
	EnvPort     = "PASSRATE_PORT"
	EnvOpen     = "PASSRATE_OPEN"
)

// Config is the full application configuration.
type Config struct {
	Title    string `yaml:"title"`
	LogLevel string `yaml:"log_level"`
	Server   Server `yaml:"server"`
	Chart    Chart  `yaml:"chart"`
}

// Server configures the web dashboard.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Open bool   `yaml:"open"`
}

// Addr returns host:port for net.Listen.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the address a browser should open.
func (s Server) URL() string {
	host := s.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(s.Port)) + "/"
}

// Chart configures rendered chart images.
type Chart struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Title:    "Test Case Metrics Visualizer",
		LogLevel: "info",
		Server: Server{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Chart: Chart{
			Width:  512,
			Height: 512,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies .env and
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	// Load .env file if it exists
	_ = godotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("config.Load: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config.Load: parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvOpen); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvOpen, v, err)
		}
		c.Server.Open = open
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config.Validate: server.port %d out of range 1..65535", c.Server.Port)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("config.Validate: chart size %dx%d must be positive", c.Chart.Width, c.Chart.Height)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config.Validate: log_level: %w", err)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
