package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the gateway and the display client need at startup.
// It is built once in main and passed into constructors.
type Config struct {
	Server         ServerConfig
	OpenWeatherMap OpenWeatherMapConfig
	CORS           CORSConfig
	Log            LogConfig
	Diagnostics    DiagnosticsConfig
	Display        DisplayConfig
}

type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

type OpenWeatherMapConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

type CORSConfig struct {
	FrontendURL string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // console, json
}

// DiagnosticsConfig controls the optional Redis stream sink for upstream
// failure events. An empty RedisAddr disables it.
type DiagnosticsConfig struct {
	RedisAddr string
	Stream    string
	MaxLen    int64
}

type DisplayConfig struct {
	Port       string
	GatewayURL string
}

// Addr returns the gateway listen address.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// DisplayAddr returns the display client listen address.
func (c *Config) DisplayAddr() string {
	return ":" + c.Display.Port
}

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

// Load reads .env, config.yaml from the project root and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	root, err := getProjectRoot()
	if err != nil {
		root = "."
	}
	return LoadFrom(root)
}

// LoadFrom reads config.yaml (and config_test.yaml under go test) from dir.
// Missing files are not an error; defaults apply.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	v.SetConfigType("yaml")
	v.SetConfigName("config")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if isTestRun() {
		v.SetConfigName("config_test")
		if err := v.MergeInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("merge test config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:              v.GetString("server.port"),
			ReadHeaderTimeout: v.GetDuration("server.read_header_timeout"),
			ReadTimeout:       v.GetDuration("server.read_timeout"),
			WriteTimeout:      v.GetDuration("server.write_timeout"),
			IdleTimeout:       v.GetDuration("server.idle_timeout"),
		},
		OpenWeatherMap: OpenWeatherMapConfig{
			APIURL:  v.GetString("openweathermap.api_url"),
			APIKey:  v.GetString("openweathermap.api_key"),
			Timeout: v.GetDuration("openweathermap.timeout"),
		},
		CORS: CORSConfig{
			FrontendURL: v.GetString("cors.frontend_url"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Diagnostics: DiagnosticsConfig{
			RedisAddr: v.GetString("diagnostics.redis_addr"),
			Stream:    v.GetString("diagnostics.stream"),
			MaxLen:    v.GetInt64("diagnostics.max_len"),
		},
		Display: DisplayConfig{
			Port:       v.GetString("display.port"),
			GatewayURL: v.GetString("display.gateway_url"),
		},
	}

	if cfg.OpenWeatherMap.Timeout <= 0 {
		return nil, fmt.Errorf("openweathermap.timeout must be positive, got %s", cfg.OpenWeatherMap.Timeout)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_header_timeout", "15s")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "30s")
	v.SetDefault("openweathermap.api_url", "https://api.openweathermap.org/data/2.5/weather")
	v.SetDefault("openweathermap.timeout", "10s")
	v.SetDefault("cors.frontend_url", "http://localhost:3000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("diagnostics.stream", "weather:diagnostics")
	v.SetDefault("diagnostics.max_len", 1000)
	v.SetDefault("display.port", "3000")
	v.SetDefault("display.gateway_url", "http://localhost:8080")
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("openweathermap.api_key", "OPENWEATHERMAP_API_KEY")
	_ = v.BindEnv("cors.frontend_url", "FRONTEND_URL")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("diagnostics.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("display.gateway_url", "GATEWAY_URL")
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
