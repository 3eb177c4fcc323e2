package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"seasonal-anomaly/internal/anomaly"
)

const DefaultConfigPath = "config/config.yaml"

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Weather    WeatherConfig    `yaml:"weather"`
	Sentry     SentryConfig     `yaml:"sentry"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"APP_NAME"`
	Version string `yaml:"version" envconfig:"APP_VERSION"`
	Env     string `yaml:"env" envconfig:"APP_ENV"`
}

type ServerConfig struct {
	Port string `yaml:"port" envconfig:"SERVER_PORT"`
	// BodyLimitMB bounds the size of uploaded CSV files.
	BodyLimitMB  int `yaml:"body_limit_mb" envconfig:"SERVER_BODY_LIMIT_MB"`
	ReadTimeout  int `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout int `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout  int `yaml:"idle_timeout" envconfig:"SERVER_IDLE_TIMEOUT"`
}

type LogConfig struct {
	Level string `yaml:"level" envconfig:"LOG_LEVEL"`
}

// ThresholdsConfig holds the two std multipliers. They are separate
// settings: the historical batch and the live reading use different rules.
type ThresholdsConfig struct {
	Historical float64 `yaml:"historical" envconfig:"THRESHOLD_HISTORICAL"`
	Live       float64 `yaml:"live" envconfig:"THRESHOLD_LIVE"`
}

func (t ThresholdsConfig) Anomaly() anomaly.Thresholds {
	return anomaly.Thresholds{Historical: t.Historical, Live: t.Live}
}

type WeatherConfig struct {
	APIs []WeatherAPIConfig `yaml:"apis"`
	// OpenWeatherAPIKey fills the api_key of the openweathermap entry when
	// the YAML file leaves it empty.
	OpenWeatherAPIKey string `yaml:"-" envconfig:"OPENWEATHER_API_KEY"`
}

type WeatherAPIConfig struct {
	Name         string `yaml:"name"`
	APIKey       string `yaml:"api_key,omitempty"`
	BaseURL      string `yaml:"base_url,omitempty"`
	GeocodingURL string `yaml:"geocoding_url,omitempty"`
	// Timeout in seconds.
	Timeout int `yaml:"timeout"`
}

type SentryConfig struct {
	DSN   string `yaml:"dsn" envconfig:"SENTRY_DSN"`
	Debug bool   `yaml:"debug" envconfig:"SENTRY_DEBUG"`
}

func defaultConfig() Config {
	return Config{
		App: AppConfig{
			Name:    "seasonal-anomaly",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:         "8080",
			BodyLimitMB:  50,
			ReadTimeout:  10,
			WriteTimeout: 10,
			IdleTimeout:  120,
		},
		Log: LogConfig{
			Level: "info",
		},
		Thresholds: ThresholdsConfig{
			Historical: anomaly.DefaultHistoricalThreshold,
			Live:       anomaly.DefaultLiveThreshold,
		},
	}
}

// ConfigProvider loads and validates a Config.
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

// FileConfigProvider reads an optional .env file, then an optional YAML
// file, then applies environment overrides.
type FileConfigProvider struct {
	path string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{path: path}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cnf := defaultConfig()
	if err := p.loadFromFile(&cnf); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", &cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	if cnf.Weather.OpenWeatherAPIKey != "" {
		for i := range cnf.Weather.APIs {
			if cnf.Weather.APIs[i].Name == "openweathermap" && cnf.Weather.APIs[i].APIKey == "" {
				cnf.Weather.APIs[i].APIKey = cnf.Weather.OpenWeatherAPIKey
			}
		}
	}

	return &cnf, nil
}

func (p *FileConfigProvider) loadFromFile(cnf *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}

	if err := yaml.Unmarshal(yamlData, cnf); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return nil
}

func (p *FileConfigProvider) Validate(cnf *Config) error {
	var problems []string

	if strings.TrimSpace(cnf.App.Name) == "" {
		problems = append(problems, "app.name is required")
	}
	if strings.TrimSpace(cnf.Server.Port) == "" {
		problems = append(problems, "server.port is required")
	}
	if cnf.Server.BodyLimitMB <= 0 {
		problems = append(problems, "server.body_limit_mb must be positive")
	}
	if cnf.Thresholds.Historical <= 0 {
		problems = append(problems, "thresholds.historical must be positive")
	}
	if cnf.Thresholds.Live <= 0 {
		problems = append(problems, "thresholds.live must be positive")
	}
	for i, api := range cnf.Weather.APIs {
		switch api.Name {
		case "open-meteo", "openweathermap":
		default:
			problems = append(problems, fmt.Sprintf("weather.apis[%d]: unknown provider %q", i, api.Name))
		}
		if api.Timeout < 0 {
			problems = append(problems, fmt.Sprintf("weather.apis[%d]: timeout must not be negative", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

// NewConfig loads the configuration from DefaultConfigPath and the environment.
func NewConfig() (*Config, error) {
	return NewConfigWithProvider(NewFileConfigProvider(DefaultConfigPath))
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf, err := provider.Load()
	if err != nil {
		return nil, err
	}

	if err := provider.Validate(cnf); err != nil {
		return nil, err
	}

	return cnf, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *Config) GetWeatherAPIs() []WeatherAPIConfig {
	return c.Weather.APIs
}

func (c *Config) GetWeatherAPIByName(name string) (*WeatherAPIConfig, bool) {
	for i := range c.Weather.APIs {
		if c.Weather.APIs[i].Name == name {
			return &c.Weather.APIs[i], true
		}
	}
	return nil, false
}
