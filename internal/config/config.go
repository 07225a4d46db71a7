package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. EMPLOYEES_UPSTREAM_BASE_URL.
const EnvPrefix = "EMPLOYEES"

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Env        string           `yaml:"env"`        // Env is the current environment: local, development, production.
	HTTP       HTTPConfig       `yaml:"http"`       // HTTP holds the REST listener configuration.
	Monitoring MonitoringConfig `yaml:"monitoring"` // Monitoring holds the health/metrics listener configuration.
	Upstream   UpstreamConfig   `yaml:"upstream"`   // Upstream holds the employee API client configuration.
}

// HTTPConfig struct holds the configuration of the REST API listener.
type HTTPConfig struct {
	Port            int           `yaml:"port"`             // Port is the listening port of the REST API.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // ShutdownTimeout bounds graceful shutdown.
}

// MonitoringConfig struct holds the configuration of the health and metrics listener.
type MonitoringConfig struct {
	Port int `yaml:"port"`
}

// UpstreamConfig struct holds the configuration details for the upstream employee API.
type UpstreamConfig struct {
	BaseURL    string        `yaml:"base_url"`    // BaseURL in format `https://example.com/api/`
	APIVersion string        `yaml:"api_version"` // APIVersion is appended to BaseURL, e.g. `v1`
	Entity     string        `yaml:"entity"`      // Entity is the resource name, e.g. `employee`
	Timeout    time.Duration `yaml:"timeout"`     // Timeout of a single upstream attempt.
	MaxRetries int           `yaml:"max_retries"` // MaxRetries is the number of additional attempts on non-200 responses.
	RetryDelay time.Duration `yaml:"retry_delay"` // RetryDelay is the fixed pause between attempts.
	RateLimit  float64       `yaml:"rate_limit"`  // RateLimit caps outbound requests per second, 0 disables it.
}

// MustLoad loads the configuration and panics if it is unusable.
// The YAML file pointed by CONFIG_PATH is optional, environment variables always apply.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads defaults, the optional .env file, the optional YAML file at configPath
// and environment overrides, in this order of increasing priority.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	vpr := viper.New()
	setDefaults(vpr)

	vpr.SetEnvPrefix(EnvPrefix)
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	if configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file does not exist: %s", ErrInvalidConfig, configPath)
		}

		vpr.SetConfigFile(configPath)
		if err := vpr.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return build(vpr)
}

func loadDotEnv() error {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	return nil
}

func setDefaults(vpr *viper.Viper) {
	vpr.SetDefault("env", "local")
	vpr.SetDefault("http.port", "8080")
	vpr.SetDefault("http.shutdown_timeout", "10s")
	vpr.SetDefault("monitoring.port", "8081")
	vpr.SetDefault("upstream.base_url", "https://dummy.restapiexample.com/api/")
	vpr.SetDefault("upstream.api_version", "v1")
	vpr.SetDefault("upstream.entity", "employee")
	vpr.SetDefault("upstream.timeout", "30s")
	vpr.SetDefault("upstream.max_retries", "10")
	vpr.SetDefault("upstream.retry_delay", "0s")
	vpr.SetDefault("upstream.rate_limit", "0")
}

func build(vpr *viper.Viper) (*Config, error) {
	var errs []error

	httpPort := intOf(vpr, "http.port", &errs)
	shutdown := durationOf(vpr, "http.shutdown_timeout", &errs)
	monitoringPort := intOf(vpr, "monitoring.port", &errs)
	timeout := durationOf(vpr, "upstream.timeout", &errs)
	retries := intOf(vpr, "upstream.max_retries", &errs)
	delay := durationOf(vpr, "upstream.retry_delay", &errs)
	rateLimit := floatOf(vpr, "upstream.rate_limit", &errs)

	cfg := &Config{
		Env: vpr.GetString("env"),
		HTTP: HTTPConfig{
			Port:            httpPort,
			ShutdownTimeout: shutdown,
		},
		Monitoring: MonitoringConfig{
			Port: monitoringPort,
		},
		Upstream: UpstreamConfig{
			BaseURL:    strings.TrimSpace(vpr.GetString("upstream.base_url")),
			APIVersion: strings.Trim(vpr.GetString("upstream.api_version"), "/ "),
			Entity:     strings.Trim(vpr.GetString("upstream.entity"), "/ "),
			Timeout:    timeout,
			MaxRetries: retries,
			RetryDelay: delay,
			RateLimit:  rateLimit,
		},
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error

	maxPort := 65535
	for name, port := range map[string]int{"http.port": c.HTTP.Port, "monitoring.port": c.Monitoring.Port} {
		if port <= 0 || port > maxPort {
			errs = append(errs, fmt.Errorf("%s out of range: %d", name, port))
		}
	}
	if c.HTTP.Port == c.Monitoring.Port {
		errs = append(errs, fmt.Errorf("http.port and monitoring.port must differ: %d", c.HTTP.Port))
	}

	baseURL, err := url.Parse(c.Upstream.BaseURL)
	switch {
	case c.Upstream.BaseURL == "":
		errs = append(errs, errors.New("upstream.base_url is empty"))
	case err != nil:
		errs = append(errs, fmt.Errorf("upstream.base_url is invalid: %w", err))
	case baseURL.Scheme != "http" && baseURL.Scheme != "https":
		errs = append(errs, fmt.Errorf("upstream.base_url must be http or https: %s", c.Upstream.BaseURL))
	}

	if c.Upstream.Entity == "" {
		errs = append(errs, errors.New("upstream.entity is empty"))
	}
	if c.Upstream.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("upstream.max_retries must not be negative: %d", c.Upstream.MaxRetries))
	}
	if c.Upstream.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("upstream.retry_delay must not be negative: %s", c.Upstream.RetryDelay))
	}
	if c.Upstream.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("upstream.rate_limit must not be negative: %v", c.Upstream.RateLimit))
	}

	return errs
}

func intOf(vpr *viper.Viper, key string, errs *[]error) int {
	raw := strings.TrimSpace(vpr.GetString(key))

	value, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("failed to parse %s from configuration: %q", key, raw))
	}

	return value
}

func floatOf(vpr *viper.Viper, key string, errs *[]error) float64 {
	raw := strings.TrimSpace(vpr.GetString(key))

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("failed to parse %s from configuration: %q", key, raw))
	}

	return value
}

// durationOf accepts Go duration strings and bare integers, which are read as seconds.
func durationOf(vpr *viper.Viper, key string, errs *[]error) time.Duration {
	raw := strings.TrimSpace(vpr.GetString(key))

	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}

	*errs = append(*errs, fmt.Errorf("failed to parse %s from configuration: %q", key, raw))

	return 0
}
