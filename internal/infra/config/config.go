package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yanqian/uptime-status/pkg/util"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Site     SiteConfig     `yaml:"site"`
	Window   WindowConfig   `yaml:"window"`
	Cache    CacheConfig    `yaml:"cache"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// UpstreamConfig points at the UptimeRobot API.
type UpstreamConfig struct {
	APIURL  string        `yaml:"apiUrl"`
	APIKey  string        `yaml:"apiKey"`
	Timeout time.Duration `yaml:"timeout"`
}

// SiteConfig enables the password gate when both Password and SecretKey are set.
type SiteConfig struct {
	Password     string        `yaml:"password"`
	SecretKey    string        `yaml:"secretKey"`
	TokenTTL     time.Duration `yaml:"tokenTtl"`
	CookieName   string        `yaml:"cookieName"`
	SecureCookie bool          `yaml:"secureCookie"`
}

// WindowConfig controls the historical day buckets requested upstream.
type WindowConfig struct {
	CountDays int    `yaml:"countDays"`
	Timezone  string `yaml:"timezone"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	Key           string        `yaml:"key"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
	Redis         RedisConfig   `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// GateEnabled reports whether requests must carry a valid site token.
func (s SiteConfig) GateEnabled() bool {
	return s.Password != "" && s.SecretKey != ""
}

// Load reads configuration from a YAML file, an optional .env file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(os.Getenv("ENV_FILE")); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// loadDotEnv populates the process environment without overriding variables already set.
func loadDotEnv(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		cfg.HTTP.AllowedOrigins = origins
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("API_URL"); v != "" {
		cfg.Upstream.APIURL = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.Upstream.APIKey = v
	}
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Upstream.Timeout = parsed
		}
	}
	if v := os.Getenv("SITE_PASSWORD"); v != "" {
		cfg.Site.Password = v
	}
	if v := os.Getenv("SITE_SECRET_KEY"); v != "" {
		cfg.Site.SecretKey = v
	}
	if v := os.Getenv("SITE_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Site.TokenTTL = parsed
		}
	}
	if v := os.Getenv("SITE_SECURE_COOKIE"); v != "" {
		cfg.Site.SecureCookie = parseBool(v)
	}
	if v := os.Getenv("COUNT_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Window.CountDays = parsed
		}
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.Window.Timezone = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("CACHE_REDIS_ENABLED"); v != "" {
		cfg.Cache.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Upstream: UpstreamConfig{
			APIURL:  "https://api.uptimerobot.com/v3/",
			Timeout: 10 * time.Second,
		},
		Site: SiteConfig{
			TokenTTL:   7 * 24 * time.Hour,
			CookieName: "authToken",
		},
		Window: WindowConfig{
			CountDays: 60,
			Timezone:  "Local",
		},
		Cache: CacheConfig{
			Key:           "site-data-v3",
			TTL:           60 * time.Second,
			SweepInterval: 5 * time.Minute,
			Redis: RedisConfig{
				Prefix: "uptime-status",
			},
		},
	}
}

// Validate ensures the configuration is safe to use. Missing upstream credentials are
// reported per request rather than here.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if c.Window.CountDays <= 0 {
		return errors.New("window.countDays must be positive")
	}
	if _, err := util.LoadLocation(c.Window.Timezone); err != nil {
		return fmt.Errorf("window.timezone: %w", err)
	}
	if strings.TrimSpace(c.Cache.Key) == "" {
		return errors.New("cache.key cannot be empty")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	if c.Cache.SweepInterval < 0 {
		return errors.New("cache.sweepInterval cannot be negative")
	}
	if c.Cache.Redis.Enabled && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return errors.New("cache.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.Site.GateEnabled() {
		if c.Site.TokenTTL <= 0 {
			return errors.New("site.tokenTtl must be positive")
		}
		if strings.TrimSpace(c.Site.CookieName) == "" {
			return errors.New("site.cookieName cannot be empty")
		}
	}
	return nil
}
