// Package config loads application configuration from a YAML file plus
// environment-variable overrides, grounded on the teacher's own
// internal/config/config.go (the defaults-then-YAML-then-env layering,
// ${VAR}/$VAR expansion, and per-field env override style).
package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Auth struct {
		IssuerURL string `yaml:"issuer_url"`
		SharedKey string `yaml:"shared_key"`
	} `yaml:"auth"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	RateLimit struct {
		DefaultPerMinute int `yaml:"default_per_minute" default:"100"`
		ScraperPerMinute int `yaml:"scraper_per_minute" default:"10"`
	} `yaml:"rate_limit"`

	Scraper struct {
		MaxOutboundPerSession int           `yaml:"max_outbound_per_session" default:"50"`
		RequestTimeout        time.Duration `yaml:"request_timeout" default:"30s"`
		MonthlyQuotaLimit     int           `yaml:"monthly_quota_limit" default:"10000"`
	} `yaml:"scraper"`

	Validator struct {
		HTMLMaxConcurrent    int           `yaml:"html_max_concurrent" default:"5"`
		HTMLFetchTimeout     time.Duration `yaml:"html_fetch_timeout" default:"15s"`
		BrowserNavTimeout    time.Duration `yaml:"browser_nav_timeout" default:"20s"`
	} `yaml:"validator"`

	BrowserPool struct {
		MaxInstances int  `yaml:"max_instances" default:"2"`
		Headless     bool `yaml:"headless" default:"true"`
	} `yaml:"browser_pool"`

	Enrichment struct {
		Provider  string `yaml:"provider" default:"keyword"` // "keyword" or "claude"
		APIKey    string `yaml:"api_key"`
		MaxTokens int    `yaml:"max_tokens" default:"1024"`
	} `yaml:"enrichment"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
	} `yaml:"logging"`

	Registry struct {
		MaxRetainedRuns int `yaml:"max_retained_runs" default:"500"`
	} `yaml:"registry"`

	Debug bool `yaml:"debug"`
}

// expandEnvVars expands ${VAR} and $VAR references using the process
// environment, leaving unresolvable references untouched.
func expandEnvVars(s string) string {
	braced := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = braced.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if val := os.Getenv(name); val != "" {
			return val
		}
		return match
	})

	bare := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = bare.ReplaceAllStringFunc(s, func(match string) string {
		name := match[1:]
		if val := os.Getenv(name); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from an optional YAML file, layered under
// hardcoded defaults and over environment-variable overrides.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	applyDefaults(cfg)

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			expanded := expandEnvVars(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.loadFromEnv()

	return cfg, nil
}

func applyDefaults(c *Config) {
	c.Server.Port = 8080
	c.Server.Host = "0.0.0.0"
	c.Server.ReadTimeout = 30 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.IdleTimeout = 60 * time.Second

	c.RateLimit.DefaultPerMinute = 100
	c.RateLimit.ScraperPerMinute = 10

	c.Scraper.MaxOutboundPerSession = 50
	c.Scraper.RequestTimeout = 30 * time.Second
	c.Scraper.MonthlyQuotaLimit = 10000

	c.Validator.HTMLMaxConcurrent = 5
	c.Validator.HTMLFetchTimeout = 15 * time.Second
	c.Validator.BrowserNavTimeout = 20 * time.Second

	c.BrowserPool.MaxInstances = 2
	c.BrowserPool.Headless = true

	c.Enrichment.Provider = "keyword"
	c.Enrichment.MaxTokens = 1024

	c.Logging.Level = "info"
	c.Logging.Format = "json"

	c.Registry.MaxRetainedRuns = 500
}

func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if issuer := os.Getenv("AUTH_ISSUER_URL"); issuer != "" {
		c.Auth.IssuerURL = issuer
	}
	if key := os.Getenv("AUTH_SHARED_KEY"); key != "" {
		c.Auth.SharedKey = key
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORS.AllowedOrigins = strings.Split(origins, ",")
	}

	if limit := os.Getenv("RATE_LIMIT_DEFAULT_PER_MINUTE"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			c.RateLimit.DefaultPerMinute = n
		}
	}
	if limit := os.Getenv("RATE_LIMIT_SCRAPER_PER_MINUTE"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			c.RateLimit.ScraperPerMinute = n
		}
	}

	if n := os.Getenv("SCRAPER_MONTHLY_QUOTA_LIMIT"); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			c.Scraper.MonthlyQuotaLimit = v
		}
	}

	if apiKey := os.Getenv("ENRICHMENT_API_KEY"); apiKey != "" {
		c.Enrichment.APIKey = apiKey
	}
	if provider := os.Getenv("ENRICHMENT_PROVIDER"); provider != "" {
		c.Enrichment.Provider = provider
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	if maxInstances := os.Getenv("BROWSER_POOL_MAX_INSTANCES"); maxInstances != "" {
		if n, err := strconv.Atoi(maxInstances); err == nil {
			c.BrowserPool.MaxInstances = n
		}
	}
	if headless := os.Getenv("BROWSER_POOL_HEADLESS"); headless != "" {
		c.BrowserPool.Headless = headless == "true" || headless == "1"
	}

	if debug := os.Getenv("DEBUG"); debug != "" {
		c.Debug = debug == "true" || debug == "1"
	}
}
