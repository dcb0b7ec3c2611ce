package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultThumbnail is shown for resources submitted without a thumbnail.
const DefaultThumbnail = "https://placehold.co/600x400/png?text=Study+Resource"

type Config struct {
	HTTP struct {
		Host string
		Port string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Webhook struct {
		URL     string
		ID      string
		Token   string
		Timeout time.Duration
		Rate    float64
		Burst   int
	}
	Log struct {
		Level  string
		Format string
	}
	PublicBaseURL      string
	ThumbnailFallback  string
	CORSAllowedOrigins []string
}

// Addr returns the listen address built from host and port.
func (c *Config) Addr() string {
	return c.HTTP.Host + ":" + c.HTTP.Port
}

// WebhookEnabled reports whether both webhook credentials are set.
func (c *Config) WebhookEnabled() bool {
	return c.Webhook.ID != "" && c.Webhook.Token != ""
}

// Load reads config from environment (SHELF_ prefix) and optional studyshelf.yaml.
// PORT and DATABASE_URL are honoured as fallbacks for the prefixed names.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("studyshelf")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	_ = v.BindEnv("http.port", "SHELF_PORT", "PORT")
	_ = v.BindEnv("db.dsn", "SHELF_DB_DSN", "DATABASE_URL")

	v.SetDefault("public.base_url", "http://localhost")
	v.SetDefault("thumbnail.fallback", DefaultThumbnail)
	v.SetDefault("webhook.url", "https://discord.com/api/webhooks")
	v.SetDefault("webhook.timeout", "10s")
	v.SetDefault("webhook.rate", 0.5)
	v.SetDefault("webhook.burst", 5)
	v.SetDefault("cors.origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	cfg := &Config{}
	cfg.HTTP.Host = v.GetString("http.host")
	cfg.HTTP.Port = v.GetString("http.port")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Webhook.URL = strings.TrimRight(v.GetString("webhook.url"), "/")
	cfg.Webhook.ID = v.GetString("webhook.id")
	cfg.Webhook.Token = v.GetString("webhook.token")
	cfg.Webhook.Rate = v.GetFloat64("webhook.rate")
	cfg.Webhook.Burst = v.GetInt("webhook.burst")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.PublicBaseURL = strings.TrimRight(v.GetString("public.base_url"), "/")
	cfg.ThumbnailFallback = v.GetString("thumbnail.fallback")

	for _, o := range strings.Split(v.GetString("cors.origins"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	timeout, err := time.ParseDuration(v.GetString("webhook.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHELF_WEBHOOK_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("SHELF_WEBHOOK_TIMEOUT must be positive")
	}
	cfg.Webhook.Timeout = timeout

	if cfg.Webhook.Rate <= 0 || cfg.Webhook.Burst < 1 {
		return nil, fmt.Errorf("SHELF_WEBHOOK_RATE must be positive and SHELF_WEBHOOK_BURST at least 1")
	}

	if cfg.HTTP.Port == "" {
		return nil, fmt.Errorf("missing PORT: set SHELF_PORT or PORT")
	}
	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("SHELF_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("SHELF_DB_DSN is required")
	}
	if cfg.ThumbnailFallback == "" {
		return nil, fmt.Errorf("SHELF_THUMBNAIL_FALLBACK must not be empty")
	}

	return cfg, nil
}
