package config

import (
	"time"

	"investing-backend/pkg/config"
)

// Auth holds session and password hashing settings.
type Auth struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	Issuer       string        `mapstructure:"issuer"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	CookieDomain string        `mapstructure:"cookie_domain"`
	BcryptCost   int           `mapstructure:"bcrypt_cost"`
}

// CORS holds cross origin settings for the frontend.
type CORS struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// News holds the news provider configuration.
type News struct {
	Provider            string        `mapstructure:"provider"` // "newsapi" or "rss"
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Query               string        `mapstructure:"query"`
	RSSURL              string        `mapstructure:"rss_url"`
	MaxArticles         int           `mapstructure:"max_articles"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	CacheDuration       time.Duration `mapstructure:"cache_duration"`
}

// Recommender holds the external recommendation process settings.
type Recommender struct {
	Command string        `mapstructure:"command"`
	Args    []string      `mapstructure:"args"`
	Dir     string        `mapstructure:"dir"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Live holds the live price broadcaster settings.
type Live struct {
	Interval  time.Duration `mapstructure:"interval"`
	MaxChange float64       `mapstructure:"max_change"`
}

// Catalog holds catalog cache settings.
type Catalog struct {
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	RefreshCron string        `mapstructure:"refresh_cron"`
}

// Config holds the full configuration for the api service.
type Config struct {
	App         config.App      `mapstructure:"app"`
	Logger      config.Logger   `mapstructure:"logger"`
	Database    config.Database `mapstructure:"database"`
	Redis       config.Redis    `mapstructure:"redis"`
	API         config.API      `mapstructure:"api"`
	Auth        Auth            `mapstructure:"auth"`
	CORS        CORS            `mapstructure:"cors"`
	News        News            `mapstructure:"news"`
	Recommender Recommender     `mapstructure:"recommender"`
	Live        Live            `mapstructure:"live"`
	Catalog     Catalog         `mapstructure:"catalog"`
}

// defaults lists every key so that each one can be overridden from the environment.
var defaults = map[string]interface{}{
	"app.name":    "investing-backend",
	"app.env":     "development",
	"app.version": "1.0.0",

	"logger.level":    "info",
	"logger.encoding": "json",

	"database.host":              "localhost",
	"database.port":              5432,
	"database.user":              "postgres",
	"database.password":          "",
	"database.name":              "investing",
	"database.ssl_mode":          "disable",
	"database.time_zone":         "Asia/Kolkata",
	"database.max_idle_conns":    5,
	"database.max_open_conns":    20,
	"database.conn_max_lifetime": "30m",
	"database.log_level":         "warn",

	"redis.host":      "localhost",
	"redis.port":      6379,
	"redis.password":  "",
	"redis.db":        0,
	"redis.pool_size": 10,

	"api.host": "0.0.0.0",
	"api.port": 3000,

	"auth.jwt_secret":    "",
	"auth.issuer":        "investing-backend",
	"auth.token_ttl":     "24h",
	"auth.cookie_name":   "token",
	"auth.cookie_secure": false,
	"auth.cookie_domain": "",
	"auth.bcrypt_cost":   10,

	"cors.allow_origins": []string{"http://localhost:5173"},

	"news.provider":               "newsapi",
	"news.base_url":               "https://newsapi.org",
	"news.api_key":                "",
	"news.query":                  "indian stocks",
	"news.rss_url":                "https://news.google.com/rss/search?q=indian+stocks&hl=en-IN&gl=IN&ceid=IN:en",
	"news.max_articles":           10,
	"news.max_request_per_minute": 30,
	"news.request_timeout":        "10s",
	"news.cache_duration":         "5m",

	"recommender.command": "python3",
	"recommender.args":    []string{"python-ai/stock_advisor.py"},
	"recommender.dir":     "",
	"recommender.timeout": "30s",

	"live.interval":   "5s",
	"live.max_change": 0.005,

	"catalog.cache_ttl":    "10m",
	"catalog.refresh_cron": "@every 5m",
}

// Load loads the api configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults); err != nil {
		return nil, err
	}
	return &cfg, nil
}
