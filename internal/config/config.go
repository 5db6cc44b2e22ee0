package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Config 应用配置，启动时构建一次并显式传递给各组件
type Config struct {
	Port          string        `envconfig:"PORT" default:"5000"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL   string        `envconfig:"DATABASE_URL" default:"/tmp/union_app.db"`
	SessionSecret string        `envconfig:"SESSION_SECRET" default:"your-secret-key-here"`
	SiteURL       string        `envconfig:"SITE_URL" default:"http://localhost:5000"`
	TemplatesDir  string        `envconfig:"TEMPLATES_DIR" default:"./web/templates"`
	GeocodeTTL    time.Duration `envconfig:"GEOCODE_CACHE_TTL" default:"24h"`
	UploadsDir    string        `envconfig:"UPLOADS_DIR" default:"./web/uploads"`
	MaxUploadMB   int64         `envconfig:"MAX_UPLOAD_MB" default:"10"`

	// Stripe
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`
	StripePriceID   string `envconfig:"STRIPE_PRICE_ID" default:"price_1R5aVbP5TKnthUKZOwtyFyPt"`
}

// Load 读取 .env（若存在）后从环境变量填充配置
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, finding env vars from system")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return &cfg, nil
}

// UsesPostgres reports whether DatabaseURL points at a postgres server
// rather than a single sqlite file.
func (c *Config) UsesPostgres() bool {
	u := c.DatabaseURL
	return strings.HasPrefix(u, "postgres://") ||
		strings.HasPrefix(u, "postgresql://") ||
		strings.Contains(u, "host=")
}

// SuccessURL 支付成功回调地址，{CHECKOUT_SESSION_ID} 由 Stripe 替换
func (c *Config) SuccessURL() string {
	return c.SiteURL + "/success?session_id={CHECKOUT_SESSION_ID}"
}

func (c *Config) CancelURL() string {
	return c.SiteURL + "/"
}

// ConfigureLogging applies LogLevel to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.WithField("log_level", c.LogLevel).Warn("Unknown log level, falling back to info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
