package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the API server
type Config struct {
	ServerPort string
	LogLevel   string
	// TrustedProxies lists the proxy IPs/CIDRs whose forwarding headers are believed.
	// Empty means client IPs always come from the connection.
	TrustedProxies []string

	DB DBConfig

	JWTSecret          string
	JWTExpirationHours int64

	RateLimitMax     int
	RateLimitWindow  time.Duration
	RateLimitBackend string

	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StorageBackend string
	UploadsDir     string
	S3             S3Config
}

// S3Config holds the attachment bucket settings
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendLocal  = "local"
	BackendS3     = "s3"
)

// LoadDotEnv loads a .env file into the process environment when one exists
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load reads the configuration from environment variables, applying defaults
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		ServerPort: v.GetString("SERVER_PORT"),
		LogLevel:   v.GetString("LOG_LEVEL"),

		TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),

		DB: DBConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt32("DB_MAX_CONNS"),
			MinConns:        v.GetInt32("DB_MIN_CONNS"),
			BootstrapSchema: v.GetBool("DB_BOOTSTRAP_SCHEMA"),
		},

		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTExpirationHours: v.GetInt64("JWT_EXPIRATION_HOURS"),

		RateLimitMax:     v.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow:  v.GetDuration("RATE_LIMIT_WINDOW"),
		RateLimitBackend: strings.ToLower(v.GetString("RATE_LIMIT_BACKEND")),

		RedisURL:      v.GetString("REDIS_URL"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		StorageBackend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
		UploadsDir:     v.GetString("UPLOADS_DIR"),
		S3: S3Config{
			Bucket:    v.GetString("S3_BUCKET"),
			Region:    v.GetString("S3_REGION"),
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "5400")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 12)
	v.SetDefault("DB_MIN_CONNS", 0)
	v.SetDefault("DB_BOOTSTRAP_SCHEMA", false)
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("RATE_LIMIT_MAX", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("RATE_LIMIT_BACKEND", BackendMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STORAGE_BACKEND", BackendLocal)
	v.SetDefault("UPLOADS_DIR", "uploads")
	v.SetDefault("S3_REGION", "us-east-1")
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET not set in environment"))
	}
	if c.JWTExpirationHours <= 0 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", c.JWTExpirationHours))
	}
	if err := c.DB.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				errs = append(errs, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", proxy))
			}
		}
	}
	if c.RateLimitMax <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimitMax))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow))
	}
	switch c.RateLimitBackend {
	case BackendMemory, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimitBackend))
	}
	switch c.StorageBackend {
	case BackendLocal:
	case BackendS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET required when STORAGE_BACKEND=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}
	return errors.Join(errs...)
}

// splitList turns a comma separated value into its non-empty, trimmed items
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
