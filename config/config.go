package config

import (
    "log"
    "os"
    "strconv"
    "time"

    "github.com/joho/godotenv"
)

type Config struct {
    Upstream UpstreamConfig
    Server   ServerConfig
    Redis    RedisConfig
    Session  SessionConfig
    Checkout CheckoutConfig
}

type UpstreamConfig struct {
    BaseURL     string
    Timeout     time.Duration
    ReadRetries int
}

type ServerConfig struct {
    Port string
}

type RedisConfig struct {
    URL string
}

type SessionConfig struct {
    Secret       string
    Domain       string
    CookieName   string
    MaxAge       int
    SecureCookie bool
    TTL          time.Duration
}

type CheckoutConfig struct {
    TaxRate          float64
    BaseShippingFee  float64
    ExpressSurcharge float64
    StandardLeadDays int
    ExpressLeadDays  int
}

func Load() *Config {
    if err := godotenv.Load(); err != nil {
        log.Printf("Warning: Error loading .env file: %v", err)
    }

    cfg := &Config{
        Upstream: UpstreamConfig{
            BaseURL:     os.Getenv("UPSTREAM_BASE_URL"),
            Timeout:     time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 10)) * time.Second,
            ReadRetries: getEnvInt("UPSTREAM_READ_RETRIES", 2),
        },
        Server: ServerConfig{
            Port: os.Getenv("SERVER_PORT"),
        },
        Redis: RedisConfig{
            URL: os.Getenv("REDIS_URL"),
        },
        Session: SessionConfig{
            Secret:       os.Getenv("SESSION_SECRET"),
            Domain:       os.Getenv("SESSION_DOMAIN"),
            CookieName:   "storefront-session",
            MaxAge:       getEnvInt("SESSION_MAX_AGE", 86400*7),
            SecureCookie: getEnvBool("SESSION_COOKIE_SECURE", true),
            TTL:          time.Duration(getEnvInt("SESSION_TTL_HOURS", 168)) * time.Hour,
        },
        Checkout: CheckoutConfig{
            TaxRate:          getEnvFloat("CHECKOUT_TAX_RATE", 0.08),
            BaseShippingFee:  getEnvFloat("CHECKOUT_BASE_SHIPPING", 30000),
            ExpressSurcharge: getEnvFloat("CHECKOUT_EXPRESS_SURCHARGE", 25000),
            StandardLeadDays: getEnvInt("CHECKOUT_STANDARD_LEAD_DAYS", 4),
            ExpressLeadDays:  getEnvInt("CHECKOUT_EXPRESS_LEAD_DAYS", 1),
        },
    }

    if cfg.Upstream.BaseURL == "" {
        cfg.Upstream.BaseURL = "http://localhost:8080/api"
        log.Printf("Warning: UPSTREAM_BASE_URL not set, using default: %s", cfg.Upstream.BaseURL)
    }
    if cfg.Server.Port == "" {
        cfg.Server.Port = "8090"
    }
    if cfg.Session.Secret == "" {
        cfg.Session.Secret = "dev-session-secret"
        log.Printf("Warning: SESSION_SECRET not set, using insecure development default")
    }

    return cfg
}

func getEnvInt(key string, fallback int) int {
    raw := os.Getenv(key)
    if raw == "" {
        return fallback
    }
    value, err := strconv.Atoi(raw)
    if err != nil {
        log.Printf("Warning: invalid value for %s (%q), using default %d", key, raw, fallback)
        return fallback
    }
    return value
}

func getEnvBool(key string, fallback bool) bool {
    raw := os.Getenv(key)
    if raw == "" {
        return fallback
    }
    value, err := strconv.ParseBool(raw)
    if err != nil {
        log.Printf("Warning: invalid value for %s (%q), using default %v", key, raw, fallback)
        return fallback
    }
    return value
}

func getEnvFloat(key string, fallback float64) float64 {
    raw := os.Getenv(key)
    if raw == "" {
        return fallback
    }
    value, err := strconv.ParseFloat(raw, 64)
    if err != nil {
        log.Printf("Warning: invalid value for %s (%q), using default %v", key, raw, fallback)
        return fallback
    }
    return value
}
