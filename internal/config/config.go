package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort         = "5050"
	defaultDSN          = "ethleaf.db"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTTTL       = "168h"
	defaultS3Bucket     = "ethleaf"
	defaultS3PresignTTL = "5m"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	S3 S3Config
}

type S3Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	PublicBaseURL string
	UseSSL        bool
	PresignTTL    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDSN)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.S3 = S3Config{
		Endpoint:      strings.TrimSpace(os.Getenv("ETH_LEAF_S3_ENDPOINT")),
		AccessKey:     strings.TrimSpace(os.Getenv("ETH_LEAF_S3_ACCESS_KEY_ID")),
		SecretKey:     strings.TrimSpace(os.Getenv("ETH_LEAF_S3_SECRET_ACCESS_KEY")),
		Bucket:        getEnv("ETH_LEAF_S3_BUCKET", defaultS3Bucket),
		Region:        strings.TrimSpace(os.Getenv("ETH_LEAF_S3_REGION")),
		PublicBaseURL: strings.TrimSpace(os.Getenv("ETH_LEAF_S3_SERVER")),
		UseSSL:        parseBoolEnv("ETH_LEAF_S3_SECURE", "true"),
	}
	cfg.S3.PresignTTL, err = parseDurationEnv("ETH_LEAF_S3_PRESIGN_TTL", defaultS3PresignTTL)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.S3.PresignTTL <= 0 {
		return fmt.Errorf("ETH_LEAF_S3_PRESIGN_TTL must be > 0")
	}
	if cfg.S3.Endpoint == "" {
		return fmt.Errorf("ETH_LEAF_S3_ENDPOINT must be set")
	}
	if cfg.S3.PublicBaseURL == "" {
		return fmt.Errorf("ETH_LEAF_S3_SERVER must be set")
	}

	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.DatabaseURL == defaultDSN {
			return fmt.Errorf("in prod/release DATABASE_URL must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	switch env {
	case "prod", "production", "release":
		return true
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d, nil
}

func parseBoolEnv(key, fallback string) bool {
	b, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		// an unparsable value must not silently flip the default
		b, _ = strconv.ParseBool(fallback)
	}
	return b
}
