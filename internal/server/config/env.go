package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig lists the environment variables the server understands. Unset
// variables leave the corresponding Config field untouched.
type envConfig struct {
	Port            string        `env:"PORT"`
	HTTPAddr        string        `env:"HTTP_ADDR"`
	DatabaseDSN     string        `env:"DATABASE_DSN"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	SecretKey       string        `env:"JWT_SECRET"`
	RequireSecret   string        `env:"REQUIRE_SECRET"`
	TokenValidity   time.Duration `env:"TOKEN_VALIDITY"`
	BcryptCost      int           `env:"BCRYPT_COST"`
	LogLevel        string        `env:"LOG_LEVEL"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB"`
	CacheTTL        time.Duration `env:"CACHE_TTL"`
	S3RootUser      string        `env:"S3_ROOT_USER"`
	S3RootPassword  string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket        string        `env:"S3_BUCKET"`
	S3Region        string        `env:"S3_REGION"`
	S3BaseEndpoint  string        `env:"S3_BASE_ENDPOINT"`
	S3PublicBaseURL string        `env:"S3_PUBLIC_BASE_URL"`
}

// parseEnv overlays environment variables on config. PORT is a bare port
// number and loses to HTTP_ADDR; DATABASE_DSN wins over DATABASE_URL.
func parseEnv(config *Config) error {
	var e envConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		return fmt.Errorf("read env: %w", err)
	}

	if e.Port != "" {
		config.EndpointAddrHTTP = ":" + e.Port
	}
	setString(&config.EndpointAddrHTTP, e.HTTPAddr)
	setString(&config.DatabaseDSN, e.DatabaseURL)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.SecretKey, e.SecretKey)
	if e.RequireSecret != "" {
		v, err := strconv.ParseBool(e.RequireSecret)
		if err != nil {
			return fmt.Errorf("REQUIRE_SECRET: %w", err)
		}
		config.RequireSecret = v
	}
	setDuration(&config.TokenValidityDuration, e.TokenValidity)
	setInt(&config.BcryptCost, e.BcryptCost)
	setString(&config.LogLevel, e.LogLevel)
	setDuration(&config.ShutdownTimeout, e.ShutdownTimeout)
	setString(&config.RedisAddr, e.RedisAddr)
	setString(&config.RedisPassword, e.RedisPassword)
	setInt(&config.RedisDB, e.RedisDB)
	setDuration(&config.CacheTTL, e.CacheTTL)
	setString(&config.S3RootUser, e.S3RootUser)
	setString(&config.S3RootPassword, e.S3RootPassword)
	setString(&config.S3Bucket, e.S3Bucket)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, e.S3PublicBaseURL)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
