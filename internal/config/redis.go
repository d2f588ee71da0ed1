package config

// Redis backs the optional storage driver, distributed rate limiting and
// catalog response caching.  When the server cannot be reached at startup
// NewRedisClient returns nil and callers degrade: the rate limiter falls
// back to in-process buckets and caching is skipped.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig is read from REDIS_ADDR, or REDIS_HOST with REDIS_PORT (which
// take precedence), plus REDIS_PASSWORD, REDIS_DB, REDIS_TLS and
// REDIS_KEY_PREFIX.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	TLS       bool
	KeyPrefix string
}

// LoadRedisConfig reads the REDIS_* variables.
func LoadRedisConfig() RedisConfig {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
		addr = host + ":" + port
	}
	return RedisConfig{
		Addr:      addr,
		Password:  envStr("REDIS_PASSWORD", ""),
		DB:        envInt("REDIS_DB", 0),
		TLS:       envBool("REDIS_TLS", false),
		KeyPrefix: envStr("REDIS_KEY_PREFIX", "hotel"),
	}
}

// NewRedisClient dials Redis and pings it with a short timeout.  It
// returns nil when the server does not answer.
func NewRedisClient(rc RedisConfig, logger *zap.Logger) *redis.Client {
	var tlsConf *tls.Config
	if rc.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      rc.Addr,
		Password:  rc.Password,
		DB:        rc.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Warn("redis unavailable", zap.String("addr", rc.Addr), zap.Error(err))
		}
		_ = client.Close()
		return nil
	}
	return client
}
