// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server and the Redis client.
type Config struct {
	HTTPAddr        string
	RedisHost       string
	RedisPort       int
	RedisPoolSize   int
	RedisTimeout    time.Duration
	PurchaseDelay   time.Duration
	ShutdownTimeout time.Duration
}

// RedisAddr returns the host:port pair for the Redis client.
func (c Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, strconv.Itoa(c.RedisPort))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) (int, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	return n, nil
}

func durenvms(key string, defMs int) (time.Duration, error) {
	ms, err := atoienv(key, defMs)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func durenvs(key string, defSec int) (time.Duration, error) {
	sec, err := atoienv(key, defSec)
	if err != nil {
		return 0, err
	}
	return time.Duration(sec) * time.Second, nil
}

// Load collects configuration from environment with defaults. Malformed or
// out-of-range values are fatal: the caller must not start serving with them.
func Load() (Config, error) {
	port, err := atoienv("REDIS_PORT", 6379)
	if err != nil {
		return Config{}, err
	}
	if port < 1 || port > 65535 {
		return Config{}, fmt.Errorf("config: REDIS_PORT=%d out of range", port)
	}
	poolSize, err := atoienv("REDIS_POOL_SIZE", 100)
	if err != nil {
		return Config{}, err
	}
	if poolSize <= 0 {
		return Config{}, fmt.Errorf("config: REDIS_POOL_SIZE=%d must be positive", poolSize)
	}
	timeout, err := durenvms("REDIS_TIMEOUT_MS", 5000)
	if err != nil {
		return Config{}, err
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("config: REDIS_TIMEOUT_MS must be positive")
	}
	delay, err := durenvms("PURCHASE_DELAY_MS", 50)
	if err != nil {
		return Config{}, err
	}
	if delay < 0 {
		return Config{}, fmt.Errorf("config: PURCHASE_DELAY_MS must not be negative")
	}
	shutdown, err := durenvs("SHUTDOWN_TIMEOUT", 10)
	if err != nil {
		return Config{}, err
	}
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		RedisHost:       getenv("REDIS_HOST", "localhost"),
		RedisPort:       port,
		RedisPoolSize:   poolSize,
		RedisTimeout:    timeout,
		PurchaseDelay:   delay,
		ShutdownTimeout: shutdown,
	}, nil
}
