package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Terminal.
	Port                  string
	BackendURL            string
	BackendTimeoutSeconds int
	AuthSecret            string
	AccessTokenTTLMinutes int
	CashierUsername       string
	CashierPassword       string
	RecentTransactions    int

	// Backend.
	BackendPort            string
	DatabaseURL            string
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	ProductCacheTTLSeconds int

	// Shared.
	AllowedOrigin  string
	LogLevel       string
	LogDevelopment bool
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	logDevelopment, _ := strconv.ParseBool(getEnv("LOG_DEVELOPMENT", "false"))

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		BackendURL:            strings.TrimRight(getEnv("BACKEND_URL", "http://127.0.0.1:8081"), "/"),
		BackendTimeoutSeconds: getPositiveInt("BACKEND_TIMEOUT_SECONDS", 10),
		AuthSecret:            strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes: getPositiveInt("ACCESS_TOKEN_TTL_MINUTES", 480),
		CashierUsername:       getEnv("CASHIER_USERNAME", "cashier"),
		CashierPassword:       os.Getenv("CASHIER_PASSWORD"),
		RecentTransactions:    getPositiveInt("RECENT_TRANSACTIONS", 10),

		BackendPort:            getEnv("BACKEND_PORT", "8081"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                redisDB,
		ProductCacheTTLSeconds: getPositiveInt("PRODUCT_CACHE_TTL_SECONDS", 30),

		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogDevelopment: logDevelopment,
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) BackendAddress() string {
	return fmt.Sprintf(":%s", c.BackendPort)
}

func (c Config) BackendTimeout() time.Duration {
	return time.Duration(c.BackendTimeoutSeconds) * time.Second
}

func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

func (c Config) ProductCacheTTL() time.Duration {
	return time.Duration(c.ProductCacheTTLSeconds) * time.Second
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getPositiveInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
