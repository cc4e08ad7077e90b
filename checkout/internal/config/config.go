// Package config gathers checkout settings from a .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"convenience_store/checkout/internal/logic"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	ProductsPath   string
	PromotionsPath string

	DatabaseURL string

	RedisAddr string
	RedisPW   string
	RedisDB   int

	HTTPPort   string
	JWTSecret  string
	ReceiptTTL time.Duration

	Membership logic.MembershipPolicy
}

// Defaults used when neither the .env file nor the environment set a value.
const (
	DefaultProductsPath   = "checkout/data/products.md"
	DefaultPromotionsPath = "checkout/data/promotions.md"
	DefaultHTTPPort       = "5060"
	DefaultReceiptTTL     = time.Hour
)

// Load reads envFile (a missing file is fine, the environment may carry
// everything) and builds a Config. loaded reports whether the file was read.
func Load(envFile string) (cfg Config, loaded bool, err error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err == nil {
			loaded = true
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, false, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	cfg, err = FromEnv()
	return cfg, loaded, err
}

// FromEnv builds a Config from the current environment.
func FromEnv() (Config, error) {
	cfg := Config{
		ProductsPath:   getenv("CATALOG_PRODUCTS", DefaultProductsPath),
		PromotionsPath: getenv("CATALOG_PROMOTIONS", DefaultPromotionsPath),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPW:        os.Getenv("REDIS_PW"),
		HTTPPort:       getenv("HTTP_PORT", DefaultHTTPPort),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		ReceiptTTL:     DefaultReceiptTTL,
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if v := os.Getenv("RECEIPT_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("RECEIPT_TTL: %w", err)
		}
		cfg.ReceiptTTL = ttl
	}

	policy, err := membershipFromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg.Membership = policy

	return cfg, nil
}

func membershipFromEnv() (logic.MembershipPolicy, error) {
	policy := logic.DefaultMembershipPolicy()

	if v := os.Getenv("MEMBERSHIP_KIND"); v != "" {
		policy.Kind = logic.MembershipKind(v)
	}
	if v := os.Getenv("MEMBERSHIP_AMOUNT"); v != "" {
		amount, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return policy, fmt.Errorf("MEMBERSHIP_AMOUNT: %w", err)
		}
		policy.Amount = amount
	}
	if v := os.Getenv("MEMBERSHIP_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return policy, fmt.Errorf("MEMBERSHIP_RATE: %w", err)
		}
		policy.Rate = rate
	}
	if v := os.Getenv("MEMBERSHIP_CAP"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return policy, fmt.Errorf("MEMBERSHIP_CAP: %w", err)
		}
		policy.Cap = limit
	}

	if err := policy.Validate(); err != nil {
		return policy, err
	}
	return policy, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
