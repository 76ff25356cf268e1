package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"checkout-service/services"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	Env              string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string
	StripeSecretKey  string
	ChargeTimeout    time.Duration
	JWTSecret        string
	KafkaBrokers     []string
	ReconcileTopic   string
	ReconcilePolicy  services.ReconcilePolicy
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	timeoutMS, err := strconv.Atoi(getEnv("CHARGE_TIMEOUT_MS", "10000"))
	if err != nil || timeoutMS <= 0 {
		timeoutMS = 10000
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8084"),
		Env:              getEnv("APP_ENV", "development"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		ChargeTimeout:    time.Duration(timeoutMS) * time.Millisecond,
		JWTSecret:        os.Getenv("JWT_SECRET"),
		KafkaBrokers:     splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
		ReconcileTopic:   getEnv("RECONCILE_TOPIC", "checkout.reconcile"),
		ReconcilePolicy:  services.ReconcilePolicy(getEnv("INVENTORY_RECONCILE_POLICY", string(services.ReconcileDecrement))),
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitNonEmpty(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
