package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"hotel-reservation/services"
)

type Settings struct {
	Port             string
	StoreDriver      string
	DBLogLevel       string
	StoreTimeout     time.Duration
	ReadRetryBackoff time.Duration
	RedisURL         string
	RoomLockTTL      time.Duration
	SMTP             services.SMTPConfig
	CORSOrigins      []string
	SeedData         bool
}

// Load reads .env when present, then the process environment.
func Load() Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}
	return FromEnv()
}

func FromEnv() Settings {
	return Settings{
		Port:             envOrDefault("PORT", "8080"),
		StoreDriver:      strings.ToLower(envOrDefault("STORE_DRIVER", "mysql")),
		DBLogLevel:       strings.ToLower(envOrDefault("DB_LOG_LEVEL", "warn")),
		StoreTimeout:     envDuration("STORE_TIMEOUT", 5*time.Second),
		ReadRetryBackoff: envDuration("READ_RETRY_BACKOFF", 200*time.Millisecond),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		RoomLockTTL:      envDuration("ROOM_LOCK_TTL", 10*time.Second),
		SMTP: services.SMTPConfig{
			Host:      strings.TrimSpace(os.Getenv("SMTP_HOST")),
			Port:      envInt("SMTP_PORT", 587),
			User:      strings.TrimSpace(os.Getenv("SMTP_USER")),
			Password:  os.Getenv("SMTP_PASSWORD"),
			FromName:  envOrDefault("SMTP_FROM_NAME", "Hotel Reservations"),
			FromEmail: strings.TrimSpace(os.Getenv("SMTP_FROM_EMAIL")),
		},
		CORSOrigins: parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
		SeedData:    envBool("SEED_DATA", true),
	}
}

// MailEnabled reports whether notifications should also go out by email.
func (s Settings) MailEnabled() bool {
	return s.SMTP.Host != "" && s.SMTP.FromEmail != ""
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("⚠️  invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️  invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("⚠️  invalid %s=%q, using %t", key, raw, def)
		return def
	}
	return b
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
