package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// RateLimit is one token bucket applied to a public route class.
type RateLimit struct {
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
}

// AppConfig carries every process-level setting. It is built once in main and
// handed to constructors; nothing reads the environment after Load returns.
type AppConfig struct {
	Port string

	DatabaseDSN  string
	DatabaseName string

	JWTSecret []byte
	JWTTTL    time.Duration

	OwnerUsername     string
	OwnerPasswordHash []byte

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AMQPURL          string
	BookingQueue     string
	NotifyWebhookURL string

	RateHome    RateLimit
	RateSearch  RateLimit
	RateConfirm RateLimit

	// Location is the hotel-local clock used for audit stamps, visitor rows
	// and day boundaries on clock-dependent reads. Pricing and availability
	// take explicit date ranges and never consult it.
	Location *time.Location

	LogLevel  string
	LogFormat string

	SeedDemoSite bool
}

// Load reads the environment into an AppConfig. The JWT secret is the only
// hard requirement; everything else has a workable default.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:         envOrDefault("PORT", "8080"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("LOG_FORMAT", "json"),
		SeedDemoSite: envBool("SEED_DEMO_SITE", true),
	}

	secret := strings.TrimSpace(envOrDefault("JWT_SECRET", ""))
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	cfg.JWTSecret = []byte(secret)
	cfg.JWTTTL = time.Duration(envInt("JWT_TTL_MINUTES", 60)) * time.Minute

	dsn, dbName, err := resolveMySQLDSN()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database dsn: %w", err)
	}
	cfg.DatabaseDSN = dsn
	cfg.DatabaseName = dbName

	cfg.OwnerUsername = envOrDefault("OWNER_USERNAME", "owner")
	hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("OWNER_PASSWORD", "owner")), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash owner password: %w", err)
	}
	cfg.OwnerPasswordHash = hash

	cfg.CORSOrigins = ParseCorsOrigins(envOrDefault("CORS_ORIGINS", ""))

	cfg.RedisAddr = envOrDefault("REDIS_ADDR", "")
	cfg.RedisPassword = envOrDefault("REDIS_PASSWORD", "")
	cfg.RedisDB = envInt("REDIS_DB", 0)

	cfg.AMQPURL = envOrDefault("AMQP_URL", "")
	cfg.BookingQueue = envOrDefault("BOOKING_QUEUE", "booking_events")
	cfg.NotifyWebhookURL = envOrDefault("NOTIFY_WEBHOOK_URL", "")

	cfg.RateHome = loadRateLimit("RATE_HOME", 60)
	cfg.RateSearch = loadRateLimit("RATE_SEARCH", 20)
	cfg.RateConfirm = loadRateLimit("RATE_CONFIRM", 5)

	tz := envOrDefault("TIMEZONE", "Africa/Tripoli")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	cfg.Location = loc

	return cfg, nil
}

// Now returns the current wall time in the hotel-local zone, truncated of its
// monotonic reading so stored values compare cleanly.
func (c *AppConfig) Now() time.Time {
	return time.Now().In(c.Location).Round(0)
}

// loadRateLimit builds a per-minute bucket: capacity N, refilled one token
// every minute/N. A zero or negative override disables the class entirely by
// handing back a zero-capacity bucket the middleware treats as "off".
func loadRateLimit(prefix string, perMinute int) RateLimit {
	n := envInt(prefix+"_PER_MINUTE", perMinute)
	if n <= 0 {
		return RateLimit{}
	}
	return RateLimit{
		Capacity:       n,
		RefillTokens:   1,
		RefillInterval: time.Minute / time.Duration(n),
		TTL:            10 * time.Minute,
	}
}

// ParseCorsOrigins splits a comma list into origins, defaulting to the
// wildcard when empty.
func ParseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(envOrDefault(key, ""))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(envOrDefault(key, ""))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
