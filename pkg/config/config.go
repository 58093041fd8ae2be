package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Supabase  SupabaseConfig
	Mailjet   MailjetConfig
	Redis     RedisConfig
	Demo      DemoConfig
	RateLimit RateLimitConfig
}

type MailjetConfig struct {
	MailjetBaseUrl           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

// Enabled reports whether welcome mails can be sent.
func (m MailjetConfig) Enabled() bool {
	return m.MailjetBaseUrl != "" && m.MailjetBasicAuthUsername != ""
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	CookieKey   string
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

// SupabaseConfig points at the hosted auth service. An empty URL selects the
// local bcrypt identity store.
type SupabaseConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	Timeout        time.Duration
}

func (s SupabaseConfig) Enabled() bool {
	return s.URL != ""
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// Enabled reports whether cart and loyalty state should live in redis.
func (r RedisConfig) Enabled() bool {
	return r.RedisHost != ""
}

type DemoConfig struct {
	Enabled      bool
	AccountsFile string
}

type RateLimitConfig struct {
	LoginPerSecond float64
	LoginBurst     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	jwtTTL, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, errors.New("invalid jwt ttl")
	}

	loginRate, err := strconv.ParseFloat(getEnv("LOGIN_RATE_PER_SECOND", "5"), 64)
	if err != nil {
		return nil, errors.New("invalid login rate")
	}

	loginBurst, err := strconv.Atoi(getEnv("LOGIN_RATE_BURST", "10"))
	if err != nil {
		return nil, errors.New("invalid login burst")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Grocery Market API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			CookieKey:   getEnv("APP_COOKIE_KEY", ""),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			AllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "grocery_market"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTL:       jwtTTL,
		},
		Supabase: SupabaseConfig{
			URL:            firstEnv("NEXT_PUBLIC_SUPABASE_URL", "SUPABASE_URL"),
			AnonKey:        firstEnv("NEXT_PUBLIC_SUPABASE_ANON_KEY", "SUPABASE_ANON_KEY"),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			Timeout:        10 * time.Second,
		},
		Mailjet: MailjetConfig{
			MailjetBaseUrl:           getEnv("MAILJET_BASE_URL", ""),
			MailjetBasicAuthUsername: getEnv("MAILJET_BASIC_AUTH_USERNAME", ""),
			MailjetBasicAuthPassword: getEnv("MAILJET_BASIC_AUTH_PASSWORD", ""),
			MailjetSenderEmail:       getEnv("MAILJET_SENDER_EMAIL", ""),
			MailjetSenderName:        getEnv("MAILJET_SENDER_NAME", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Demo: DemoConfig{
			Enabled:      getEnv("DEMO_ENABLED", "true") == "true",
			AccountsFile: getEnv("DEMO_ACCOUNTS_FILE", ""),
		},
		RateLimit: RateLimitConfig{
			LoginPerSecond: loginRate,
			LoginBurst:     loginBurst,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	switch len(cfg.App.CookieKey) {
	case 16, 24, 32:
	default:
		return nil, errors.New("app cookie key must be 16, 24 or 32 bytes")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Supabase.Enabled() && (cfg.Supabase.AnonKey == "" || cfg.Supabase.ServiceRoleKey == "") {
		return nil, errors.New("supabase url set without anon and service role keys")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if val := os.Getenv(k); val != "" {
			return val
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
