package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramBotToken string
	WebhookURL       string
	Port             string

	DatabaseURL string
	RedisURL    string

	ANKey        string
	ProxyURL     string
	FetchRPS     float64
	FetchTimeout time.Duration

	Workers     int
	TaskTimeout time.Duration
	RetryDelay  time.Duration
	MaxRetries  int

	CacheSearchTTL time.Duration
	CacheMediaTTL  time.Duration
	QueryRetention time.Duration

	GeminiAPIKey string
	GeminiModel  string

	LogLevel    string
	LogPretty   bool
	DefaultLang string
}

type env func(string) string

func (e env) get(k, def string) string {
	if v := strings.TrimSpace(e(k)); v != "" {
		return v
	}
	return def
}

func (e env) getDuration(k string, def time.Duration) (time.Duration, error) {
	v := e.get(k, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func (e env) getInt(k string, def int) (int, error) {
	v := e.get(k, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func (e env) getFloat(k string, def float64) (float64, error) {
	v := e.get(k, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return f, nil
}

func (e env) getBool(k string) bool {
	b, _ := strconv.ParseBool(e.get(k, "false"))
	return b
}

// Load читает конфиг из окружения процесса.
func Load() (*Config, error) {
	return FromEnv(os.Getenv)
}

// FromEnv собирает Config через переданный getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	e := env(getenv)

	cfg := &Config{
		TelegramBotToken: e.get("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       e.get("WEBHOOK_URL", ""),
		Port:             e.get("PORT", "8080"),
		DatabaseURL:      resolveDSN(e),
		RedisURL:         e.get("REDIS_URL", ""),
		ANKey:            e.get("AN_KEY", ""),
		ProxyURL:         e.get("PROXY_URL", ""),
		GeminiAPIKey:     e.get("GEMINI_API_KEY", ""),
		GeminiModel:      e.get("GEMINI_MODEL", "gemini-2.5-flash"),
		LogLevel:         e.get("LOG_LEVEL", "info"),
		LogPretty:        e.getBool("LOG_PRETTY"),
		DefaultLang:      e.get("DEFAULT_LANG", "ru"),
	}
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("missing required env TELEGRAM_BOT_TOKEN")
	}

	var err error
	if cfg.FetchRPS, err = e.getFloat("FETCH_RPS", 2); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = e.getDuration("FETCH_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.Workers, err = e.getInt("WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.TaskTimeout, err = e.getDuration("TASK_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = e.getDuration("RETRY_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = e.getInt("MAX_RETRIES", 2); err != nil {
		return nil, err
	}
	if cfg.CacheSearchTTL, err = e.getDuration("CACHE_SEARCH_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CacheMediaTTL, err = e.getDuration("CACHE_MEDIA_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.QueryRetention, err = e.getDuration("QUERY_RETENTION", 0); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("WORKERS must be positive, got %d", cfg.Workers)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("MAX_RETRIES must not be negative, got %d", cfg.MaxRetries)
	}
	return cfg, nil
}

// resolveDSN: DATABASE_URL, иначе собираем из POSTGRES_* / PG*.
func resolveDSN(e env) string {
	if v := e.get("DATABASE_URL", ""); v != "" {
		return v
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.get("POSTGRES_USER", "avbot"), e("POSTGRES_PASSWORD")),
		Host:     net.JoinHostPort(e.get("PGHOST", "db"), e.get("PGPORT", "5432")),
		Path:     "/" + e.get("POSTGRES_DB", "avbot"),
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// SafeDSN - DSN без пароля, для логов.
func SafeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "dsn: parse error"
	}
	user := u.User.Username()
	host := u.Host
	port := ""
	if h, p, err := net.SplitHostPort(u.Host); err == nil {
		host, port = h, p
	}
	db := strings.TrimPrefix(u.Path, "/")
	if port == "" {
		return fmt.Sprintf("host=%s db=%s user=%s", host, db, user)
	}
	return fmt.Sprintf("host=%s port=%s db=%s user=%s", host, port, db, user)
}
