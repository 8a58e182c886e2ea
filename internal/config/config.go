package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
)

type Config struct {
	AppEnv        string        `default:"development"`
	Port          string        `default:"8080"`
	BaseURL       string        `default:"http://localhost:8080"`
	SessionKey    string        `default:"dev-insecure"`
	WhatsAppPhone string        `default:"994552677811"`
	CacheTTL      time.Duration `default:"60s"`

	DB       DB
	Storage  Storage
	Supabase Supabase
	Google   Google
	Telegram Telegram
	SMTP     SMTP
	Admin    Admin
}

type DB struct {
	Driver     string `default:"postgres"`
	DSN        string
	Host       string `default:"localhost"`
	Port       string `default:"5432"`
	User       string `default:"postgres"`
	Password   string `default:"postgres"`
	Name       string `default:"mdbaku"`
	SSLMode    string `default:"disable"`
	SQLitePath string `default:"mdbaku.db"`
}

type Storage struct {
	Driver        string `default:"local"`
	Dir           string `default:"uploads"`
	CloudinaryURL string
}

type Supabase struct {
	URL        string
	AnonKey    string
	ServiceKey string
}

type Google struct {
	ClientID     string
	ClientSecret string
}

type Telegram struct {
	Token   string
	ChatIDs []string
}

type SMTP struct {
	Host     string
	Port     int `default:"587"`
	User     string
	Password string
	NotifyTo string
}

// Admin seeds one admin profile at startup when Email is set.
type Admin struct {
	UserID string
	Email  string
}

// Load reads the environment; unset fields take their `default` tag.
func Load() (*Config, error) {
	c := &Config{
		AppEnv:        env("APP_ENV"),
		Port:          env("PORT"),
		BaseURL:       strings.TrimRight(env("BASE_URL"), "/"),
		SessionKey:    env("SESSION_KEY"),
		WhatsAppPhone: env("WHATSAPP_PHONE"),
		DB: DB{
			Driver:     strings.ToLower(env("DB_DRIVER")),
			DSN:        env("DB_DSN"),
			Host:       env("DB_HOST"),
			Port:       env("DB_PORT"),
			User:       firstEnv("DB_USER", "POSTGRES_USER"),
			Password:   firstEnv("DB_PASSWORD", "POSTGRES_PASSWORD"),
			Name:       firstEnv("DB_NAME", "POSTGRES_DB"),
			SSLMode:    env("DB_SSLMODE"),
			SQLitePath: env("SQLITE_PATH"),
		},
		Storage: Storage{
			Driver:        strings.ToLower(env("STORAGE_DRIVER")),
			Dir:           env("STORAGE_DIR"),
			CloudinaryURL: env("CLOUDINARY_URL"),
		},
		Supabase: Supabase{
			URL:        strings.TrimRight(env("SUPABASE_URL"), "/"),
			AnonKey:    env("SUPABASE_ANON_KEY"),
			ServiceKey: env("SUPABASE_SERVICE_KEY"),
		},
		Google: Google{
			ClientID:     env("GOOGLE_CLIENT_ID"),
			ClientSecret: env("GOOGLE_CLIENT_SECRET"),
		},
		Telegram: Telegram{
			Token:   env("TELEGRAM_TOKEN"),
			ChatIDs: splitList(env("TELEGRAM_CHAT_ID")),
		},
		SMTP: SMTP{
			Host:     env("SMTP_HOST"),
			User:     env("SMTP_USER"),
			Password: env("SMTP_PASS"),
			NotifyTo: env("CONTACT_NOTIFY_EMAIL"),
		},
		Admin: Admin{
			UserID: env("ADMIN_USER_ID"),
			Email:  strings.ToLower(env("ADMIN_EMAIL")),
		},
	}
	if v := env("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CACHE_TTL: %w", err)
		}
		c.CacheTTL = d
	}
	if v := env("SMTP_PORT"); v != "" {
		var p int
		if _, err := fmt.Sscanf(v, "%d", &p); err != nil {
			return nil, fmt.Errorf("SMTP_PORT: %w", err)
		}
		c.SMTP.Port = p
	}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	return c, nil
}

// DevSessionKey signs cookies when SESSION_KEY is unset. It is refused outside development.
const DevSessionKey = "dev-insecure"

// MinSessionKeyLen is the shortest SESSION_KEY accepted outside development.
const MinSessionKeyLen = 32

// CheckSessionKey rejects the public default or a short key unless running in development.
func (c *Config) CheckSessionKey() error {
	if c.IsDev() {
		return nil
	}
	if c.SessionKey == DevSessionKey || len(c.SessionKey) < MinSessionKeyLen {
		return fmt.Errorf("SESSION_KEY must be set to at least %d bytes when APP_ENV=%s", MinSessionKeyLen, c.AppEnv)
	}
	return nil
}

func (c *Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "", "development", "dev":
		return true
	}
	return false
}

// Dsn builds the postgres connection string unless DB_DSN was given verbatim.
func (d DB) Dsn() string {
	if strings.TrimSpace(d.DSN) != "" {
		return d.DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

func (c *Config) Addr() string { return ":" + c.Port }

func env(key string) string { return strings.TrimSpace(os.Getenv(key)) }

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := env(k); v != "" {
			return v
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
