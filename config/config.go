package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/smunch/smunch-backend/utils"
)

const (
	DefaultBannerURL    = "https://ik.imagekit.io/SMUNCH/admin/smunch_email_banner.png?updatedAt=1752593887499"
	DefaultPayNowNumber = "96773374"
	DefaultQRValidity   = 10 * time.Minute
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether enough is set to actually dial a server.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.User != "" && s.Password != ""
}

type PayNowConfig struct {
	Number       string
	MerchantName string
	QRValidity   time.Duration
}

type Config struct {
	AppEnv     string
	Port       string
	GinMode    string
	LogLevel   string
	DBDriver   string
	DBDSN      string
	JWTSecret  string
	CORSOrigin string

	ContactEmail string
	BannerURL    string
	SMTP         SMTPConfig
	PayNow       PayNowConfig

	PaymentVerifier  string
	RemindersEnabled bool
	ReminderInterval time.Duration
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		smtpPort = 587
	}

	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		Port:       getEnv("PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:      getEnv("DB_DSN", "smunch.db"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		ContactEmail: getEnv("SMUNCH_EMAIL", "smunch.dev@gmail.com"),
		BannerURL:    getEnv("EMAIL_BANNER_URL", DefaultBannerURL),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     smtpPort,
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
		},
		PayNow: PayNowConfig{
			Number:       getEnv("PAYNOW_NUMBER", DefaultPayNowNumber),
			MerchantName: getEnv("PAYNOW_MERCHANT_NAME", "SMUNCH"),
			QRValidity:   getDuration("QR_VALIDITY", DefaultQRValidity),
		},

		PaymentVerifier:  strings.ToLower(getEnv("PAYMENT_VERIFIER", "stub")),
		RemindersEnabled: getBool("REMINDERS_ENABLED", true),
		ReminderInterval: getDuration("REMINDER_INTERVAL", time.Minute),
	}
	cfg.SMTP.From = getEnv("SMTP_FROM", cfg.SMTP.User)

	if cfg.JWTSecret == "" {
		utils.InfoLogger.Warn("JWT_SECRET not set, admin endpoints will reject every token")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		utils.ErrorLogger.Warnf("Invalid duration for %s: %q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
