package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	PORT string

	DB_DRIVER   string
	DB_URL      string
	SQLITE_PATH string

	ADMIN_SECRET      string
	ADMIN_SECRET_HASH string

	CORS_ORIGIN          string
	ACTIVE_POLL_INTERVAL time.Duration
	REALTIME_CHANNEL     string

	UPLOAD_DIR      string
	PUBLIC_BASE_URL string

	ANTHROPIC_API_KEY string
	CHAT_MODEL        string
	CHAT_MAX_TOKENS   int

	LOG_LEVEL string
	LOG_FILE  string
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("SQLITE_PATH", "gallery.db")
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("ACTIVE_POLL_INTERVAL", "2s")
	v.SetDefault("REALTIME_CHANNEL", "gallery_changes")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("CHAT_MODEL", "claude-3-5-haiku-latest")
	v.SetDefault("CHAT_MAX_TOKENS", 512)
	v.SetDefault("LOG_LEVEL", "info")
}

// Viper returns the environment-backed settings. The CLI binds its flags
// onto the same instance so flags win over the environment.
var Viper = newViper()

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	setDefaults(v)
	return v
}

// LoadEnv reads .env (when present) and the process environment.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found. Using system environment variables.")
	}
	load(Viper)
}

// LoadServerEnv is LoadEnv plus the checks the HTTP server needs.
func LoadServerEnv() {
	LoadEnv()
	if err := CheckDatabase(); err != nil {
		log.Fatal().Err(err).Msg("Invalid database configuration")
	}
	if ADMIN_SECRET == "" && ADMIN_SECRET_HASH == "" {
		log.Fatal().Msg("Missing required environment variable: ADMIN_SECRET or ADMIN_SECRET_HASH")
	}
}

func load(v *viper.Viper) {
	PORT = v.GetString("PORT")

	DB_DRIVER = strings.ToLower(v.GetString("DB_DRIVER"))
	DB_URL = v.GetString("DB_URL")
	SQLITE_PATH = v.GetString("SQLITE_PATH")

	ADMIN_SECRET = v.GetString("ADMIN_SECRET")
	ADMIN_SECRET_HASH = v.GetString("ADMIN_SECRET_HASH")

	CORS_ORIGIN = v.GetString("CORS_ORIGIN")
	ACTIVE_POLL_INTERVAL = v.GetDuration("ACTIVE_POLL_INTERVAL")
	if ACTIVE_POLL_INTERVAL <= 0 {
		ACTIVE_POLL_INTERVAL = 2 * time.Second
	}
	REALTIME_CHANNEL = v.GetString("REALTIME_CHANNEL")

	UPLOAD_DIR = v.GetString("UPLOAD_DIR")
	PUBLIC_BASE_URL = strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/")

	ANTHROPIC_API_KEY = v.GetString("ANTHROPIC_API_KEY")
	CHAT_MODEL = v.GetString("CHAT_MODEL")
	CHAT_MAX_TOKENS = v.GetInt("CHAT_MAX_TOKENS")

	LOG_LEVEL = v.GetString("LOG_LEVEL")
	LOG_FILE = v.GetString("LOG_FILE")
}

// CheckDatabase reports a missing or inconsistent database setting.
func CheckDatabase() error {
	switch DB_DRIVER {
	case DriverPostgres:
		if DB_URL == "" {
			return fmt.Errorf("missing required environment variable: DB_URL")
		}
	case DriverSQLite:
		if SQLITE_PATH == "" {
			return fmt.Errorf("missing required environment variable: SQLITE_PATH")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %s or %s, got %q", DriverPostgres, DriverSQLite, DB_DRIVER)
	}
	return nil
}
