package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	TransportMemory = "memory"
	TransportRedis  = "redis"
	TransportNATS   = "nats"
	TransportNone   = "none"
)

// app config, loaded from the environment (and an optional .env file)
type Config struct {
	Port        string
	CORSOrigins []string

	DBDriver string
	DBDSN    string

	JWTSecret string
	TokenTTL  time.Duration

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	CVDir      string
	CVMaxBytes int64

	NotifyTransport string
	NotifyWorkers   int
	NotifyQueueSize int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NATSURL         string
	NATSConnTimeout time.Duration

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	ReminderEnabled  bool
	ReminderSchedule string
}

// LoadConfig reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; real env vars win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:5173")),

		DBDriver: strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverPostgres)),
		DBDSN:    os.Getenv("DATABASE_DSN"),

		JWTSecret: getEnvOrDefault("JWT_SECRET", "dev"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		CVDir:      getEnvOrDefault("CV_DIR", "./media/cvs"),
		CVMaxBytes: int64(getEnvInt("CV_MAX_BYTES", 5<<20)),

		NotifyTransport: strings.ToLower(getEnvOrDefault("NOTIFY_TRANSPORT", TransportMemory)),
		NotifyWorkers:   getEnvInt("NOTIFY_WORKERS", 2),
		NotifyQueueSize: getEnvInt("NOTIFY_QUEUE_SIZE", 256),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		NATSURL:         getEnvOrDefault("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		SMTPHost: getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		ReminderEnabled:  getEnvBool("REMINDER_ENABLED", false),
		ReminderSchedule: getEnvOrDefault("REMINDER_SCHEDULE", "0 8 * * *"),
	}

	if config.SMTPFrom == "" {
		config.SMTPFrom = config.SMTPUser
	}
	if config.DBDSN == "" {
		config.DBDSN = defaultDSN(config.DBDriver)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SMTPConfigured reports whether outbound mail can actually be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPass != "" && c.SMTPFrom != ""
}

func validateConfig(config *Config) error {
	switch config.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.New("unsupported DB_DRIVER: " + config.DBDriver + ". Currently supported: postgres, sqlite")
	}
	switch config.NotifyTransport {
	case TransportMemory, TransportRedis, TransportNATS, TransportNone:
	default:
		return errors.New("unsupported NOTIFY_TRANSPORT: " + config.NotifyTransport + ". Currently supported: memory, redis, nats, none")
	}
	if config.NotifyWorkers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be at least 1, got %d", config.NotifyWorkers)
	}
	if config.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if config.AdminEmail != "" && config.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}
	return nil
}

// defaultDSN builds a DSN from the POSTGRES_* variables.
func defaultDSN(driver string) string {
	if driver == DriverSQLite {
		return getEnvOrDefault("SQLITE_PATH", "internhub.db")
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		getEnvOrDefault("POSTGRES_HOST", "localhost"),
		getEnvOrDefault("POSTGRES_USER", "postgres"),
		getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
		getEnvOrDefault("POSTGRES_DB", "internhub"),
		getEnvOrDefault("POSTGRES_PORT", "5432"),
		getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
