package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Directory    DirectoryConfig
	Session      SessionConfig
	Notification NotificationConfig
	Events       EventsConfig
	Tracing      TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	HubLogFilePath     string
	CorsAllowedOrigins string
	IDStrategy         string // "sequence" or "uuid"
	ShutdownTimeout    time.Duration
}

type DirectoryConfig struct {
	Enabled           bool
	URL               string
	Timeout           time.Duration
	DefaultDepartment string
}

type SessionConfig struct {
	TTL time.Duration
}

type NotificationConfig struct {
	TTL      time.Duration
	RedisURL string // empty disables cross-instance fan-out
}

type EventsConfig struct {
	Topic   string
	NatsURL string // empty disables the NATS mirror
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/audit.log"),
			HubLogFilePath:     getEnv("HUB_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			IDStrategy:         getEnv("ID_STRATEGY", "sequence"),
			ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Directory: DirectoryConfig{
			Enabled:           getEnvAsBool("DIRECTORY_ENABLED", true),
			URL:               getEnv("DIRECTORY_URL", "https://jsonplaceholder.typicode.com/users"),
			Timeout:           getEnvAsDuration("DIRECTORY_TIMEOUT", 10*time.Second),
			DefaultDepartment: getEnv("DIRECTORY_DEFAULT_DEPARTMENT", "Default Department"),
		},
		Session: SessionConfig{
			TTL: getEnvAsDuration("SESSION_TTL", time.Hour),
		},
		Notification: NotificationConfig{
			TTL:      getEnvAsDuration("NOTIFICATION_TTL", 5*time.Second),
			RedisURL: getEnv("REDIS_URL", ""),
		},
		Events: EventsConfig{
			Topic:   getEnv("EVENTS_TOPIC", "user.events"),
			NatsURL: getEnv("NATS_URL", ""),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "user-directory-be"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("750ms", "2m") or a bare
// number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	if seconds := getEnvAsInt(key, 0); seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
