package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBReplicaDSNs []string
	SQLitePath    string

	SessionStore  string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	ListenAddr    string

	AppURL         string
	AllowedOrigins []string

	BootstrapStarterProject bool

	Mail   MailConfig
	Outbox OutboxConfig

	OpenAIAPIKey string
}

// MailConfig selects and configures the outbound email provider.
type MailConfig struct {
	Provider     string
	From         string
	ResendAPIKey string
	ResendURL    string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
}

type OutboxConfig struct {
	Schedule    string
	BatchSize   int
	MaxAttempts int
	RetryDelay  time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "projectuser"),
		DBPassword:    getEnv("DB_PASSWORD", "projectpassword"),
		DBName:        getEnv("DB_NAME", "project_management"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		DBReplicaDSNs: getEnvList("DB_REPLICA_DSNS"),
		SQLitePath:    getEnv("SQLITE_PATH", "project_management.db"),

		SessionStore:  getEnv("SESSION_STORE", "redis"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),

		AppURL:         strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		AllowedOrigins: getEnvListDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		BootstrapStarterProject: getEnvBool("BOOTSTRAP_STARTER_PROJECT", true),

		Mail: MailConfig{
			Provider:     getEnv("MAIL_PROVIDER", "log"),
			From:         getEnv("MAIL_FROM", "Project Management <onboarding@resend.dev>"),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			ResendURL:    getEnv("RESEND_API_URL", "https://api.resend.com"),
			SMTPHost:     getEnv("SMTP_HOST", "localhost"),
			SMTPPort:     getEnvInt("SMTP_PORT", 587),
			SMTPUser:     getEnv("SMTP_USER", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			AWSRegion:    getEnv("AWS_REGION", "eu-central-1"),
			AWSAccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			AWSSecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Outbox: OutboxConfig{
			Schedule:    getEnv("OUTBOX_SCHEDULE", "@every 15s"),
			BatchSize:   getEnvInt("OUTBOX_BATCH_SIZE", 20),
			MaxAttempts: getEnvInt("OUTBOX_MAX_ATTEMPTS", 5),
			RetryDelay:  getEnvDuration("OUTBOX_RETRY_DELAY", time.Minute),
		},

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string) []string {
	return getEnvListDefault(key, nil)
}

func getEnvListDefault(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
