package config // package config loads application configuration from environment variables

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the core runtime configuration.  Each field corresponds to
// an environment variable.  Tuning for optional subsystems (rate limit,
// cache, locks, scheduler) lives in the per-concern loaders.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	DBMigrate    bool   // apply embedded migrations at startup
	JWTSecret    string // secret used to verify (and, in tooling, sign) JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	AMQPURL      string // RabbitMQ URL; events are disabled when empty
	AuditLog     string // file the audit consumer appends to
	CountPending bool   // subtract pending reservations when checking availability
}

// LoadDotEnv reads a .env file into the environment when one exists.
// Variables already set in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		DBMigrate:    envBool("DB_MIGRATE", true),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: AccessTTLMinutes(),
		AMQPURL:      amqpURL(),
		AuditLog:     envStr("AUDIT_LOG_PATH", "logs/reservations.log"),
		CountPending: envBool("BOOKING_COUNT_PENDING", false),
	}
}

// amqpURL honours RABBITMQ_URL first and AMQP_URL as a fallback.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// AccessTTLMinutes returns ACCESS_TOKEN_TTL_MIN, defaulting to 15.
func AccessTTLMinutes() int { return envInt("ACCESS_TOKEN_TTL_MIN", 15) }
