package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are enforced at load time; the
// optional ones fall back to development friendly defaults.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	FormSecret   string        // HMAC secret used to sign form tokens
	FormTokenTTL time.Duration // lifetime of a form token

	LogLevel string // logrus level name (debug, info, warn, error)
	LogFile  string // optional file receiving a copy of every log line

	AMQPURL       string // broker URL; empty disables activity publishing
	ActivityQueue string // queue receiving activity events
	ActivityLog   string // file the activity consumer appends to
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	env := getenv("APP_ENV", "dev")
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" && env != "dev" {
		logFile = "error.log" // outside development errors also go to a file
	}
	return Config{
		Env:           env,
		Port:          getenv("APP_PORT", "5000"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		DBHost:        must("DB_HOST"),
		DBPort:        getenv("DB_PORT", "3306"),
		DBName:        must("DB_NAME"),
		FormSecret:    must("FORM_SECRET"),
		FormTokenTTL:  time.Duration(mustIntDefault("FORM_TOKEN_TTL_MIN", 120)) * time.Minute,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFile:       logFile,
		AMQPURL:       amqpURL(),
		ActivityQueue: getenv("ACTIVITY_QUEUE", "fyyur.activity"),
		ActivityLog:   getenv("ACTIVITY_LOG", "logs/activity.log"),
	}
}

// IsDev reports whether the application runs in development mode.
func (c Config) IsDev() bool { return c.Env == "dev" }

// amqpURL honours both RABBITMQ_URL and AMQP_URL.  There is no localhost
// fallback: an unset URL disables messaging.
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

// mustIntDefault returns def when key is unset and exits when it is set to
// something that is not an integer.
func mustIntDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
