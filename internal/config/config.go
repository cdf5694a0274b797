package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration values
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for the
// background sweep timing.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	DBUser           string        // database username
	DBPass           string        // database password (optional)
	DBHost           string        // database host address
	DBPort           string        // database port number
	DBName           string        // database name
	GuestTokenSecret string        // secret used to sign guest access tokens
	PaymentBaseURL   string        // base URL of the payment gateway API
	PaymentServerKey string        // server key for gateway basic auth
	PaymentClientKey string        // client key embedded in checkout pages (optional)
	BcryptCost       int           // bcrypt cost for password hashing
	SweepInterval    time.Duration // how often the pending-payment sweeper runs
	PendingMaxAge    time.Duration // how long a pending booking may wait for payment
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),              // environment (dev/test/prod)
		Port:             must("APP_PORT"),             // port to bind the HTTP server
		DBUser:           must("DB_USER"),              // database user
		DBPass:           os.Getenv("DB_PASS"),         // database password (empty allowed)
		DBHost:           must("DB_HOST"),              // database host
		DBPort:           must("DB_PORT"),              // database port
		DBName:           must("DB_NAME"),              // database name
		GuestTokenSecret: must("GUEST_TOKEN_SECRET"),   // secret for guest access tokens
		PaymentBaseURL:   must("PAYMENT_BASE_URL"),     // gateway base URL
		PaymentServerKey: must("PAYMENT_SERVER_KEY"),   // gateway server key
		PaymentClientKey: os.Getenv("PAYMENT_CLIENT_KEY"),
		BcryptCost:       mustInt("BCRYPT_COST"),       // bcrypt cost factor
		SweepInterval:    dur("SWEEP_INTERVAL", time.Minute),
		PendingMaxAge:    dur("PENDING_MAX_AGE", 30*time.Minute),
	}
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// dur reads an optional duration variable, falling back to def when the
// variable is unset.  A malformed value is fatal rather than silently
// replaced: sweeping at the wrong cadence expires paid bookings.
func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}
