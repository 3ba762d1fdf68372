package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The hold duration and the per-user / per-event
// limits drive the seat state machine and are validated at startup so an
// out-of-range value can never reach the repositories.
type Config struct {
	Env              string // application environment (e.g. "dev", "prod")
	Port             string // HTTP port to listen on
	HoldDurationSec  int    // seconds a seat hold lives before it expires
	MaxHoldsPerUser  int    // maximum concurrent holds one user may have per event
	MaxSeatsPerEvent int    // upper bound for totalSeats when creating an event
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Numeric knobs must
// be positive; a zero or negative value is a deployment mistake, not a
// runtime condition, so it is fatal as well.
func Load() Config {
	cfg := Config{
		Env:              must("APP_ENV"),                       // environment (dev/test/prod)
		Port:             must("APP_PORT"),                      // port to bind the HTTP server
		HoldDurationSec:  mustInt("SEAT_HOLD_DURATION_SECONDS"), // TTL for seat holds in seconds
		MaxHoldsPerUser:  mustInt("MAX_HOLDS_PER_USER"),         // per-user concurrent hold cap
		MaxSeatsPerEvent: mustInt("MAX_SEATS_PER_EVENT"),        // largest allowed event size
	}
	if cfg.HoldDurationSec <= 0 {
		log.Fatalf("SEAT_HOLD_DURATION_SECONDS must be positive, got %d", cfg.HoldDurationSec)
	}
	if cfg.MaxHoldsPerUser <= 0 {
		log.Fatalf("MAX_HOLDS_PER_USER must be positive, got %d", cfg.MaxHoldsPerUser)
	}
	if cfg.MaxSeatsPerEvent <= 0 {
		log.Fatalf("MAX_SEATS_PER_EVENT must be positive, got %d", cfg.MaxSeatsPerEvent)
	}
	return cfg
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
