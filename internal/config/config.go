package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types

    "github.com/joho/godotenv" // godotenv loads a local .env file in development
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
    Env             string // application environment (e.g. "dev", "prod")
    Port            string // HTTP port to listen on
    DBUser          string // database username
    DBPass          string // database password (optional)
    DBHost          string // database host address
    DBPort          string // database port number
    DBName          string // database name
    SessionTTLMin   int    // idle session time‑to‑live in minutes
    RememberSecret  string // secret used to sign remember‑me tokens (optional; empty disables the feature)
    RememberTTLDays int    // remember‑me token time‑to‑live in days
    BcryptCost      int    // bcrypt cost for password hashing
    DevSeed         bool   // create the users table and demo account when it is empty (development only)
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is applied first when
// present, so development machines do not need to export everything by
// hand.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    _ = godotenv.Load() // absence of a .env file is fine

    env := must("APP_ENV") // environment (dev/test/prod)
    return Config{
        Env:             env,
        Port:            must("APP_PORT"),             // port to bind the HTTP server
        DBUser:          must("DB_USER"),              // database user
        DBPass:          os.Getenv("DB_PASS"),         // database password (empty allowed)
        DBHost:          must("DB_HOST"),              // database host
        DBPort:          must("DB_PORT"),              // database port
        DBName:          must("DB_NAME"),              // database name
        SessionTTLMin:   mustInt("SESSION_TTL_MIN"),   // idle TTL for browser sessions in minutes
        RememberSecret:  os.Getenv("REMEMBER_SECRET"), // signing secret; remember‑me is off when empty
        RememberTTLDays: intOr("REMEMBER_TTL_DAYS", 30),
        BcryptCost:      mustInt("BCRYPT_COST"),       // bcrypt cost factor
        // The demo seed is a development convenience, never a production
        // behavior: it is on in dev and otherwise requires an explicit opt‑in.
        DevSeed: env == "dev" || boolOr("SEED_DEMO_ACCOUNT", false),
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

// intOr returns the integer value of an optional variable or a default.
func intOr(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            return n
        }
    }
    return def
}

// boolOr returns the boolean value of an optional variable or a default.
func boolOr(key string, def bool) bool {
    switch os.Getenv(key) {
    case "1", "true", "TRUE", "True", "yes", "on":
        return true
    case "0", "false", "FALSE", "False", "no", "off":
        return false
    }
    return def
}
