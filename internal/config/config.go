package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for counts.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	BcryptCost  int    // bcrypt cost for password hashing
	GridRows    string // row labels of the per-showtime seat grid, e.g. "ABCDEFGH"
	SeatsPerRow int    // seats in each row of the grid
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),      // environment (dev/test/prod)
		Port:        must("APP_PORT"),     // port to bind the HTTP server
		DBUser:      must("DB_USER"),      // database user
		DBPass:      os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:      must("DB_HOST"),      // database host
		DBPort:      must("DB_PORT"),      // database port
		DBName:      must("DB_NAME"),      // database name
		BcryptCost:  intOr("BCRYPT_COST", 12),
		GridRows:    getenv("GRID_ROWS", "ABCDEFGH"),
		SeatsPerRow: intOr("GRID_SEATS_PER_ROW", 8),
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

// intOr converts the variable to an integer, falling back to def when the
// variable is unset.  A malformed value is fatal.
func intOr(key string, def int) int {
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
