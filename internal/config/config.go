package config // package config loads application configuration from environment variables

import (
	"encoding/base64" // base64 decodes the ballot encryption key
	"log"             // log is used to report configuration errors and halt execution
	"os"              // os provides access to environment variables
	"strconv"         // strconv converts strings to other types
	"strings"         // strings splits the CORS origin list
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and work factors, and a raw byte slice for the ballot encryption key.
type Config struct {
	Env              string   // application environment (e.g. "dev", "prod")
	Port             string   // HTTP port to listen on
	DBUser           string   // database username
	DBPass           string   // database password (optional)
	DBHost           string   // database host address
	DBPort           string   // database port number
	DBName           string   // database name
	JWTSecret        string   // secret used to sign JWTs
	AccessTTLMin     int      // access token time-to-live in minutes
	PBKDF2Iterations int      // iteration count for password hashing
	EncryptionKey    []byte   // 32-byte AES-256 key for ballot encryption
	FrontendOrigins  []string // allowed CORS origins
	AdminUsername    string   // seeded admin account name
	AdminPassword    string   // seeded admin account password
}

// Load reads configuration values from environment variables and returns a
// Config.  Most values fall back to documented defaults; the ballot
// encryption key has no safe default and causes the program to exit when it
// is missing or malformed.
func Load() Config {
	return Config{
		Env:              getenv("APP_ENV", "dev"),
		Port:             getenv("APP_PORT", "8000"),
		DBUser:           getenv("DB_USER", "voting"),
		DBPass:           os.Getenv("DB_PASS"), // empty allowed
		DBHost:           getenv("DB_HOST", "localhost"),
		DBPort:           getenv("DB_PORT", "3306"),
		DBName:           getenv("DB_NAME", "voting"),
		JWTSecret:        getenv("SECRET_KEY", "change-me-to-a-secure-random-string"),
		AccessTTLMin:     envInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60),
		PBKDF2Iterations: envInt("PBKDF2_ITERATIONS", 29000),
		EncryptionKey:    mustEncryptionKey("VOTE_ENCRYPTION_KEY"),
		FrontendOrigins:  splitOrigins(getenv("FRONTEND_ORIGINS", "http://localhost:5173")),
		AdminUsername:    getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getenv("ADMIN_PASSWORD", "Admin@123"),
	}
}

// mustEncryptionKey retrieves and decodes the base64 encoded ballot key.
// The decoded key must be exactly 32 bytes (AES-256).  Any violation is a
// fatal configuration error: storing ballots in plaintext is never an
// acceptable fallback, so the service fails closed.
func mustEncryptionKey(name string) []byte {
	v := os.Getenv(name)
	if v == "" {
		log.Fatalf("%s is not set", name)
	}
	key, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		log.Fatalf("invalid base64 for %s: %v", name, err)
	}
	if len(key) != 32 {
		log.Fatalf("%s must decode to 32 bytes, got %d", name, len(key))
	}
	return key
}

// splitOrigins parses a comma separated origin list, dropping empty entries.
func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}
