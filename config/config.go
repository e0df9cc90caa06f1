package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values of DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// AppConfig holds application configuration loaded from environment variables and .env file.
type AppConfig struct {
	// Database config
	DBDriver          string
	DBHost            string
	DBPort            int
	DBUser            string
	DBPass            string
	DBName            string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBAutoMigrate     bool
	DBSlowQuery       time.Duration

	// Logging config
	LogLevel      string
	LogFile       string
	LogMaxSize    int // MB
	LogMaxBackups int
	LogMaxAge     int // days
	LogCompress   bool

	// HTTP config
	Port               string
	CORSAllowedOrigins []string

	// Session config
	SessionSecret          string
	SessionSecretGenerated bool
	SessionName            string
	SessionMaxAge          time.Duration
	SessionSecure          bool

	// Seeded admin account, created only when no admin exists
	AdminUsername string
	AdminPassword string

	// Reminders
	ReminderTimezone    string
	ReminderDefaultDays int

	// reg_num / sr_no allocation retries on unique conflicts
	RegNumMaxRetries int

	// Pagination
	PageSizeDefault int
	PageSizeMax     int

	// Background jobs
	LookupRefreshInterval  time.Duration
	ReminderDigestInterval time.Duration
}

// Cfg is the global application configuration instance.
var Cfg AppConfig

// LoadConfig loads and validates application configuration from .env file and environment variables.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		// logger is not initialized yet
		log.Printf("[WARN] .env file not found or cannot be loaded: %v", err)
	} else {
		log.Printf("[INFO] .env file loaded successfully")
	}

	Cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", DriverMySQL))
	Cfg.DBHost = getEnv("DB_HOST", "127.0.0.1")
	Cfg.DBPort = getEnvInt("DB_PORT", defaultPort(Cfg.DBDriver))
	Cfg.DBUser = getEnv("DB_USER", "root")
	Cfg.DBPass = getEnv("DB_PASS", "")
	Cfg.DBName = getEnv("DB_NAME", "insurance_db")
	Cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	Cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	Cfg.DBConnMaxLifetime = time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute
	Cfg.DBAutoMigrate = getEnvBool("DB_AUTO_MIGRATE", true)
	Cfg.DBSlowQuery = time.Duration(getEnvInt("DB_SLOW_QUERY_MS", 200)) * time.Millisecond

	Cfg.LogLevel = getEnv("LOG_LEVEL", "INFO")
	Cfg.LogFile = getEnv("LOG_FILE", "logs/insuranceapi.log")
	Cfg.LogMaxSize = getEnvInt("LOG_MAX_SIZE", 10)
	Cfg.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", 3)
	Cfg.LogMaxAge = getEnvInt("LOG_MAX_AGE", 28)
	Cfg.LogCompress = getEnvBool("LOG_COMPRESS", true)

	Cfg.Port = getEnv("PORT", "8081")
	Cfg.CORSAllowedOrigins = getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{
		"http://localhost:3000",
		"http://localhost:5173",
	})

	Cfg.SessionSecret = getEnv("SESSION_SECRET", "")
	if Cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		Cfg.SessionSecret = secret
		Cfg.SessionSecretGenerated = true
	}
	Cfg.SessionName = getEnv("SESSION_NAME", "insurance_session")
	Cfg.SessionMaxAge = time.Duration(getEnvInt("SESSION_MAX_AGE_HOURS", 12)) * time.Hour
	Cfg.SessionSecure = getEnvBool("SESSION_SECURE", false)

	Cfg.AdminUsername = getEnv("ADMIN_USERNAME", "admin")
	Cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "Admin@123")

	Cfg.ReminderTimezone = getEnv("REMINDER_TIMEZONE", "UTC")
	Cfg.ReminderDefaultDays = getEnvInt("REMINDER_DEFAULT_DAYS", 7)

	Cfg.RegNumMaxRetries = getEnvInt("REG_NUM_MAX_RETRIES", 5)

	Cfg.PageSizeDefault = getEnvInt("PAGE_SIZE_DEFAULT", 10)
	Cfg.PageSizeMax = getEnvInt("PAGE_SIZE_MAX", 100)

	Cfg.LookupRefreshInterval = time.Duration(getEnvInt("JOB_LOOKUP_REFRESH_MIN", 15)) * time.Minute
	Cfg.ReminderDigestInterval = time.Duration(getEnvInt("JOB_REMINDER_DIGEST_HOURS", 24)) * time.Hour

	if err := Cfg.Validate(); err != nil {
		return err
	}

	log.Printf("[INFO] Config loaded - DB: %s %s@%s:%d/%s, LogLevel: %s",
		Cfg.DBDriver, Cfg.DBUser, Cfg.DBHost, Cfg.DBPort, Cfg.DBName, Cfg.LogLevel)
	return nil
}

// Validate rejects settings the application cannot start with.
func (c *AppConfig) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if _, err := time.LoadLocation(c.ReminderTimezone); err != nil {
		return fmt.Errorf("invalid REMINDER_TIMEZONE %q: %w", c.ReminderTimezone, err)
	}
	if c.ReminderDefaultDays < 0 {
		return fmt.Errorf("REMINDER_DEFAULT_DAYS must not be negative")
	}
	if c.PageSizeDefault <= 0 || c.PageSizeMax < c.PageSizeDefault {
		return fmt.Errorf("invalid page sizes: default %d, max %d", c.PageSizeDefault, c.PageSizeMax)
	}
	if c.LookupRefreshInterval <= 0 || c.ReminderDigestInterval <= 0 {
		return fmt.Errorf("job intervals must be positive")
	}
	if c.RegNumMaxRetries < 1 {
		c.RegNumMaxRetries = 1
	}
	return nil
}

// ReminderLocation returns the zone "today" is taken in for reminders. UTC when unset or invalid.
func ReminderLocation() *time.Location {
	loc, err := time.LoadLocation(Cfg.ReminderTimezone)
	if err != nil || Cfg.ReminderTimezone == "" {
		return time.UTC
	}
	return loc
}

func defaultPort(driver string) int {
	if driver == DriverPostgres {
		return 5432
	}
	return 3306
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

// getEnvStringSlice parses a comma-separated variable: "a, b,c" -> []string{"a", "b", "c"}
func getEnvStringSlice(key string, defaultVal []string) []string {
	if val := os.Getenv(key); val != "" {
		items := strings.Split(val, ",")
		result := make([]string, 0, len(items))
		for _, item := range items {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultVal
}
